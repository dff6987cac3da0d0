package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/mapper"
	"github.com/ProbablyAY/SparkCo/internal/model"
	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
	"github.com/ProbablyAY/SparkCo/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *SessionRepositoryImpl) FindOwned(ctx context.Context, id, userID uuid.UUID) (*entity.Session, error) {
	return r.findOne(ctx, specification.ByID{ID: id}, specification.UserOwnedBy{UserID: userID})
}

func (r *SessionRepositoryImpl) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	var models []*model.JournalSession
	query := applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userID},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SessionsToEntities(models), nil
}

func (r *SessionRepositoryImpl) MarkProcessing(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSeconds int) (bool, error) {
	res := applySpecifications(r.db.WithContext(ctx).Model(&model.JournalSession{}),
		specification.ByID{ID: id},
		specification.WithStatus{Status: entity.SessionStatusLive},
	).Updates(map[string]interface{}{
		"status":           string(entity.SessionStatusProcessing),
		"ended_at":         endedAt,
		"duration_seconds": durationSeconds,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) Finalize(ctx context.Context, id uuid.UUID, status entity.SessionStatus, title string) (bool, error) {
	if !entity.SessionStatusProcessing.CanTransitionTo(status) {
		return false, errors.New("finalize: not a terminal status: " + string(status))
	}
	res := applySpecifications(r.db.WithContext(ctx).Model(&model.JournalSession{}),
		specification.ByID{ID: id},
		specification.WithStatus{Status: entity.SessionStatusProcessing},
	).Updates(map[string]interface{}{
		"status": string(status),
		"title":  title,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.JournalSession
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}
