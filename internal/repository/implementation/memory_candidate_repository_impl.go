package implementation

import (
	"context"
	"errors"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/mapper"
	"github.com/ProbablyAY/SparkCo/internal/model"
	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
	"github.com/ProbablyAY/SparkCo/internal/repository/scope"
	"github.com/ProbablyAY/SparkCo/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryCandidateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryCandidateMapper
}

func NewMemoryCandidateRepository(db *gorm.DB) contract.MemoryCandidateRepository {
	return &MemoryCandidateRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryCandidateMapper(),
	}
}

func (r *MemoryCandidateRepositoryImpl) CreateBulk(ctx context.Context, candidates []*entity.MemoryCandidate) error {
	if len(candidates) == 0 {
		return nil
	}
	models := make([]*model.MemoryCandidate, len(candidates))
	for i, c := range candidates {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*candidates[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

// FindOwned matches on the owning session's user, so a candidate whose user_id
// disagrees with its session is never reachable.
func (r *MemoryCandidateRepositoryImpl) FindOwned(ctx context.Context, id, userID uuid.UUID) (*entity.MemoryCandidate, error) {
	var m model.MemoryCandidate
	err := r.db.WithContext(ctx).
		Joins("JOIN journal_sessions ON journal_sessions.id = memory_candidates.session_id").
		Where("memory_candidates.id = ? AND journal_sessions.user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MemoryCandidateRepositoryImpl) UpdateReview(ctx context.Context, id uuid.UUID, review entity.ReviewState) error {
	approvedAt, rejectedAt := review.Columns()
	return applySpecifications(r.db.WithContext(ctx).Model(&model.MemoryCandidate{}), specification.ByID{ID: id}).
		Updates(map[string]interface{}{
			"approved_at": approvedAt,
			"rejected_at": rejectedAt,
		}).Error
}

func (r *MemoryCandidateRepositoryImpl) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.MemoryCandidate, error) {
	var models []*model.MemoryCandidate
	query := applySpecifications(r.db.WithContext(ctx), specification.BySessionID{SessionID: sessionID})
	if err := query.Scopes(scope.OrderByCreatedAsc).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MemoryCandidateRepositoryImpl) FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.MemoryCandidate, error) {
	var models []*model.MemoryCandidate
	query := applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userID},
		specification.ApprovedMemories{},
	)
	if err := query.Scopes(scope.OrderByCreatedDesc).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
