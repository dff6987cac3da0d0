package implementation

import (
	"context"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/mapper"
	"github.com/ProbablyAY/SparkCo/internal/model"
	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
	"github.com/ProbablyAY/SparkCo/internal/repository/scope"
	"github.com/ProbablyAY/SparkCo/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UtteranceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewUtteranceRepository(db *gorm.DB) contract.UtteranceRepository {
	return &UtteranceRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

// CreateBulk inserts in one statement; Postgres hands out the bigserial in VALUES order.
func (r *UtteranceRepositoryImpl) CreateBulk(ctx context.Context, utterances []*entity.Utterance) error {
	if len(utterances) == 0 {
		return nil
	}
	models := make([]*model.Utterance, len(utterances))
	for i, u := range utterances {
		models[i] = r.mapper.UtteranceToModel(u)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*utterances[i] = *r.mapper.UtteranceToEntity(m)
	}
	return nil
}

func (r *UtteranceRepositoryImpl) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.Utterance, error) {
	var models []*model.Utterance
	query := applySpecifications(r.db.WithContext(ctx), specification.BySessionID{SessionID: sessionID})
	if err := query.Scopes(scope.OrderBySeq).Find(&models).Error; err != nil {
		return nil, err
	}
	utterances := make([]*entity.Utterance, len(models))
	for i, m := range models {
		utterances[i] = r.mapper.UtteranceToEntity(m)
	}
	return utterances, nil
}
