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

type AIRequestLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewAIRequestLogRepository(db *gorm.DB) contract.AIRequestLogRepository {
	return &AIRequestLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *AIRequestLogRepositoryImpl) Create(ctx context.Context, log *entity.AIRequestLog) error {
	m := r.mapper.AIRequestLogToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.AIRequestLogToEntity(m)
	return nil
}

func (r *AIRequestLogRepositoryImpl) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.AIRequestLog, error) {
	var models []*model.AIRequestLog
	query := applySpecifications(r.db.WithContext(ctx), specification.BySessionID{SessionID: sessionID})
	if err := query.Scopes(scope.OrderByCreatedAsc).Find(&models).Error; err != nil {
		return nil, err
	}
	logs := make([]*entity.AIRequestLog, len(models))
	for i, m := range models {
		logs[i] = r.mapper.AIRequestLogToEntity(m)
	}
	return logs, nil
}
