package contract

import (
	"context"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type AIRequestLogRepository interface {
	Create(ctx context.Context, log *entity.AIRequestLog) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.AIRequestLog, error)
}
