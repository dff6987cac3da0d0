package contract

import (
	"context"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type UtteranceRepository interface {
	// CreateBulk assigns Seq in slice order.
	CreateBulk(ctx context.Context, utterances []*entity.Utterance) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.Utterance, error)
}
