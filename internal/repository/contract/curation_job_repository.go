package contract

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type CurationJobRepository interface {
	Enqueue(ctx context.Context, sessionID uuid.UUID) (*entity.CurationJob, error)

	// Claim hands out at most limit PENDING jobs, oldest first, marking them DISPATCHED.
	// DISPATCHED jobs whose lock is older than lease are handed out again. Jobs that
	// already reached maxDeliveries are returned in exhausted instead of claimed.
	Claim(ctx context.Context, workerID string, limit int, lease time.Duration, maxDeliveries int) (claimed, exhausted []*entity.CurationJob, err error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.CurationJob, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastErr string) error
}
