package contract

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

// Finders return (nil, nil) when nothing matches.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*entity.Session, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error)

	// MarkProcessing moves a live session to processing. It reports false when the
	// session was no longer live.
	MarkProcessing(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSeconds int) (bool, error)

	// Finalize moves a processing session to a terminal status. It reports false when
	// the session was no longer processing.
	Finalize(ctx context.Context, id uuid.UUID, status entity.SessionStatus, title string) (bool, error)
}
