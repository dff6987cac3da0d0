package contract

import (
	"context"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type MemoryCandidateRepository interface {
	CreateBulk(ctx context.Context, candidates []*entity.MemoryCandidate) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*entity.MemoryCandidate, error)
	UpdateReview(ctx context.Context, id uuid.UUID, review entity.ReviewState) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.MemoryCandidate, error)
	FindApprovedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.MemoryCandidate, error)
}
