package contract

import (
	"context"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type ArtifactRepository interface {
	// Upsert replaces any existing artifact for the same session.
	Upsert(ctx context.Context, artifact *entity.Artifact) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*entity.Artifact, error)
}
