package memory

import (
	"context"
	"time"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
)

type artifactRepository struct {
	u *unitOfWork
}

func (r *artifactRepository) Upsert(ctx context.Context, artifact *entity.Artifact) error {
	return r.u.write(func(d *dataset) error {
		now := time.Now()
		if existing, ok := d.artifacts[artifact.SessionId]; ok {
			artifact.Id = existing.Id
			artifact.CreatedAt = existing.CreatedAt
		} else {
			artifact.Id = uuid.New()
			artifact.CreatedAt = now
		}
		artifact.UpdatedAt = now
		d.artifacts[artifact.SessionId] = *artifact
		return nil
	})
}

func (r *artifactRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) (*entity.Artifact, error) {
	var found *entity.Artifact
	err := r.u.read(func(d *dataset) error {
		if a, ok := d.artifacts[sessionID]; ok {
			found = &a
		}
		return nil
	})
	return found, err
}
