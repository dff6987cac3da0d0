package implementation

import (
	"context"
	"errors"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/mapper"
	"github.com/ProbablyAY/SparkCo/internal/model"
	"github.com/ProbablyAY/SparkCo/internal/repository/contract"
	"github.com/ProbablyAY/SparkCo/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArtifactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArtifactMapper
}

func NewArtifactRepository(db *gorm.DB) contract.ArtifactRepository {
	return &ArtifactRepositoryImpl{
		db:     db,
		mapper: mapper.NewArtifactMapper(),
	}
}

func (r *ArtifactRepositoryImpl) Upsert(ctx context.Context, artifact *entity.Artifact) error {
	m := r.mapper.ToModel(artifact)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"curated_entry_md",
			"summary_bullets_json",
			"themes_json",
			"emotional_timeline_json",
			"key_moments_json",
			"followup_questions_json",
			"updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*artifact = *r.mapper.ToEntity(m)
	return nil
}

func (r *ArtifactRepositoryImpl) FindBySession(ctx context.Context, sessionID uuid.UUID) (*entity.Artifact, error) {
	var m model.Artifact
	query := applySpecifications(r.db.WithContext(ctx), specification.BySessionID{SessionID: sessionID})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
