package mapper

import (
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/model"

	"gorm.io/datatypes"
)

type ArtifactMapper struct{}

func NewArtifactMapper() *ArtifactMapper {
	return &ArtifactMapper{}
}

func (m *ArtifactMapper) ToEntity(a *model.Artifact) *entity.Artifact {
	if a == nil {
		return nil
	}

	timeline := make([]entity.EmotionalTimelineEntry, len(a.EmotionalTimelineJson))
	for i, t := range a.EmotionalTimelineJson {
		timeline[i] = entity.EmotionalTimelineEntry{
			T:        entity.TimelineAnchor(t.T),
			Label:    t.Label,
			Evidence: t.Evidence,
		}
	}

	moments := make([]entity.KeyMoment, len(a.KeyMomentsJson))
	for i, k := range a.KeyMomentsJson {
		moments[i] = entity.KeyMoment(k)
	}

	return &entity.Artifact{
		Id:                a.Id,
		SessionId:         a.SessionId,
		CuratedEntryMd:    a.CuratedEntryMd,
		SummaryBullets:    []string(a.SummaryBulletsJson),
		Themes:            []string(a.ThemesJson),
		EmotionalTimeline: timeline,
		KeyMoments:        moments,
		FollowupQuestions: []string(a.FollowupQuestionsJson),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func (m *ArtifactMapper) ToModel(a *entity.Artifact) *model.Artifact {
	if a == nil {
		return nil
	}

	timeline := make(datatypes.JSONSlice[model.EmotionalTimelineEntry], len(a.EmotionalTimeline))
	for i, t := range a.EmotionalTimeline {
		timeline[i] = model.EmotionalTimelineEntry{
			T:        string(t.T),
			Label:    t.Label,
			Evidence: t.Evidence,
		}
	}

	moments := make(datatypes.JSONSlice[model.KeyMoment], len(a.KeyMoments))
	for i, k := range a.KeyMoments {
		moments[i] = model.KeyMoment(k)
	}

	return &model.Artifact{
		Id:                    a.Id,
		SessionId:             a.SessionId,
		CuratedEntryMd:        a.CuratedEntryMd,
		SummaryBulletsJson:    nonNil(a.SummaryBullets),
		ThemesJson:            nonNil(a.Themes),
		EmotionalTimelineJson: timeline,
		KeyMomentsJson:        moments,
		FollowupQuestionsJson: nonNil(a.FollowupQuestions),
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

// jsonb columns are NOT NULL; a nil slice would serialise as null.
func nonNil(s []string) datatypes.JSONSlice[string] {
	if s == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](s)
}
