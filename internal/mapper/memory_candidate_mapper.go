package mapper

import (
	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/model"
)

type MemoryCandidateMapper struct{}

func NewMemoryCandidateMapper() *MemoryCandidateMapper {
	return &MemoryCandidateMapper{}
}

func (m *MemoryCandidateMapper) ToEntity(c *model.MemoryCandidate) *entity.MemoryCandidate {
	if c == nil {
		return nil
	}
	return &entity.MemoryCandidate{
		Id:         c.Id,
		UserId:     c.UserId,
		SessionId:  c.SessionId,
		Category:   entity.MemoryCategory(c.Category),
		Text:       c.Text,
		Confidence: c.Confidence,
		Review:     entity.ReviewFromColumns(c.ApprovedAt, c.RejectedAt),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *MemoryCandidateMapper) ToModel(c *entity.MemoryCandidate) *model.MemoryCandidate {
	if c == nil {
		return nil
	}
	approvedAt, rejectedAt := c.Review.Columns()
	return &model.MemoryCandidate{
		Id:         c.Id,
		UserId:     c.UserId,
		SessionId:  c.SessionId,
		Category:   string(c.Category),
		Text:       c.Text,
		Confidence: c.Confidence,
		ApprovedAt: approvedAt,
		RejectedAt: rejectedAt,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *MemoryCandidateMapper) ToEntities(models []*model.MemoryCandidate) []*entity.MemoryCandidate {
	entities := make([]*entity.MemoryCandidate, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
