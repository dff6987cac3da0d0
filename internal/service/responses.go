package service

import (
	"github.com/ProbablyAY/SparkCo/internal/dto"
	"github.com/ProbablyAY/SparkCo/internal/entity"
)

func toSessionResponse(s *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:              s.Id,
		Status:          string(s.Status),
		Title:           s.Title,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toUtteranceResponse(u *entity.Utterance) *dto.UtteranceResponse {
	return &dto.UtteranceResponse{
		Seq:       u.Seq,
		Speaker:   string(u.Speaker),
		Text:      u.Text,
		StartMs:   u.StartMs,
		EndMs:     u.EndMs,
		CreatedAt: u.CreatedAt,
	}
}

func toArtifactResponse(a *entity.Artifact) *dto.ArtifactResponse {
	if a == nil {
		return nil
	}

	timeline := make([]dto.EmotionalTimelineEntryResponse, len(a.EmotionalTimeline))
	for i, e := range a.EmotionalTimeline {
		timeline[i] = dto.EmotionalTimelineEntryResponse{T: string(e.T), Label: e.Label, Evidence: e.Evidence}
	}
	moments := make([]dto.KeyMomentResponse, len(a.KeyMoments))
	for i, k := range a.KeyMoments {
		moments[i] = dto.KeyMomentResponse{TimestampMs: k.TimestampMs, Moment: k.Moment, WhyItMatters: k.WhyItMatters}
	}

	return &dto.ArtifactResponse{
		Id:                a.Id,
		CuratedEntryMd:    a.CuratedEntryMd,
		SummaryBullets:    a.SummaryBullets,
		Themes:            a.Themes,
		EmotionalTimeline: timeline,
		KeyMoments:        moments,
		FollowupQuestions: a.FollowupQuestions,
		UpdatedAt:         a.UpdatedAt,
	}
}

func reviewLabel(r entity.ReviewState) string {
	switch r.Kind {
	case entity.ReviewApproved:
		return "approved"
	case entity.ReviewRejected:
		return "rejected"
	}
	return "pending"
}

func toMemoryCandidateResponse(c *entity.MemoryCandidate) *dto.MemoryCandidateResponse {
	approvedAt, rejectedAt := c.Review.Columns()
	return &dto.MemoryCandidateResponse{
		Id:         c.Id,
		SessionId:  c.SessionId,
		Category:   string(c.Category),
		Text:       c.Text,
		Confidence: c.Confidence,
		Review:     reviewLabel(c.Review),
		ApprovedAt: approvedAt,
		RejectedAt: rejectedAt,
		CreatedAt:  c.CreatedAt,
	}
}
