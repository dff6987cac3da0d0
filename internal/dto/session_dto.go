package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	Id              uuid.UUID  `json:"id"`
	Status          string     `json:"status"`
	Title           *string    `json:"title"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSeconds *int       `json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type UtteranceResponse struct {
	Seq       int64     `json:"seq"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	StartMs   *int64    `json:"start_ms"`
	EndMs     *int64    `json:"end_ms"`
	CreatedAt time.Time `json:"created_at"`
}

type EmotionalTimelineEntryResponse struct {
	T        string `json:"t"`
	Label    string `json:"label"`
	Evidence string `json:"evidence"`
}

type KeyMomentResponse struct {
	TimestampMs  float64 `json:"timestamp_ms"`
	Moment       string  `json:"moment"`
	WhyItMatters string  `json:"why_it_matters"`
}

type ArtifactResponse struct {
	Id                uuid.UUID                        `json:"id"`
	CuratedEntryMd    string                           `json:"curated_entry_md"`
	SummaryBullets    []string                         `json:"summary_bullets"`
	Themes            []string                         `json:"themes"`
	EmotionalTimeline []EmotionalTimelineEntryResponse `json:"emotional_timeline"`
	KeyMoments        []KeyMomentResponse              `json:"key_moments"`
	FollowupQuestions []string                         `json:"followup_questions"`
	UpdatedAt         time.Time                        `json:"updated_at"`
}

type ShowSessionResponse struct {
	SessionResponse
	Utterances       []*UtteranceResponse       `json:"utterances"`
	Artifact         *ArtifactResponse          `json:"artifact"`
	MemoryCandidates []*MemoryCandidateResponse `json:"memory_candidates"`
}

type UtteranceItem struct {
	Speaker string `json:"speaker" validate:"required,oneof=user ai"`
	Text    string `json:"text" validate:"required"`
	StartMs *int64 `json:"start_ms" validate:"omitempty,gte=0"`
	EndMs   *int64 `json:"end_ms" validate:"omitempty,gte=0"`
}

type AppendUtterancesRequest struct {
	Items []UtteranceItem `json:"items" validate:"required,min=1,max=100,dive"`
}

type AppendUtterancesResponse struct {
	Accepted int `json:"accepted"`
}

type EndSessionResponse struct {
	Id              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

type RealtimeTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Model     string    `json:"model"`
}
