package curation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ProbablyAY/SparkCo/internal/entity"
	"github.com/ProbablyAY/SparkCo/internal/pkg/validation"

	"github.com/google/uuid"
)

var (
	ErrMalformedJSON = errors.New("malformed json")
	ErrSchema        = errors.New("schema violation")
)

// Output is the curator reply. Pointer fields distinguish a missing key from an
// empty value: "" and [] are accepted, an absent key is not.
type Output struct {
	Title             *string           `json:"title" validate:"required"`
	CuratedEntryMd    *string           `json:"curated_entry_md" validate:"required"`
	SummaryBullets    []string          `json:"summary_bullets" validate:"required"`
	Themes            []string          `json:"themes" validate:"required,min=3,max=8"`
	EmotionalTimeline []TimelineEntry   `json:"emotional_timeline" validate:"required,dive"`
	KeyMoments        []KeyMoment       `json:"key_moments" validate:"required,dive"`
	FollowupQuestions []string          `json:"followup_questions" validate:"required"`
	MemoryCandidates  []CandidateOutput `json:"memory_candidates" validate:"required,dive"`
}

type TimelineEntry struct {
	T        *string `json:"t" validate:"required,oneof=start mid end"`
	Label    *string `json:"label" validate:"required"`
	Evidence *string `json:"evidence" validate:"required"`
}

type KeyMoment struct {
	TimestampMs  *float64 `json:"timestamp_ms" validate:"required"`
	Moment       *string  `json:"moment" validate:"required"`
	WhyItMatters *string  `json:"why_it_matters" validate:"required"`
}

type CandidateOutput struct {
	Category   *string  `json:"category" validate:"required,oneof=preference goal relationship project value other"`
	Text       *string  `json:"text" validate:"required,min=1"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
}

// Schema parses and validates raw model output.
type Schema struct {
	// StrictTimeline requires exactly one emotional_timeline entry per anchor.
	StrictTimeline bool
}

func (s Schema) Parse(raw string) (*Output, error) {
	var out Output
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if err := validation.Check(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if s.StrictTimeline {
		if err := checkAnchors(out.EmotionalTimeline); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
	}
	return &out, nil
}

func checkAnchors(entries []TimelineEntry) error {
	seen := make(map[string]int, 3)
	for _, e := range entries {
		seen[*e.T]++
	}
	for _, anchor := range []entity.TimelineAnchor{entity.TimelineStart, entity.TimelineMid, entity.TimelineEnd} {
		if n := seen[string(anchor)]; n != 1 {
			return fmt.Errorf("emotional_timeline: want exactly one %q entry, got %d", anchor, n)
		}
	}
	return nil
}

// Artifact projects a validated output onto the session's artifact.
func (o *Output) Artifact(sessionID uuid.UUID) *entity.Artifact {
	timeline := make([]entity.EmotionalTimelineEntry, len(o.EmotionalTimeline))
	for i, e := range o.EmotionalTimeline {
		timeline[i] = entity.EmotionalTimelineEntry{
			T:        entity.TimelineAnchor(*e.T),
			Label:    *e.Label,
			Evidence: *e.Evidence,
		}
	}

	moments := make([]entity.KeyMoment, len(o.KeyMoments))
	for i, k := range o.KeyMoments {
		moments[i] = entity.KeyMoment{
			TimestampMs:  *k.TimestampMs,
			Moment:       *k.Moment,
			WhyItMatters: *k.WhyItMatters,
		}
	}

	return &entity.Artifact{
		SessionId:         sessionID,
		CuratedEntryMd:    *o.CuratedEntryMd,
		SummaryBullets:    o.SummaryBullets,
		Themes:            o.Themes,
		EmotionalTimeline: timeline,
		KeyMoments:        moments,
		FollowupQuestions: o.FollowupQuestions,
	}
}

// Candidates returns one pending candidate per proposal, in reply order.
func (o *Output) Candidates(userID, sessionID uuid.UUID) []*entity.MemoryCandidate {
	candidates := make([]*entity.MemoryCandidate, len(o.MemoryCandidates))
	for i, c := range o.MemoryCandidates {
		candidates[i] = &entity.MemoryCandidate{
			UserId:     userID,
			SessionId:  sessionID,
			Category:   entity.MemoryCategory(*c.Category),
			Text:       *c.Text,
			Confidence: *c.Confidence,
			Review:     entity.Pending(),
		}
	}
	return candidates
}
