package entity

import (
	"time"

	"github.com/google/uuid"
)

type TimelineAnchor string

const (
	TimelineStart TimelineAnchor = "start"
	TimelineMid   TimelineAnchor = "mid"
	TimelineEnd   TimelineAnchor = "end"
)

type EmotionalTimelineEntry struct {
	T        TimelineAnchor `json:"t"`
	Label    string         `json:"label"`
	Evidence string         `json:"evidence"`
}

type KeyMoment struct {
	TimestampMs  float64 `json:"timestamp_ms"`
	Moment       string  `json:"moment"`
	WhyItMatters string  `json:"why_it_matters"`
}

type Artifact struct {
	Id                uuid.UUID
	SessionId         uuid.UUID
	CuratedEntryMd    string
	SummaryBullets    []string
	Themes            []string
	EmotionalTimeline []EmotionalTimelineEntry
	KeyMoments        []KeyMoment
	FollowupQuestions []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
