package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmotionalTimelineEntry struct {
	T        string `json:"t"`
	Label    string `json:"label"`
	Evidence string `json:"evidence"`
}

type KeyMoment struct {
	TimestampMs  float64 `json:"timestamp_ms"`
	Moment       string  `json:"moment"`
	WhyItMatters string  `json:"why_it_matters"`
}

type Artifact struct {
	Id                    uuid.UUID                                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId             uuid.UUID                                   `gorm:"type:uuid;not null;uniqueIndex"`
	CuratedEntryMd        string                                      `gorm:"type:text;not null"`
	SummaryBulletsJson    datatypes.JSONSlice[string]                 `gorm:"type:jsonb;not null;default:'[]'"`
	ThemesJson            datatypes.JSONSlice[string]                 `gorm:"type:jsonb;not null;default:'[]'"`
	EmotionalTimelineJson datatypes.JSONSlice[EmotionalTimelineEntry] `gorm:"type:jsonb;not null;default:'[]'"`
	KeyMomentsJson        datatypes.JSONSlice[KeyMoment]              `gorm:"type:jsonb;not null;default:'[]'"`
	FollowupQuestionsJson datatypes.JSONSlice[string]                 `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt             time.Time                                   `gorm:"autoCreateTime"`
	UpdatedAt             time.Time                                   `gorm:"autoUpdateTime"`
}

func (Artifact) TableName() string {
	return "artifacts"
}
