package model

import (
	"time"

	"github.com/google/uuid"
)

type JournalSession struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null;index:idx_journal_sessions_user_started,priority:1"`
	Status          string     `gorm:"type:session_status;not null;default:'live';index"`
	Title           *string    `gorm:"type:text"`
	StartedAt       time.Time  `gorm:"not null;index:idx_journal_sessions_user_started,priority:2"`
	EndedAt         *time.Time `gorm:"type:timestamptz"`
	DurationSeconds *int
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (JournalSession) TableName() string {
	return "journal_sessions"
}
