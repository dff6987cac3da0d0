package model

import (
	"time"

	"github.com/google/uuid"
)

type MemoryCandidate struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index:idx_memory_candidates_user_created,priority:1"`
	SessionId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Category   string     `gorm:"type:memory_category;not null"`
	Text       string     `gorm:"type:text;not null"`
	Confidence float64    `gorm:"not null"`
	ApprovedAt *time.Time `gorm:"type:timestamptz"`
	RejectedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index:idx_memory_candidates_user_created,priority:2"`
}

func (MemoryCandidate) TableName() string {
	return "memory_candidates"
}
