package model

import (
	"time"

	"github.com/google/uuid"
)

// Utterance.Seq is a bigserial: monotonic across the table, so per-session order
// never depends on wall-clock time.
type Utterance struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index:idx_utterances_session_seq,priority:1"`
	Speaker   string    `gorm:"type:speaker;not null"`
	Text      string    `gorm:"type:text;not null"`
	StartMs   *int64
	EndMs     *int64
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Utterance) TableName() string {
	return "utterances"
}
