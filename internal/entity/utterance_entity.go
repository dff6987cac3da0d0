package entity

import (
	"time"

	"github.com/google/uuid"
)

type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerAI   Speaker = "ai"
)

// Utterance is immutable once written. Seq is assigned by the store and is the
// only ordering key for the transcript.
type Utterance struct {
	Seq       int64
	SessionId uuid.UUID
	Speaker   Speaker
	Text      string
	StartMs   *int64
	EndMs     *int64
	CreatedAt time.Time
}
