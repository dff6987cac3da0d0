package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusLive       SessionStatus = "live"
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusReady      SessionStatus = "ready"
	SessionStatusFailed     SessionStatus = "failed"
)

// Fixed titles written by the curation pipeline when no model title is available.
const (
	TitleEmptyTranscript  = "Failed: empty transcript"
	TitleProcessingFailed = "Processing failed"
	TitleRetriesExhausted = "Failed: retries exhausted"
)

// sessionTransitions is the whole lifecycle graph: live -> processing -> ready|failed.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusLive:       {SessionStatusProcessing},
	SessionStatusProcessing: {SessionStatusReady, SessionStatusFailed},
}

func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusReady || s == SessionStatusFailed
}

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusLive, SessionStatusProcessing, SessionStatusReady, SessionStatusFailed:
		return true
	}
	return false
}

type Session struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Status          SessionStatus
	Title           *string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DurationSeconds rounds the elapsed time to whole seconds, half away from zero, floored at 0.
func DurationSeconds(startedAt, endedAt time.Time) int {
	ms := float64(endedAt.Sub(startedAt).Milliseconds())
	secs := int(math.Round(ms / 1000))
	if secs < 0 {
		return 0
	}
	return secs
}
