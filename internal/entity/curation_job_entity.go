package entity

import (
	"time"

	"github.com/google/uuid"
)

type CurationJobStatus string

const (
	CurationJobPending    CurationJobStatus = "PENDING"
	CurationJobDispatched CurationJobStatus = "DISPATCHED"
	CurationJobDone       CurationJobStatus = "DONE"
	CurationJobFailed     CurationJobStatus = "FAILED"
)

// CurationJob is the outbox row written in the same transaction that moves a
// session to processing.
type CurationJob struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	Status     CurationJobStatus
	Deliveries int
	LockedBy   *string
	LockedAt   *time.Time
	LastError  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
