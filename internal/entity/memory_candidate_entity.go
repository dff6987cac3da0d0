package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemoryCategory string

const (
	MemoryCategoryPreference   MemoryCategory = "preference"
	MemoryCategoryGoal         MemoryCategory = "goal"
	MemoryCategoryRelationship MemoryCategory = "relationship"
	MemoryCategoryProject      MemoryCategory = "project"
	MemoryCategoryValue        MemoryCategory = "value"
	MemoryCategoryOther        MemoryCategory = "other"
)

type ReviewKind int

const (
	ReviewPending ReviewKind = iota
	ReviewApproved
	ReviewRejected
)

// ReviewState is Pending, Approved(At) or Rejected(At). At is zero when Pending.
type ReviewState struct {
	Kind ReviewKind
	At   time.Time
}

func Pending() ReviewState {
	return ReviewState{Kind: ReviewPending}
}

func Approved(at time.Time) ReviewState {
	return ReviewState{Kind: ReviewApproved, At: at}
}

func Rejected(at time.Time) ReviewState {
	return ReviewState{Kind: ReviewRejected, At: at}
}

// Columns projects the state to the approved_at/rejected_at pair. At most one is non-nil.
func (r ReviewState) Columns() (approvedAt, rejectedAt *time.Time) {
	at := r.At
	switch r.Kind {
	case ReviewApproved:
		return &at, nil
	case ReviewRejected:
		return nil, &at
	}
	return nil, nil
}

// ReviewFromColumns rebuilds the state from storage. A row carrying both timestamps
// can only come from outside this service; the later write wins.
func ReviewFromColumns(approvedAt, rejectedAt *time.Time) ReviewState {
	switch {
	case approvedAt != nil && rejectedAt != nil:
		if rejectedAt.After(*approvedAt) {
			return Rejected(*rejectedAt)
		}
		return Approved(*approvedAt)
	case approvedAt != nil:
		return Approved(*approvedAt)
	case rejectedAt != nil:
		return Rejected(*rejectedAt)
	}
	return Pending()
}

type MemoryCandidate struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	SessionId  uuid.UUID
	Category   MemoryCategory
	Text       string
	Confidence float64
	Review     ReviewState
	CreatedAt  time.Time
}
