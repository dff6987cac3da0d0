package entity

import (
	"time"

	"github.com/google/uuid"
)

type AIRequestKind string

const (
	AIRequestKindRealtime AIRequestKind = "realtime"
	AIRequestKindCurate   AIRequestKind = "curate"
)

type AIRequestStatus string

const (
	AIRequestStatusOk    AIRequestStatus = "ok"
	AIRequestStatusError AIRequestStatus = "error"
)

// AIRequestLog is append-only: one row per realtime token request or curation run.
type AIRequestLog struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Kind      AIRequestKind
	Model     string
	LatencyMs *int64
	Status    AIRequestStatus
	Error     *string
	CreatedAt time.Time
}
