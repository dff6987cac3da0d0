package dto

import "github.com/google/uuid"

// CurationMessage is the payload handed from the outbox dispatcher to the curation consumer.
type CurationMessage struct {
	JobId     uuid.UUID `json:"job_id"`
	SessionId uuid.UUID `json:"session_id"`
}
