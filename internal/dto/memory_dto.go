package dto

import (
	"time"

	"github.com/google/uuid"
)

type MemoryCandidateResponse struct {
	Id         uuid.UUID  `json:"id"`
	SessionId  uuid.UUID  `json:"session_id"`
	Category   string     `json:"category"`
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
	Review     string     `json:"review"` // pending | approved | rejected
	ApprovedAt *time.Time `json:"approved_at"`
	RejectedAt *time.Time `json:"rejected_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
