package model

import (
	"time"

	"github.com/google/uuid"
)

type AIRequestLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:ai_request_kind;not null"`
	Model     string    `gorm:"type:varchar(100);not null"`
	LatencyMs *int64
	Status    string    `gorm:"type:ai_request_status;not null"`
	Error     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AIRequestLog) TableName() string {
	return "ai_request_logs"
}
