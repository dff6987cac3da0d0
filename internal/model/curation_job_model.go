package model

import (
	"time"

	"github.com/google/uuid"
)

type CurationJob struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_curation_jobs_status_created,priority:1"`
	Deliveries int        `gorm:"not null;default:0"`
	LockedBy   *string    `gorm:"type:text"`
	LockedAt   *time.Time `gorm:"type:timestamptz"`
	LastError  *string    `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"not null;default:now();index:idx_curation_jobs_status_created,priority:2"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()"`
}

func (CurationJob) TableName() string {
	return "curation_jobs"
}
