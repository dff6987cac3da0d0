package specification

import (
	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type WithStatus struct {
	Status entity.SessionStatus
}

func (s WithStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// ApprovedMemories keeps candidates whose latest review is an approval.
type ApprovedMemories struct{}

func (s ApprovedMemories) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("approved_at IS NOT NULL AND (rejected_at IS NULL OR rejected_at < approved_at)")
}
