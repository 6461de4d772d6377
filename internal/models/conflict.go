package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConflictKind string

const (
	ConflictLeaveOverlap ConflictKind = "leave_overlap"
	ConflictEventOverlap ConflictKind = "event_overlap"
	ConflictTimeConflict ConflictKind = "time_conflict"
	ConflictCapacityFull ConflictKind = "capacity_full"
)

type ConflictSeverity string

const (
	SeverityLow      ConflictSeverity = "low"
	SeverityMedium   ConflictSeverity = "medium"
	SeverityHigh     ConflictSeverity = "high"
	SeverityCritical ConflictSeverity = "critical"
)

// RegistrationConflict is an immutable diagnostic record describing why a
// registration attempt was blocked. Rows are written only when an attempt is
// actually rejected; the advisory check path returns them without persisting.
type RegistrationConflict struct {
	ID              string           `json:"id" gorm:"primaryKey"`
	EventID         string           `json:"event_id" gorm:"not null;index"`
	EmployeeID      string           `json:"employee_id" gorm:"not null;index"`
	Type            ConflictKind     `json:"conflict_type" gorm:"type:varchar(20);not null"`
	Details         string           `json:"conflict_details" gorm:"not null"`
	Severity        ConflictSeverity `json:"severity" gorm:"type:varchar(10);default:medium"`
	Resolved        bool             `json:"resolved" gorm:"default:false"`
	ResolutionNotes string           `json:"resolution_notes"`
	CreatedAt       time.Time        `json:"created_at"`
	ResolvedAt      *time.Time       `json:"resolved_at"`
}

func (RegistrationConflict) TableName() string {
	return "registration_conflicts"
}

func (c *RegistrationConflict) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
