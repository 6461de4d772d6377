package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventType string

const (
	EventTypeTraining     EventType = "training"
	EventTypeSeminar      EventType = "seminar"
	EventTypeOnboarding   EventType = "onboarding"
	EventTypeTeamBuilding EventType = "team_building"
	EventTypeOther        EventType = "other"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
)

type RecurrenceRule string

const (
	RecurrenceNone    RecurrenceRule = ""
	RecurrenceDaily   RecurrenceRule = "daily"
	RecurrenceWeekly  RecurrenceRule = "weekly"
	RecurrenceMonthly RecurrenceRule = "monthly"
	RecurrenceYearly  RecurrenceRule = "yearly"
)

// Event is a schedulable activity. Occurrences generated from a recurring
// base event carry a ParentEventID back-reference and their own shifted
// start/end instants.
type Event struct {
	ID                   string         `json:"id" gorm:"primaryKey"`
	Title                string         `json:"title" gorm:"not null"`
	Description          string         `json:"description"`
	Type                 EventType      `json:"type" gorm:"type:varchar(20);not null"`
	StartDate            time.Time      `json:"start_date" gorm:"not null;index"`
	EndDate              time.Time      `json:"end_date" gorm:"not null"`
	Location             string         `json:"location" gorm:"not null"`
	Organizer            string         `json:"organizer" gorm:"not null"`
	MaxAttendees         int            `json:"max_attendees"` // 0 = unlimited
	IsRecurring          bool           `json:"is_recurring" gorm:"default:false"`
	RecurrencePattern    RecurrenceRule `json:"recurrence_pattern" gorm:"type:varchar(10)"`
	Status               EventStatus    `json:"status" gorm:"type:varchar(10);default:draft"`
	ParentEventID        *string        `json:"parent_event_id" gorm:"index"`
	CancellationDeadline *time.Time     `json:"cancellation_deadline"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	Registrations []EventRegistration `json:"-" gorm:"foreignKey:EventID"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Duration returns the span between start and end.
func (e *Event) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

// Overlaps reports whether [start, end] intersects the event's interval.
// Endpoints count: an event ending exactly when another starts still overlaps.
func (e *Event) Overlaps(start, end time.Time) bool {
	return !start.After(e.EndDate) && !end.Before(e.StartDate)
}

// SeriesID is the reference shared by every occurrence of one series: the
// parent for generated occurrences, the event's own id for the base.
func (e *Event) SeriesID() string {
	if e.ParentEventID != nil {
		return *e.ParentEventID
	}
	return e.ID
}
