package scheduling

import (
	"context"
	"time"

	"github.com/peoplehub/events-api/internal/models"
	"gorm.io/gorm"
)

// EventCapacity is a point-in-time capacity snapshot. Counts are derived
// from the registration rows on every read, never cached.
type EventCapacity struct {
	EventID              string     `json:"event_id"`
	MaxAttendees         int        `json:"max_attendees"`
	CurrentAttendees     int64      `json:"current_attendees"`
	WaitlistSize         int64      `json:"waitlist_size"`
	CancellationDeadline *time.Time `json:"cancellation_deadline"`
}

// decideAdmission picks the status for a new registration from the live
// confirmed count. Capacity 0 means unlimited. Callers must hold the
// event's admission lock so count-then-decide stays serialized.
func decideAdmission(event *models.Event, confirmed int64) models.RegistrationStatus {
	if event.MaxAttendees > 0 && confirmed >= int64(event.MaxAttendees) {
		return models.RegistrationWaitlist
	}
	return models.RegistrationConfirmed
}

func countByStatus(tx *gorm.DB, eventID string, status models.RegistrationStatus) (int64, error) {
	var count int64
	err := tx.Model(&models.EventRegistration{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

// Capacity returns the event's capacity limit plus live confirmed and
// waitlist counts.
func (s *Service) Capacity(ctx context.Context, eventID string) (*EventCapacity, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	confirmed, err := countByStatus(db, eventID, models.RegistrationConfirmed)
	if err != nil {
		return nil, wrapStorage("count confirmed", err)
	}
	waitlisted, err := countByStatus(db, eventID, models.RegistrationWaitlist)
	if err != nil {
		return nil, wrapStorage("count waitlist", err)
	}

	return &EventCapacity{
		EventID:              event.ID,
		MaxAttendees:         event.MaxAttendees,
		CurrentAttendees:     confirmed,
		WaitlistSize:         waitlisted,
		CancellationDeadline: event.CancellationDeadline,
	}, nil
}
