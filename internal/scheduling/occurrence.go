package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/peoplehub/events-api/internal/models"
)

// nextStart advances a series start instant by one recurrence step.
// Monthly lands on the same day of the next month, normalized forward when
// that day does not exist; December rolls into January of the next year.
func nextStart(current time.Time, rule models.RecurrenceRule) (time.Time, error) {
	switch rule {
	case models.RecurrenceDaily:
		return current.AddDate(0, 0, 1), nil
	case models.RecurrenceWeekly:
		return current.AddDate(0, 0, 7), nil
	case models.RecurrenceMonthly:
		return current.AddDate(0, 1, 0), nil
	case models.RecurrenceYearly:
		return current.AddDate(1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized recurrence rule %q: %w", rule, ErrInvalidInput)
}

// GenerateOccurrences expands a base event into concrete occurrences, one
// per recurrence step inside the closed window [windowStart, windowEnd].
// Every occurrence copies the base's descriptive fields, keeps the base's
// duration, points back at the base via ParentEventID and is published
// immediately so registrations can reference it as a stable row.
func GenerateOccurrences(base *models.Event, windowStart, windowEnd time.Time, rule models.RecurrenceRule) ([]models.Event, error) {
	if base == nil {
		return nil, fmt.Errorf("base event is required: %w", ErrInvalidInput)
	}
	if !base.EndDate.After(base.StartDate) {
		return nil, fmt.Errorf("event end must be after start: %w", ErrInvalidInput)
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("generation window end before start: %w", ErrInvalidInput)
	}
	// Reject the rule up front instead of silently truncating the series.
	if _, err := nextStart(windowStart, rule); err != nil {
		return nil, err
	}

	duration := base.Duration()
	var occurrences []models.Event

	for current := windowStart; !current.After(windowEnd); {
		occurrences = append(occurrences, models.Event{
			ID:                   uuid.NewString(),
			Title:                base.Title,
			Description:          base.Description,
			Type:                 base.Type,
			StartDate:            current,
			EndDate:              current.Add(duration),
			Location:             base.Location,
			Organizer:            base.Organizer,
			MaxAttendees:         base.MaxAttendees,
			IsRecurring:          true,
			RecurrencePattern:    rule,
			Status:               models.EventStatusPublished,
			ParentEventID:        &base.ID,
			CancellationDeadline: base.CancellationDeadline,
		})

		next, err := nextStart(current, rule)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return occurrences, nil
}
