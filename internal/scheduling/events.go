package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/peoplehub/events-api/internal/models"
	"gorm.io/gorm"
)

// GenerationWindow bounds occurrence materialization for a recurring event.
type GenerationWindow struct {
	Start time.Time
	End   time.Time
}

// EventFilter narrows ListEvents results.
type EventFilter struct {
	Search string
	Type   models.EventType
	Status models.EventStatus
	Page   int
	Limit  int
}

// EventPage is one page of events plus pagination totals.
type EventPage struct {
	Events     []models.Event
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CreateEvent validates and persists a new event. A recurring event is
// materialized immediately: the base row plus every occurrence inside the
// generation window are written in one transaction.
func (s *Service) CreateEvent(ctx context.Context, actor *models.Employee, event *models.Event, window *GenerationWindow) ([]models.Event, error) {
	if !s.authz.Allow(actor, ActionManageEvents) {
		return nil, fmt.Errorf("create event: %w", ErrPermissionDenied)
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if event.Status == "" {
		event.Status = models.EventStatusDraft
	}
	if event.Status != models.EventStatusDraft && event.Status != models.EventStatusPublished {
		return nil, fmt.Errorf("new event status must be draft or published: %w", ErrInvalidInput)
	}

	var occurrences []models.Event
	if event.IsRecurring {
		if window == nil {
			return nil, fmt.Errorf("recurring event requires a generation window: %w", ErrInvalidInput)
		}
		if window.End.Sub(window.Start) > time.Duration(s.maxWindowDays)*24*time.Hour {
			return nil, fmt.Errorf("generation window exceeds %d days: %w", s.maxWindowDays, ErrInvalidInput)
		}
		var err error
		occurrences, err = GenerateOccurrences(event, window.Start, window.End, event.RecurrencePattern)
		if err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		for i := range occurrences {
			occurrences[i].ParentEventID = &event.ID
			if err := tx.Create(&occurrences[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage("create event", err)
	}

	s.logger.Infof("Created event %s with %d occurrences", event.ID, len(occurrences))
	return occurrences, nil
}

// GetEvent returns one event by id.
func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required: %w", ErrInvalidInput)
	}
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, wrapStorage("get event", err)
	}
	return &event, nil
}

// ListEvents returns a filtered, paginated event page.
func (s *Service) ListEvents(ctx context.Context, filter EventFilter) (*EventPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	query := s.db.WithContext(ctx).Model(&models.Event{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, wrapStorage("count events", err)
	}

	var events []models.Event
	err := query.Order("start_date").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&events).Error
	if err != nil {
		return nil, wrapStorage("list events", err)
	}

	return &EventPage{
		Events:     events,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

// UpcomingEvents returns published events starting after now, soonest first.
func (s *Service) UpcomingEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if limit < 1 {
		limit = 10
	}
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("start_date > ? AND status = ?", time.Now().UTC(), models.EventStatusPublished).
		Order("start_date").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, wrapStorage("upcoming events", err)
	}
	return events, nil
}

// UpdateEvent applies a field update to a single, non-series event edit.
func (s *Service) UpdateEvent(ctx context.Context, actor *models.Employee, id string, update EventUpdate) (*models.Event, error) {
	if !s.authz.Allow(actor, ActionManageEvents) {
		return nil, fmt.Errorf("update event: %w", ErrPermissionDenied)
	}
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	update.apply(event, true)
	if !event.EndDate.After(event.StartDate) {
		return nil, fmt.Errorf("event end must be after start: %w", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, wrapStorage("update event", err)
	}
	return event, nil
}

// PublishEvent moves a draft event to published. Status only moves forward:
// a cancelled event stays cancelled.
func (s *Service) PublishEvent(ctx context.Context, actor *models.Employee, id string) error {
	if !s.authz.Allow(actor, ActionManageEvents) {
		return fmt.Errorf("publish event: %w", ErrPermissionDenied)
	}
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if event.Status == models.EventStatusCancelled {
		return fmt.Errorf("cancelled event cannot be published: %w", ErrInvalidInput)
	}
	event.Status = models.EventStatusPublished
	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return wrapStorage("publish event", err)
	}
	return nil
}

// CancelEvent cancels a single event occurrence.
func (s *Service) CancelEvent(ctx context.Context, actor *models.Employee, id string) error {
	if !s.authz.Allow(actor, ActionManageEvents) {
		return fmt.Errorf("cancel event: %w", ErrPermissionDenied)
	}
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	event.Status = models.EventStatusCancelled
	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return wrapStorage("cancel event", err)
	}
	return nil
}

// DeleteEvent permanently removes an event. Deletion must not orphan live
// registrations, so it is rejected while any active registration exists.
func (s *Service) DeleteEvent(ctx context.Context, actor *models.Employee, id string) error {
	if !s.authz.Allow(actor, ActionManageEvents) {
		return fmt.Errorf("delete event: %w", ErrPermissionDenied)
	}
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}

	var active int64
	err := s.db.WithContext(ctx).Model(&models.EventRegistration{}).
		Where("event_id = ? AND status IN ?", id,
			[]models.RegistrationStatus{models.RegistrationConfirmed, models.RegistrationWaitlist}).
		Count(&active).Error
	if err != nil {
		return wrapStorage("count active registrations", err)
	}
	if active > 0 {
		return fmt.Errorf("event has %d active registrations, cancel them first: %w", active, ErrInvalidInput)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error; err != nil {
		return wrapStorage("delete event", err)
	}
	s.logger.Infof("Deleted event %s", id)
	return nil
}

func validateEvent(event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("event title is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(event.Location) == "" {
		return fmt.Errorf("event location is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(event.Organizer) == "" {
		return fmt.Errorf("event organizer is required: %w", ErrInvalidInput)
	}
	if !event.EndDate.After(event.StartDate) {
		return fmt.Errorf("event end must be after start: %w", ErrInvalidInput)
	}
	if event.MaxAttendees < 0 {
		return fmt.Errorf("capacity cannot be negative: %w", ErrInvalidInput)
	}
	return nil
}
