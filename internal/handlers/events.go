package handlers

import (
	"context"
	"time"

	"github.com/peoplehub/events-api/internal/auth"
	"github.com/peoplehub/events-api/internal/models"
	"github.com/peoplehub/events-api/internal/scheduling"
)

type EventHandler struct {
	service     *scheduling.Service
	authHandler *auth.AuthHandler
}

func NewEventHandler(service *scheduling.Service, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{service: service, authHandler: authHandler}
}

type CreateEventRequest struct {
	auth.AuthInput
	Body struct {
		Title                string     `json:"title" required:"true"`
		Description          string     `json:"description,omitempty"`
		Type                 string     `json:"type" enum:"training,seminar,onboarding,team_building,other" required:"true"`
		StartDate            time.Time  `json:"start_date" required:"true"`
		EndDate              time.Time  `json:"end_date" required:"true"`
		Location             string     `json:"location" required:"true"`
		Organizer            string     `json:"organizer" required:"true"`
		MaxAttendees         int        `json:"max_attendees,omitempty" doc:"0 means unlimited"`
		Status               string     `json:"status,omitempty" enum:"draft,published,"`
		CancellationDeadline *time.Time `json:"cancellation_deadline,omitempty"`

		IsRecurring       bool       `json:"is_recurring,omitempty"`
		RecurrencePattern string     `json:"recurrence_pattern,omitempty" enum:"daily,weekly,monthly,yearly,"`
		RecurrenceUntil   *time.Time `json:"recurrence_until,omitempty" doc:"End of the occurrence generation window"`
	}
}

type CreateEventResponse struct {
	Body struct {
		Event       models.Event   `json:"event"`
		Occurrences []models.Event `json:"occurrences,omitempty"`
	}
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*CreateEventResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:                input.Body.Title,
		Description:          input.Body.Description,
		Type:                 models.EventType(input.Body.Type),
		StartDate:            input.Body.StartDate,
		EndDate:              input.Body.EndDate,
		Location:             input.Body.Location,
		Organizer:            input.Body.Organizer,
		MaxAttendees:         input.Body.MaxAttendees,
		Status:               models.EventStatus(input.Body.Status),
		CancellationDeadline: input.Body.CancellationDeadline,
		IsRecurring:          input.Body.IsRecurring,
		RecurrencePattern:    models.RecurrenceRule(input.Body.RecurrencePattern),
	}

	var window *scheduling.GenerationWindow
	if input.Body.IsRecurring && input.Body.RecurrenceUntil != nil {
		window = &scheduling.GenerationWindow{
			Start: input.Body.StartDate,
			End:   *input.Body.RecurrenceUntil,
		}
	}

	occurrences, err := h.service.CreateEvent(ctx, actor, event, window)
	if err != nil {
		return nil, mapServiceError(err)
	}

	res := &CreateEventResponse{}
	res.Body.Event = *event
	res.Body.Occurrences = occurrences
	return res, nil
}

type GetEventRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
}

type EventResponse struct {
	Body models.Event
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*EventResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	event, err := h.service.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &EventResponse{Body: *event}, nil
}

type ListEventsRequest struct {
	auth.AuthInput
	Search string `query:"search"`
	Type   string `query:"type"`
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type ListEventsResponse struct {
	Body struct {
		Events     []models.Event `json:"events"`
		Total      int64          `json:"total"`
		Page       int            `json:"page"`
		Limit      int            `json:"limit"`
		TotalPages int            `json:"total_pages"`
	}
}

func (h *EventHandler) HandleListEvents(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	page, err := h.service.ListEvents(ctx, scheduling.EventFilter{
		Search: input.Search,
		Type:   models.EventType(input.Type),
		Status: models.EventStatus(input.Status),
		Page:   input.Page,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, mapServiceError(err)
	}

	res := &ListEventsResponse{}
	res.Body.Events = page.Events
	res.Body.Total = page.Total
	res.Body.Page = page.Page
	res.Body.Limit = page.Limit
	res.Body.TotalPages = page.TotalPages
	return res, nil
}

type UpcomingEventsRequest struct {
	auth.AuthInput
	Limit int `query:"limit"`
}

type UpcomingEventsResponse struct {
	Body struct {
		Events []models.Event `json:"events"`
	}
}

func (h *EventHandler) HandleUpcomingEvents(ctx context.Context, input *UpcomingEventsRequest) (*UpcomingEventsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	events, err := h.service.UpcomingEvents(ctx, input.Limit)
	if err != nil {
		return nil, mapServiceError(err)
	}
	res := &UpcomingEventsResponse{}
	res.Body.Events = events
	return res, nil
}

// EventUpdateBody is the optional-field update payload shared by the single
// event edit and the recurring series update.
type EventUpdateBody struct {
	Title                *string    `json:"title,omitempty"`
	Description          *string    `json:"description,omitempty"`
	Type                 *string    `json:"type,omitempty" enum:"training,seminar,onboarding,team_building,other"`
	Location             *string    `json:"location,omitempty"`
	Organizer            *string    `json:"organizer,omitempty"`
	MaxAttendees         *int       `json:"max_attendees,omitempty"`
	Status               *string    `json:"status,omitempty" enum:"draft,published,cancelled"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	CancellationDeadline *time.Time `json:"cancellation_deadline,omitempty"`
}

func (b EventUpdateBody) toUpdate() scheduling.EventUpdate {
	update := scheduling.EventUpdate{
		Title:                b.Title,
		Description:          b.Description,
		Location:             b.Location,
		Organizer:            b.Organizer,
		MaxAttendees:         b.MaxAttendees,
		StartDate:            b.StartDate,
		EndDate:              b.EndDate,
		CancellationDeadline: b.CancellationDeadline,
	}
	if b.Type != nil {
		t := models.EventType(*b.Type)
		update.Type = &t
	}
	if b.Status != nil {
		s := models.EventStatus(*b.Status)
		update.Status = &s
	}
	return update
}

type UpdateEventRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
	Body    EventUpdateBody
}

func (h *EventHandler) HandleUpdateEvent(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	event, err := h.service.UpdateEvent(ctx, actor, input.EventID, input.Body.toUpdate())
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &EventResponse{Body: *event}, nil
}

type EventActionRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
}

func (h *EventHandler) HandlePublishEvent(ctx context.Context, input *EventActionRequest) (*MessageResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := h.service.PublishEvent(ctx, actor, input.EventID); err != nil {
		return nil, mapServiceError(err)
	}
	res := &MessageResponse{}
	res.Body.Success = true
	res.Body.Message = "Event published"
	return res, nil
}

func (h *EventHandler) HandleCancelEvent(ctx context.Context, input *EventActionRequest) (*MessageResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := h.service.CancelEvent(ctx, actor, input.EventID); err != nil {
		return nil, mapServiceError(err)
	}
	res := &MessageResponse{}
	res.Body.Success = true
	res.Body.Message = "Event cancelled"
	return res, nil
}

func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *EventActionRequest) (*MessageResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := h.service.DeleteEvent(ctx, actor, input.EventID); err != nil {
		return nil, mapServiceError(err)
	}
	res := &MessageResponse{}
	res.Body.Success = true
	res.Body.Message = "Event deleted"
	return res, nil
}

type UpdateSeriesRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
	Body    struct {
		Scope string `json:"scope" enum:"this_only,this_and_future,all" required:"true"`
		EventUpdateBody
	}
}

func (h *EventHandler) HandleUpdateSeries(ctx context.Context, input *UpdateSeriesRequest) (*MessageResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	scope, err := scheduling.ParseScope(input.Body.Scope)
	if err != nil {
		return nil, mapServiceError(err)
	}
	if err := h.service.UpdateSeries(ctx, actor, input.EventID, input.Body.toUpdate(), scope); err != nil {
		return nil, mapServiceError(err)
	}
	res := &MessageResponse{}
	res.Body.Success = true
	res.Body.Message = "Recurring series updated (" + scope.String() + ")"
	return res, nil
}

type CancelSeriesRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
	Body    struct {
		Scope string `json:"scope" enum:"this_only,this_and_future,all" required:"true"`
	}
}

func (h *EventHandler) HandleCancelSeries(ctx context.Context, input *CancelSeriesRequest) (*MessageResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	scope, err := scheduling.ParseScope(input.Body.Scope)
	if err != nil {
		return nil, mapServiceError(err)
	}
	if err := h.service.CancelSeries(ctx, actor, input.EventID, scope); err != nil {
		return nil, mapServiceError(err)
	}
	res := &MessageResponse{}
	res.Body.Success = true
	res.Body.Message = "Recurring series cancelled (" + scope.String() + ")"
	return res, nil
}
