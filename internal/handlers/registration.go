package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/peoplehub/events-api/internal/auth"
	"github.com/peoplehub/events-api/internal/models"
	"github.com/peoplehub/events-api/internal/notifier"
	"github.com/peoplehub/events-api/internal/scheduling"
)

type RegistrationHandler struct {
	service     *scheduling.Service
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(service *scheduling.Service, notifier notifier.Notifier, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{service: service, notifier: notifier, authHandler: authHandler}
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type RegisterRequest struct {
	auth.AuthInput
	Body struct {
		EventID          string            `json:"event_id" doc:"Event occurrence to register for" required:"true"`
		EmployeeID       string            `json:"employee_id,omitempty" doc:"Employee to register (defaults to the caller)"`
		RegistrationType string            `json:"registration_type,omitempty" enum:"self,manager,hr" doc:"Who initiates the registration"`
		Notes            string            `json:"notes,omitempty"`
		EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	}
}

type ConflictView struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	EmployeeID   string `json:"employee_id"`
	ConflictType string `json:"conflict_type"`
	Details      string `json:"conflict_details"`
	Severity     string `json:"severity"`
}

type RegisterResponse struct {
	Body struct {
		Success          bool           `json:"success"`
		RegistrationID   string         `json:"registration_id,omitempty"`
		Status           string         `json:"status"`
		Message          string         `json:"message"`
		ConfirmationCode string         `json:"confirmation_code,omitempty"`
		Conflicts        []ConflictView `json:"conflicts,omitempty"`
	}
}

func conflictViews(conflicts []models.RegistrationConflict) []ConflictView {
	views := make([]ConflictView, len(conflicts))
	for i, c := range conflicts {
		views[i] = ConflictView{
			ID:           c.ID,
			EventID:      c.EventID,
			EmployeeID:   c.EmployeeID,
			ConflictType: string(c.Type),
			Details:      c.Details,
			Severity:     string(c.Severity),
		}
	}
	return views
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	req := scheduling.RegistrationRequest{
		EventID:    input.Body.EventID,
		EmployeeID: input.Body.EmployeeID,
		Type:       input.Body.RegistrationType,
		Notes:      input.Body.Notes,
	}
	if req.EmployeeID == "" {
		req.EmployeeID = actor.ID
	}
	if ec := input.Body.EmergencyContact; ec != nil {
		req.EmergencyContactName = ec.Name
		req.EmergencyContactPhone = ec.Phone
		req.EmergencyContactRelationship = ec.Relationship
	}

	result, err := h.service.Register(ctx, actor, req)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		if errors.As(err, &conflictErr) {
			// Conflicts are a decision outcome with actionable detail, not a
			// request failure.
			res := &RegisterResponse{}
			res.Body.Success = false
			res.Body.Status = "conflict"
			res.Body.Message = "Registration blocked by scheduling conflicts"
			res.Body.Conflicts = conflictViews(conflictErr.Conflicts)
			return res, nil
		}
		return nil, mapServiceError(err)
	}

	if h.notifier != nil {
		event, eventErr := h.service.GetEvent(ctx, req.EventID)
		if eventErr == nil {
			if err := h.notifier.NotifyRegistration(*actor, *event, *result.Registration); err != nil {
				log.Printf("Failed to send registration notification: %v", err)
			}
		}
	}

	res := &RegisterResponse{}
	res.Body.Success = true
	res.Body.RegistrationID = result.Registration.ID
	res.Body.Status = string(result.Status)
	res.Body.Message = result.Message
	res.Body.ConfirmationCode = result.Registration.ConfirmationCode
	return res, nil
}

type CancelRegistrationRequest struct {
	auth.AuthInput
	RegistrationID string `path:"registration_id"`
}

type MessageResponse struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
}

func (h *RegistrationHandler) HandleCancelRegistration(ctx context.Context, input *CancelRegistrationRequest) (*MessageResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	registration, err := h.service.GetRegistration(ctx, input.RegistrationID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	if err := h.service.CancelRegistration(ctx, actor, input.RegistrationID); err != nil {
		return nil, mapServiceError(err)
	}

	if h.notifier != nil {
		if event, eventErr := h.service.GetEvent(ctx, registration.EventID); eventErr == nil {
			if err := h.notifier.NotifyCancellation(*actor, *event); err != nil {
				log.Printf("Failed to send cancellation notification: %v", err)
			}
		}
	}

	res := &MessageResponse{}
	res.Body.Success = true
	res.Body.Message = "Registration cancelled"
	return res, nil
}

type CheckConflictsRequest struct {
	auth.AuthInput
	Body struct {
		EventID    string `json:"event_id" required:"true"`
		EmployeeID string `json:"employee_id,omitempty"`
	}
}

type CheckConflictsResponse struct {
	Body struct {
		Conflicts   []ConflictView `json:"conflicts"`
		CanRegister bool           `json:"can_register"`
	}
}

func (h *RegistrationHandler) HandleCheckConflicts(ctx context.Context, input *CheckConflictsRequest) (*CheckConflictsResponse, error) {
	actor, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	employeeID := input.Body.EmployeeID
	if employeeID == "" {
		employeeID = actor.ID
	}

	conflicts, err := h.service.CheckConflicts(ctx, input.Body.EventID, employeeID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	res := &CheckConflictsResponse{}
	res.Body.Conflicts = conflictViews(conflicts)
	res.Body.CanRegister = len(conflicts) == 0
	return res, nil
}

type CapacityRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
}

type CapacityResponse struct {
	Body struct {
		EventID              string     `json:"event_id"`
		MaxAttendees         int        `json:"max_attendees"`
		CurrentAttendees     int64      `json:"current_attendees"`
		WaitlistSize         int64      `json:"waitlist_size"`
		CancellationDeadline *time.Time `json:"cancellation_deadline,omitempty"`
	}
}

func (h *RegistrationHandler) HandleCapacity(ctx context.Context, input *CapacityRequest) (*CapacityResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	capacity, err := h.service.Capacity(ctx, input.EventID)
	if err != nil {
		return nil, mapServiceError(err)
	}

	res := &CapacityResponse{}
	res.Body.EventID = capacity.EventID
	res.Body.MaxAttendees = capacity.MaxAttendees
	res.Body.CurrentAttendees = capacity.CurrentAttendees
	res.Body.WaitlistSize = capacity.WaitlistSize
	res.Body.CancellationDeadline = capacity.CancellationDeadline
	return res, nil
}

type ListRegistrationsRequest struct {
	auth.AuthInput
	EventID string `path:"event_id"`
	Status  string `query:"status"`
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
}

type ListRegistrationsResponse struct {
	Body struct {
		Registrations []models.EventRegistration `json:"registrations"`
		Total         int64                      `json:"total"`
	}
}

func (h *RegistrationHandler) HandleListRegistrations(ctx context.Context, input *ListRegistrationsRequest) (*ListRegistrationsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	registrations, total, err := h.service.ListRegistrations(ctx, input.EventID,
		models.RegistrationStatus(input.Status), input.Page, input.Limit)
	if err != nil {
		return nil, mapServiceError(err)
	}

	res := &ListRegistrationsResponse{}
	res.Body.Registrations = registrations
	res.Body.Total = total
	return res, nil
}
