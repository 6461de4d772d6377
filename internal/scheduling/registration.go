package scheduling

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/peoplehub/events-api/internal/models"
	"gorm.io/gorm"
)

// Registration types mirror who initiates the registration.
const (
	RegistrationTypeSelf    = "self"
	RegistrationTypeManager = "manager"
	RegistrationTypeHR      = "hr"
)

// RegistrationRequest asks for one employee to be registered for one event.
type RegistrationRequest struct {
	EventID    string
	EmployeeID string
	Type       string // self, manager, hr
	Notes      string

	EmergencyContactName         string
	EmergencyContactPhone        string
	EmergencyContactRelationship string
}

// RegistrationResult reports the admission outcome for a clean request.
type RegistrationResult struct {
	Registration *models.EventRegistration
	Status       models.RegistrationStatus
	Message      string
}

// Register runs the full lifecycle for a new registration: conflict
// detection first, then serialized capacity admission, then row creation
// with a fresh confirmation code. A conflicting request writes audit rows
// and returns a ConflictError; no registration row is created.
func (s *Service) Register(ctx context.Context, actor *models.Employee, req RegistrationRequest) (*RegistrationResult, error) {
	if req.EventID == "" || req.EmployeeID == "" {
		return nil, fmt.Errorf("event id and employee id are required: %w", ErrInvalidInput)
	}
	if req.Type == "" {
		req.Type = RegistrationTypeSelf
	}
	if req.Type != RegistrationTypeSelf && !s.authz.Allow(actor, ActionRegisterOnBehalf) {
		return nil, fmt.Errorf("%s-initiated registration: %w", req.Type, ErrPermissionDenied)
	}
	if req.EmployeeID != actor.ID && !s.authz.Allow(actor, ActionRegisterOnBehalf) {
		return nil, fmt.Errorf("registering on behalf of another employee: %w", ErrPermissionDenied)
	}

	event, err := s.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCancelled {
		return nil, fmt.Errorf("event %s is cancelled: %w", event.ID, ErrInvalidInput)
	}

	conflicts, err := s.detectConflicts(s.db.WithContext(ctx), event, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		// Audit trail: conflict rows are persisted only because the attempt
		// is actually rejected here. The advisory CheckConflicts path never
		// writes them.
		if err := s.db.WithContext(ctx).Create(&conflicts).Error; err != nil {
			s.logger.Warnf("Failed to persist conflict audit rows for event %s: %v", event.ID, err)
		}
		s.logger.Infof("Registration for event %s by employee %s blocked by %d conflict(s)",
			event.ID, req.EmployeeID, len(conflicts))
		return nil, &ConflictError{Conflicts: conflicts}
	}

	// Admission is a read-modify-write on the confirmed count; the per-event
	// lock keeps concurrent attempts from both seeing a free slot.
	s.locks.Lock(event.ID)
	defer s.locks.Unlock(event.ID)

	var registration models.EventRegistration
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND employee_id = ? AND status IN ?", event.ID, req.EmployeeID,
				[]models.RegistrationStatus{models.RegistrationConfirmed, models.RegistrationWaitlist}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAlreadyRegistered
		}

		confirmed, err := countByStatus(tx, event.ID, models.RegistrationConfirmed)
		if err != nil {
			return err
		}

		code, err := newConfirmationCode()
		if err != nil {
			return err
		}

		registration = models.EventRegistration{
			EventID:                      event.ID,
			EmployeeID:                   req.EmployeeID,
			Status:                       decideAdmission(event, confirmed),
			ConfirmationCode:             code,
			Notes:                        req.Notes,
			EmergencyContactName:         req.EmergencyContactName,
			EmergencyContactPhone:        req.EmergencyContactPhone,
			EmergencyContactRelationship: req.EmergencyContactRelationship,
		}
		return tx.Create(&registration).Error
	})
	if err != nil {
		return nil, wrapStorage("register", err)
	}

	message := "Registration confirmed"
	if registration.Status == models.RegistrationWaitlist {
		message = "Event is full, added to the waitlist"
	}
	s.logger.Infof("Registration %s created for event %s by employee %s (%s)",
		registration.ID, event.ID, req.EmployeeID, registration.Status)

	return &RegistrationResult{
		Registration: &registration,
		Status:       registration.Status,
		Message:      message,
	}, nil
}

// CancelRegistration moves an active registration to its terminal cancelled
// state. Only the owner or an authorized collaborator may cancel, and only
// strictly before the event's cancellation deadline when one is set.
// Cancelling never promotes a waitlisted registrant; re-admission is a
// manual HR step.
func (s *Service) CancelRegistration(ctx context.Context, actor *models.Employee, registrationID string) error {
	if registrationID == "" {
		return fmt.Errorf("registration id is required: %w", ErrInvalidInput)
	}

	var registration models.EventRegistration
	if err := s.db.WithContext(ctx).First(&registration, "id = ?", registrationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("registration %s: %w", registrationID, ErrNotFound)
		}
		return wrapStorage("get registration", err)
	}

	if registration.EmployeeID != actor.ID && !s.authz.Allow(actor, ActionCancelOnBehalf) {
		return fmt.Errorf("cancelling another employee's registration: %w", ErrPermissionDenied)
	}
	if registration.Status == models.RegistrationCancelled {
		return fmt.Errorf("registration %s is already cancelled: %w", registrationID, ErrInvalidInput)
	}

	event, err := s.GetEvent(ctx, registration.EventID)
	if err != nil {
		return err
	}
	if event.CancellationDeadline != nil && !time.Now().UTC().Before(*event.CancellationDeadline) {
		return fmt.Errorf("event %s: %w", event.ID, ErrDeadlinePassed)
	}

	registration.Status = models.RegistrationCancelled
	if err := s.db.WithContext(ctx).Save(&registration).Error; err != nil {
		return wrapStorage("cancel registration", err)
	}
	s.logger.Infof("Registration %s cancelled by %s", registrationID, actor.ID)
	return nil
}

// GetRegistration returns one registration by id.
func (s *Service) GetRegistration(ctx context.Context, id string) (*models.EventRegistration, error) {
	if id == "" {
		return nil, fmt.Errorf("registration id is required: %w", ErrInvalidInput)
	}
	var registration models.EventRegistration
	if err := s.db.WithContext(ctx).First(&registration, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("registration %s: %w", id, ErrNotFound)
		}
		return nil, wrapStorage("get registration", err)
	}
	return &registration, nil
}

// ListRegistrations returns registrations for one event, optionally filtered
// by status, paginated.
func (s *Service) ListRegistrations(ctx context.Context, eventID string, status models.RegistrationStatus, page, limit int) ([]models.EventRegistration, int64, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := s.db.WithContext(ctx).Model(&models.EventRegistration{}).Where("event_id = ?", eventID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapStorage("count registrations", err)
	}

	var registrations []models.EventRegistration
	err := query.Order("registration_date").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&registrations).Error
	if err != nil {
		return nil, 0, wrapStorage("list registrations", err)
	}
	return registrations, total, nil
}

// newConfirmationCode returns an opaque url-safe token. Issued once per
// registration, never recomputed.
func newConfirmationCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
