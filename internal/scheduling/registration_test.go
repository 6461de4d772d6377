package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/peoplehub/events-api/internal/models"
)

func register(t *testing.T, s *Service, actor *models.Employee, eventID string) *RegistrationResult {
	t.Helper()
	result, err := s.Register(context.Background(), actor, RegistrationRequest{
		EventID:    eventID,
		EmployeeID: actor.ID,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return result
}

func TestRegisterCapacityAdmission(t *testing.T) {
	s, db := newTestService(t)
	event := createTestEvent(t, db, "First Aid Course", day(1), day(1).Add(3*time.Hour), 2)

	first := register(t, s, createEmployee(t, db, models.RoleEmployee), event.ID)
	second := register(t, s, createEmployee(t, db, models.RoleEmployee), event.ID)
	third := register(t, s, createEmployee(t, db, models.RoleEmployee), event.ID)

	if first.Status != models.RegistrationConfirmed {
		t.Errorf("first registrant: expected confirmed, got %s", first.Status)
	}
	if second.Status != models.RegistrationConfirmed {
		t.Errorf("second registrant: expected confirmed, got %s", second.Status)
	}
	if third.Status != models.RegistrationWaitlist {
		t.Errorf("third registrant: expected waitlist, got %s", third.Status)
	}

	capacity, err := s.Capacity(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("Capacity returned error: %v", err)
	}
	if capacity.CurrentAttendees != 2 {
		t.Errorf("expected 2 confirmed, got %d", capacity.CurrentAttendees)
	}
	if capacity.WaitlistSize != 1 {
		t.Errorf("expected waitlist of 1, got %d", capacity.WaitlistSize)
	}
}

func TestRegisterUnlimitedCapacity(t *testing.T) {
	s, db := newTestService(t)
	event := createTestEvent(t, db, "All Hands", day(1), day(1).Add(time.Hour), 0)

	for i := 0; i < 5; i++ {
		result := register(t, s, createEmployee(t, db, models.RoleEmployee), event.ID)
		if result.Status != models.RegistrationConfirmed {
			t.Fatalf("registrant %d: expected confirmed, got %s", i, result.Status)
		}
	}
}

func TestRegisterConcurrentNeverOverAdmits(t *testing.T) {
	s, db := newTestService(t)
	const capacity = 3
	const attempts = 10
	event := createTestEvent(t, db, "Fire Drill Briefing", day(1), day(1).Add(time.Hour), capacity)

	employees := make([]*models.Employee, attempts)
	for i := range employees {
		employees[i] = createEmployee(t, db, models.RoleEmployee)
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Register(context.Background(), employees[i], RegistrationRequest{
				EventID:    event.ID,
				EmployeeID: employees[i].ID,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("attempt %d failed: %v", i, err)
		}
	}

	confirmed, err := countByStatus(db, event.ID, models.RegistrationConfirmed)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if confirmed != capacity {
		t.Errorf("expected exactly %d confirmed, got %d", capacity, confirmed)
	}
	waitlisted, err := countByStatus(db, event.ID, models.RegistrationWaitlist)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if waitlisted != attempts-capacity {
		t.Errorf("expected %d waitlisted, got %d", attempts-capacity, waitlisted)
	}
}

func TestRegisterConflictRejectionPersistsAudit(t *testing.T) {
	s, db := newTestService(t)
	employee := createEmployee(t, db, models.RoleEmployee)

	createLeave(t, db, employee.ID, day(10), day(15), models.LeaveApproved)
	event := createTestEvent(t, db, "Offsite", day(12), day(13), 0)

	_, err := s.Register(context.Background(), employee, RegistrationRequest{
		EventID:    event.ID,
		EmployeeID: employee.ID,
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflictErr.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict in error, got %d", len(conflictErr.Conflicts))
	}

	if rows := countConflictRows(t, db); rows != 1 {
		t.Errorf("expected 1 audit row, got %d", rows)
	}

	var registrations int64
	if err := db.Model(&models.EventRegistration{}).Count(&registrations).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if registrations != 0 {
		t.Errorf("rejected attempt created %d registration rows", registrations)
	}
}

func TestRegisterDuplicateActive(t *testing.T) {
	s, db := newTestService(t)
	employee := createEmployee(t, db, models.RoleEmployee)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 0)

	register(t, s, employee, event.ID)

	_, err := s.Register(context.Background(), employee, RegistrationRequest{
		EventID:    event.ID,
		EmployeeID: employee.ID,
	})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterOnBehalfRequiresRole(t *testing.T) {
	s, db := newTestService(t)
	actor := createEmployee(t, db, models.RoleEmployee)
	target := createEmployee(t, db, models.RoleEmployee)
	manager := createEmployee(t, db, models.RoleManager)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 0)

	_, err := s.Register(context.Background(), actor, RegistrationRequest{
		EventID:    event.ID,
		EmployeeID: target.ID,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for plain employee, got %v", err)
	}

	result, err := s.Register(context.Background(), manager, RegistrationRequest{
		EventID:    event.ID,
		EmployeeID: target.ID,
		Type:       RegistrationTypeManager,
	})
	if err != nil {
		t.Fatalf("manager on-behalf registration failed: %v", err)
	}
	if result.Registration.EmployeeID != target.ID {
		t.Errorf("registration attributed to %s, want %s", result.Registration.EmployeeID, target.ID)
	}
}

func TestRegisterRejectsCancelledEvent(t *testing.T) {
	s, db := newTestService(t)
	employee := createEmployee(t, db, models.RoleEmployee)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 0)
	if err := db.Model(event).Update("status", models.EventStatusCancelled).Error; err != nil {
		t.Fatalf("failed to cancel event: %v", err)
	}

	_, err := s.Register(context.Background(), employee, RegistrationRequest{
		EventID:    event.ID,
		EmployeeID: employee.ID,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for cancelled event, got %v", err)
	}
}

func TestCancelRegistrationDeadline(t *testing.T) {
	s, db := newTestService(t)
	employee := createEmployee(t, db, models.RoleEmployee)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 0)

	result := register(t, s, employee, event.ID)

	deadline := time.Now().UTC().Add(-time.Hour)
	if err := db.Model(event).Update("cancellation_deadline", deadline).Error; err != nil {
		t.Fatalf("failed to set deadline: %v", err)
	}

	err := s.CancelRegistration(context.Background(), employee, result.Registration.ID)
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}

	reloaded, err := s.GetRegistration(context.Background(), result.Registration.ID)
	if err != nil {
		t.Fatalf("GetRegistration returned error: %v", err)
	}
	if reloaded.Status != models.RegistrationConfirmed {
		t.Errorf("late cancellation changed status to %s", reloaded.Status)
	}
}

func TestCancelRegistrationOwnerOnly(t *testing.T) {
	s, db := newTestService(t)
	owner := createEmployee(t, db, models.RoleEmployee)
	other := createEmployee(t, db, models.RoleEmployee)
	hr := createEmployee(t, db, models.RoleHROfficer)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 0)

	result := register(t, s, owner, event.ID)

	err := s.CancelRegistration(context.Background(), other, result.Registration.ID)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for non-owner, got %v", err)
	}

	if err := s.CancelRegistration(context.Background(), hr, result.Registration.ID); err != nil {
		t.Fatalf("HR cancellation failed: %v", err)
	}

	err = s.CancelRegistration(context.Background(), owner, result.Registration.ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for already-cancelled registration, got %v", err)
	}
}

func TestCancelDoesNotPromoteWaitlist(t *testing.T) {
	s, db := newTestService(t)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 1)

	confirmedEmp := createEmployee(t, db, models.RoleEmployee)
	waitlistedEmp := createEmployee(t, db, models.RoleEmployee)
	confirmed := register(t, s, confirmedEmp, event.ID)
	waitlisted := register(t, s, waitlistedEmp, event.ID)

	if waitlisted.Status != models.RegistrationWaitlist {
		t.Fatalf("expected waitlist, got %s", waitlisted.Status)
	}

	if err := s.CancelRegistration(context.Background(), confirmedEmp, confirmed.Registration.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	reloaded, err := s.GetRegistration(context.Background(), waitlisted.Registration.ID)
	if err != nil {
		t.Fatalf("GetRegistration returned error: %v", err)
	}
	if reloaded.Status != models.RegistrationWaitlist {
		t.Errorf("waitlisted registration promoted to %s", reloaded.Status)
	}
}

func TestReRegisterIssuesNewConfirmationCode(t *testing.T) {
	s, db := newTestService(t)
	employee := createEmployee(t, db, models.RoleEmployee)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 0)

	first := register(t, s, employee, event.ID)
	if first.Registration.ConfirmationCode == "" {
		t.Fatal("expected a confirmation code")
	}

	if err := s.CancelRegistration(context.Background(), employee, first.Registration.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	second := register(t, s, employee, event.ID)
	if second.Registration.ID == first.Registration.ID {
		t.Error("re-registration reused the old row")
	}
	if second.Registration.ConfirmationCode == first.Registration.ConfirmationCode {
		t.Error("re-registration reused the old confirmation code")
	}
}

func TestListRegistrationsStatusFilter(t *testing.T) {
	s, db := newTestService(t)
	event := createTestEvent(t, db, "Workshop", day(1), day(1).Add(time.Hour), 1)

	register(t, s, createEmployee(t, db, models.RoleEmployee), event.ID)
	register(t, s, createEmployee(t, db, models.RoleEmployee), event.ID)

	waitlisted, total, err := s.ListRegistrations(context.Background(), event.ID, models.RegistrationWaitlist, 1, 50)
	if err != nil {
		t.Fatalf("ListRegistrations returned error: %v", err)
	}
	if total != 1 || len(waitlisted) != 1 {
		t.Fatalf("expected 1 waitlisted registration, got total=%d len=%d", total, len(waitlisted))
	}

	all, total, err := s.ListRegistrations(context.Background(), event.ID, "", 1, 50)
	if err != nil {
		t.Fatalf("ListRegistrations returned error: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("expected 2 registrations, got total=%d len=%d", total, len(all))
	}
}
