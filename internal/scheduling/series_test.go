package scheduling

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/peoplehub/events-api/internal/models"
	"gorm.io/gorm"
)

// createDailySeries materializes a 5-occurrence daily series and returns the
// base event plus its occurrences ordered by start.
func createDailySeries(t *testing.T, s *Service, actor *models.Employee) (*models.Event, []models.Event) {
	t.Helper()

	event := &models.Event{
		Title:             "Onboarding Session",
		Type:              models.EventTypeOnboarding,
		StartDate:         day(1),
		EndDate:           day(1).Add(2 * time.Hour),
		Location:          "HQ",
		Organizer:         "HR",
		Status:            models.EventStatusPublished,
		IsRecurring:       true,
		RecurrencePattern: models.RecurrenceDaily,
	}
	occurrences, err := s.CreateEvent(context.Background(), actor, event, &GenerationWindow{Start: day(1), End: day(5)})
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if len(occurrences) != 5 {
		t.Fatalf("expected 5 occurrences, got %d", len(occurrences))
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].StartDate.Before(occurrences[j].StartDate)
	})
	return event, occurrences
}

func reloadEvent(t *testing.T, db *gorm.DB, id string) models.Event {
	t.Helper()
	var event models.Event
	if err := db.First(&event, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload event %s: %v", id, err)
	}
	return event
}

func TestUpdateSeriesThisAndFuture(t *testing.T) {
	s, db := newTestService(t)
	hr := createEmployee(t, db, models.RoleHROfficer)
	_, occurrences := createDailySeries(t, s, hr)

	newTitle := "Onboarding Session v2"
	newStart := occurrences[2].StartDate.Add(time.Hour)
	newEnd := occurrences[2].EndDate.Add(time.Hour)
	update := EventUpdate{Title: &newTitle, StartDate: &newStart, EndDate: &newEnd}

	err := s.UpdateSeries(context.Background(), hr, occurrences[2].ID, update, ScopeThisAndFuture)
	if err != nil {
		t.Fatalf("UpdateSeries returned error: %v", err)
	}

	// Earlier occurrences stay untouched.
	for _, occ := range occurrences[:2] {
		got := reloadEvent(t, db, occ.ID)
		if got.Title != "Onboarding Session" {
			t.Errorf("occurrence before target was modified: title %q", got.Title)
		}
		if !got.StartDate.Equal(occ.StartDate) {
			t.Errorf("occurrence before target shifted to %v", got.StartDate)
		}
	}

	// The target takes the full update set, timing included.
	target := reloadEvent(t, db, occurrences[2].ID)
	if target.Title != newTitle {
		t.Errorf("target title not updated: %q", target.Title)
	}
	if !target.StartDate.Equal(newStart) {
		t.Errorf("target start not updated: %v", target.StartDate)
	}

	// Future siblings take descriptive fields but keep their own timing.
	for _, occ := range occurrences[3:] {
		got := reloadEvent(t, db, occ.ID)
		if got.Title != newTitle {
			t.Errorf("future occurrence title not updated: %q", got.Title)
		}
		if !got.StartDate.Equal(occ.StartDate) {
			t.Errorf("start date propagated to sibling: %v (want %v)", got.StartDate, occ.StartDate)
		}
	}
}

func TestUpdateSeriesAllKeepsSiblingTiming(t *testing.T) {
	s, db := newTestService(t)
	hr := createEmployee(t, db, models.RoleHROfficer)
	base, occurrences := createDailySeries(t, s, hr)

	location := "Offsite"
	err := s.UpdateSeries(context.Background(), hr, base.ID, EventUpdate{Location: &location}, ScopeAll)
	if err != nil {
		t.Fatalf("UpdateSeries returned error: %v", err)
	}

	for _, occ := range occurrences {
		got := reloadEvent(t, db, occ.ID)
		if got.Location != location {
			t.Errorf("occurrence %s location not updated: %q", occ.ID, got.Location)
		}
		if !got.StartDate.Equal(occ.StartDate) {
			t.Errorf("occurrence %s timing changed: %v", occ.ID, got.StartDate)
		}
	}
}

func TestUpdateSeriesRejectsNonRecurring(t *testing.T) {
	s, db := newTestService(t)
	hr := createEmployee(t, db, models.RoleHROfficer)
	event := createTestEvent(t, db, "One-off Seminar", day(1), day(1).Add(time.Hour), 0)

	title := "Renamed"
	err := s.UpdateSeries(context.Background(), hr, event.ID, EventUpdate{Title: &title}, ScopeAll)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-recurring target, got %v", err)
	}

	if got := reloadEvent(t, db, event.ID); got.Title != "One-off Seminar" {
		t.Errorf("non-recurring event was modified: %q", got.Title)
	}
}

func TestCancelSeriesAll(t *testing.T) {
	s, db := newTestService(t)
	hr := createEmployee(t, db, models.RoleHROfficer)
	base, occurrences := createDailySeries(t, s, hr)

	if err := s.CancelSeries(context.Background(), hr, base.ID, ScopeAll); err != nil {
		t.Fatalf("CancelSeries returned error: %v", err)
	}

	for _, occ := range occurrences {
		if got := reloadEvent(t, db, occ.ID); got.Status != models.EventStatusCancelled {
			t.Errorf("occurrence %s not cancelled: %s", occ.ID, got.Status)
		}
	}
	if got := reloadEvent(t, db, base.ID); got.Status != models.EventStatusCancelled {
		t.Errorf("base event not cancelled: %s", got.Status)
	}
}

func TestCancelSeriesThisOnly(t *testing.T) {
	s, db := newTestService(t)
	hr := createEmployee(t, db, models.RoleHROfficer)
	_, occurrences := createDailySeries(t, s, hr)

	if err := s.CancelSeries(context.Background(), hr, occurrences[1].ID, ScopeThisOnly); err != nil {
		t.Fatalf("CancelSeries returned error: %v", err)
	}

	if got := reloadEvent(t, db, occurrences[1].ID); got.Status != models.EventStatusCancelled {
		t.Errorf("target not cancelled: %s", got.Status)
	}
	for _, occ := range []models.Event{occurrences[0], occurrences[2], occurrences[3], occurrences[4]} {
		if got := reloadEvent(t, db, occ.ID); got.Status == models.EventStatusCancelled {
			t.Errorf("occurrence %s cancelled outside this_only scope", occ.ID)
		}
	}
}

func TestSeriesMutationRequiresRole(t *testing.T) {
	s, db := newTestService(t)
	hr := createEmployee(t, db, models.RoleHROfficer)
	employee := createEmployee(t, db, models.RoleEmployee)
	base, _ := createDailySeries(t, s, hr)

	err := s.CancelSeries(context.Background(), employee, base.ID, ScopeAll)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestParseScope(t *testing.T) {
	cases := map[string]Scope{
		"this_only":       ScopeThisOnly,
		"this_and_future": ScopeThisAndFuture,
		"all":             ScopeAll,
	}
	for raw, want := range cases {
		got, err := ParseScope(raw)
		if err != nil {
			t.Fatalf("ParseScope(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Errorf("ParseScope(%q) = %v, want %v", raw, got, want)
		}
	}

	if _, err := ParseScope("everything"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown scope, got %v", err)
	}
}
