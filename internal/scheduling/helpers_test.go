package scheduling

import (
	"fmt"
	"testing"
	"time"

	"github.com/peoplehub/events-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testAuthorizer mirrors the production role mapping without importing the
// auth package (which would cycle).
type testAuthorizer struct{}

func (testAuthorizer) Allow(actor *models.Employee, action Action) bool {
	if actor == nil {
		return false
	}
	switch action {
	case ActionManageEvents, ActionManageSeries, ActionCancelOnBehalf:
		return actor.Role == models.RoleHROfficer || actor.Role == models.RoleHRHead
	case ActionRegisterOnBehalf:
		return actor.Role != models.RoleEmployee
	}
	return false
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	// A single connection keeps every goroutine on the same in-memory DB.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Employee{},
		&models.Event{},
		&models.EventRegistration{},
		&models.RegistrationConflict{},
		&models.LeaveRequest{},
	)
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	return NewService(db, testAuthorizer{}, logger, 366), db
}

var employeeSeq int

func createEmployee(t *testing.T, db *gorm.DB, role string) *models.Employee {
	t.Helper()
	employeeSeq++
	employee := &models.Employee{
		Name:     fmt.Sprintf("Employee %d", employeeSeq),
		Email:    fmt.Sprintf("employee%d@example.com", employeeSeq),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}
	return employee
}

// day returns 09:00 UTC on day n of a fixed reference month.
func day(n int) time.Time {
	return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func createTestEvent(t *testing.T, db *gorm.DB, title string, start, end time.Time, capacity int) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:        title,
		Type:         models.EventTypeTraining,
		StartDate:    start,
		EndDate:      end,
		Location:     "HQ",
		Organizer:    "HR",
		MaxAttendees: capacity,
		Status:       models.EventStatusPublished,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}
