package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/peoplehub/events-api/internal/models"
	"gorm.io/gorm"
)

// CheckConflicts is the advisory "check before registering" path: it returns
// the conflicts a registration attempt would hit without persisting anything.
func (s *Service) CheckConflicts(ctx context.Context, eventID, employeeID string) ([]models.RegistrationConflict, error) {
	if eventID == "" || employeeID == "" {
		return nil, fmt.Errorf("event id and employee id are required: %w", ErrInvalidInput)
	}
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.detectConflicts(s.db.WithContext(ctx), event, employeeID)
}

// detectConflicts finds every temporal overlap blocking a registration of
// employeeID for event: approved leave (severity high) and the employee's
// other confirmed registrations (severity medium). Intervals are closed, so
// touching endpoints count as overlap. Read-only.
func (s *Service) detectConflicts(tx *gorm.DB, event *models.Event, employeeID string) ([]models.RegistrationConflict, error) {
	var conflicts []models.RegistrationConflict
	now := time.Now().UTC()

	var leaves []models.LeaveRequest
	err := tx.Where("employee_id = ? AND status = ?", employeeID, models.LeaveApproved).
		Order("start_date").
		Find(&leaves).Error
	if err != nil {
		return nil, wrapStorage("load approved leaves", err)
	}
	for _, leave := range leaves {
		if event.Overlaps(leave.StartDate, leave.EndDate) {
			conflicts = append(conflicts, models.RegistrationConflict{
				EventID:    event.ID,
				EmployeeID: employeeID,
				Type:       models.ConflictLeaveOverlap,
				Details: fmt.Sprintf("Event overlaps approved leave from %s to %s",
					leave.StartDate.Format("2006-01-02"), leave.EndDate.Format("2006-01-02")),
				Severity:  models.SeverityHigh,
				CreatedAt: now,
			})
		}
	}

	var registrations []models.EventRegistration
	err = tx.Where("employee_id = ? AND status = ?", employeeID, models.RegistrationConfirmed).
		Order("registration_date").
		Find(&registrations).Error
	if err != nil {
		return nil, wrapStorage("load confirmed registrations", err)
	}
	for _, reg := range registrations {
		if reg.EventID == event.ID {
			continue
		}
		var other models.Event
		if err := tx.First(&other, "id = ?", reg.EventID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, wrapStorage("load registered event", err)
		}
		if event.Overlaps(other.StartDate, other.EndDate) {
			conflicts = append(conflicts, models.RegistrationConflict{
				EventID:    event.ID,
				EmployeeID: employeeID,
				Type:       models.ConflictEventOverlap,
				Details:    fmt.Sprintf("Event overlaps confirmed registration for %q", other.Title),
				Severity:   models.SeverityMedium,
				CreatedAt:  now,
			})
		}
	}

	return conflicts, nil
}
