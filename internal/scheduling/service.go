// Package scheduling implements the event scheduling and registration
// conflict engine: occurrence generation for recurring events, scoped series
// mutation, capacity admission, conflict detection and the registration
// lifecycle. Persistence and authorization are injected collaborators.
package scheduling

import (
	"github.com/peoplehub/events-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Action names an operation the authorization collaborator can gate.
type Action string

const (
	// ActionManageEvents covers event creation, editing and deletion.
	ActionManageEvents Action = "events.manage"
	// ActionManageSeries covers series-wide update and cancellation.
	ActionManageSeries Action = "events.manage_series"
	// ActionRegisterOnBehalf covers registering another employee.
	ActionRegisterOnBehalf Action = "registrations.on_behalf"
	// ActionCancelOnBehalf covers cancelling another employee's registration.
	ActionCancelOnBehalf Action = "registrations.cancel_on_behalf"
)

// Authorizer answers whether an actor may perform a non-self-service action.
type Authorizer interface {
	Allow(actor *models.Employee, action Action) bool
}

// Service ties the scheduling components together. It is stateless apart
// from the per-event admission locks and safe for concurrent use.
type Service struct {
	db     *gorm.DB
	authz  Authorizer
	logger *logrus.Logger

	// maxWindowDays bounds the occurrence generation window so a recurring
	// create cannot emit an unbounded series.
	maxWindowDays int

	locks *eventLocks
}

// NewService constructs the scheduling service with its collaborators.
// maxWindowDays <= 0 falls back to one year.
func NewService(db *gorm.DB, authz Authorizer, logger *logrus.Logger, maxWindowDays int) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if maxWindowDays <= 0 {
		maxWindowDays = 366
	}
	return &Service{
		db:            db,
		authz:         authz,
		logger:        logger,
		maxWindowDays: maxWindowDays,
		locks:         newEventLocks(),
	}
}
