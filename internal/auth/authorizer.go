package auth

import (
	"github.com/peoplehub/events-api/internal/models"
	"github.com/peoplehub/events-api/internal/scheduling"
)

// RoleAuthorizer maps employee roles onto scheduling actions. HR owns event
// and series management; managers may additionally register their reports.
type RoleAuthorizer struct{}

func NewRoleAuthorizer() RoleAuthorizer {
	return RoleAuthorizer{}
}

func (RoleAuthorizer) Allow(actor *models.Employee, action scheduling.Action) bool {
	if actor == nil {
		return false
	}
	switch action {
	case scheduling.ActionManageEvents, scheduling.ActionManageSeries, scheduling.ActionCancelOnBehalf:
		return actor.Role == models.RoleHROfficer || actor.Role == models.RoleHRHead
	case scheduling.ActionRegisterOnBehalf:
		return actor.Role == models.RoleManager || actor.Role == models.RoleHROfficer || actor.Role == models.RoleHRHead
	}
	return false
}
