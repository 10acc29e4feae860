// Package policy holds the role-based authorization rules as a pure decision
// function. It never touches the store or the request; callers resolve the
// actor, their supervisor project assignments and the target up front.
package policy

import (
	"timesheets/models"
)

// Action identifies an operation gated by the policy.
type Action string

const (
	ActionListUsers  Action = "users.list"
	ActionCreateUser Action = "users.create"
	ActionUpdateUser Action = "users.update"
	ActionDeleteUser Action = "users.delete"

	ActionListProjects  Action = "projects.list"
	ActionCreateProject Action = "projects.create"
	ActionUpdateProject Action = "projects.update"

	ActionListTimesheets  Action = "timesheets.list"
	ActionCreateTimesheet Action = "timesheets.create"
	ActionEditTimesheet   Action = "timesheets.edit"
	ActionDeleteTimesheet Action = "timesheets.delete"

	ActionViewStats         Action = "stats.view"
	ActionManageAssignments Action = "assignments.manage"
)

// Actor is the authenticated principal a decision is made for.
// AssignedProjectIDs is only consulted for supervisors.
type Actor struct {
	ID                 uint
	Role               models.Role
	AssignedProjectIDs []uint
}

// Target describes what the action applies to. Zero values mean "not
// applicable": timesheet mutations set ProjectID, user management sets
// UserID and UserRole.
type Target struct {
	ProjectID uint
	UserID    uint
	UserRole  models.Role
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide evaluates the rule list and returns ALLOW or DENY with a reason.
// Unknown actions and unknown roles are denied.
func Decide(actor Actor, action Action, target Target) Decision {
	// Self-protection overrides everything, including the admin blanket
	// allowance: nobody deletes their own account, and admin accounts are
	// never deletable.
	if action == ActionDeleteUser {
		if target.UserID == actor.ID {
			return deny("you cannot delete your own account")
		}
		if target.UserRole == models.RoleAdmin {
			return deny("admin users cannot be deleted")
		}
	}

	switch actor.Role {
	case models.RoleAdmin:
		return allow()

	case models.RoleSupervisor:
		switch action {
		case ActionListUsers, ActionCreateUser, ActionUpdateUser,
			ActionListProjects, ActionCreateProject, ActionUpdateProject,
			ActionListTimesheets, ActionViewStats:
			return allow()

		case ActionCreateTimesheet:
			if assigned(actor.AssignedProjectIDs, target.ProjectID) {
				return allow()
			}
			return deny("you do not have access to create timesheets for this project")

		case ActionEditTimesheet, ActionDeleteTimesheet:
			if assigned(actor.AssignedProjectIDs, target.ProjectID) {
				return allow()
			}
			return deny("you are not assigned to this project")

		case ActionDeleteUser, ActionManageAssignments:
			return deny("admin only")
		}
		return deny("forbidden")

	case models.RoleOperative:
		switch action {
		case ActionListTimesheets, ActionCreateTimesheet:
			if target.UserID == actor.ID {
				return allow()
			}
			return deny("you may only manage your own timesheets")
		}
		return deny("forbidden")
	}

	return deny("forbidden")
}

func assigned(ids []uint, projectID uint) bool {
	if projectID == 0 {
		return false
	}
	for _, id := range ids {
		if id == projectID {
			return true
		}
	}
	return false
}
