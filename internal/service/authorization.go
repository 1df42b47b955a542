package service

import (
	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

// UserAction names an operation of the user management API.
type UserAction string

const (
	UserActionList       UserAction = "list"
	UserActionView       UserAction = "view"
	UserActionCreate     UserAction = "create"
	UserActionUpdate     UserAction = "update"
	UserActionChangeRole UserAction = "change_role"
	UserActionDelete     UserAction = "delete"
)

var (
	errCreateRoleDenied = forbidden("You are not authorized to create users with this role.")
	errViewDenied       = forbidden("You are not authorized to view this user.")
	errUpdateDenied     = forbidden("You are not authorized to update this user.")
	errRoleChangeDenied = forbidden("You are not authorized to update user roles.")
	errDeleteDenied     = forbidden("You are not authorized to delete users.")
	errDeleteUserDenied = forbidden("You are not authorized to delete this user.")
	errDeleteAdmin      = forbidden("Admin users cannot be deleted for security reasons.")
)

func forbidden(message string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrForbidden, message)
}

// Authorize applies the user management role matrix. target is the user acted
// upon; for UserActionCreate it only needs the requested Role and for
// UserActionList it is ignored.
func Authorize(actor *models.User, action UserAction, target *models.User) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	switch action {
	case UserActionList:
		if actor.Role == models.RoleClient {
			return appErrors.ErrForbidden
		}
	case UserActionView:
		if actor.Role == models.RoleClient && !isSelf(actor, target) {
			return errViewDenied
		}
	case UserActionUpdate:
		if actor.Role == models.RoleClient && !isSelf(actor, target) {
			return errUpdateDenied
		}
	case UserActionChangeRole:
		if actor.Role != models.RoleAdmin {
			return errRoleChangeDenied
		}
	case UserActionCreate:
		if actor.Role != models.RoleAdmin && (target == nil || target.Role != models.RoleClient) {
			return errCreateRoleDenied
		}
	case UserActionDelete:
		if actor.Role == models.RoleClient {
			return errDeleteDenied
		}
		if target == nil {
			return nil
		}
		if actor.Role == models.RoleManager && target.Role != models.RoleClient {
			return errDeleteUserDenied
		}
		if target.Role == models.RoleAdmin {
			return errDeleteAdmin
		}
	default:
		return appErrors.ErrForbidden
	}
	return nil
}

func isSelf(actor, target *models.User) bool {
	return target != nil && actor.ID == target.ID
}
