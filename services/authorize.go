package services

import "github.com/sahilchouksey/practice-tracker/model"

// Authorize reports whether actor holds the required role. A nil actor is
// never authorized.
func Authorize(actor *model.User, required model.Role) bool {
	return actor != nil && actor.Role == required
}

// RequireRole returns ErrUnauthorized unless actor holds one of roles.
func RequireRole(actor *model.User, roles ...model.Role) error {
	for _, r := range roles {
		if Authorize(actor, r) {
			return nil
		}
	}
	return ErrUnauthorized
}

// requireStaff guards every administrative mutation.
func requireStaff(actor *model.User) error {
	return RequireRole(actor, model.RoleStaff)
}

// requireSupervisor admits teachers and staff.
func requireSupervisor(actor *model.User) error {
	return RequireRole(actor, model.RoleTeacher, model.RoleStaff)
}
