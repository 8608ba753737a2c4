package model

import (
	"errors"
	"strings"
)

// Role is the closed set of actor roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleStaff   Role = "staff"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role in display order
var Roles = []Role{RoleStudent, RoleTeacher, RoleStaff}

// ParseRole converts user input into a Role. An empty string yields RoleStudent.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleStudent, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleStaff:
		return true
	}
	return false
}

// CanSupervise reports whether an actor with this role may supervise a placement
// or evaluate one.
func (r Role) CanSupervise() bool {
	return r == RoleTeacher || r == RoleStaff
}

func (r Role) String() string {
	return string(r)
}
