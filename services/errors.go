package services

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors returned by the services. Callers match them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrRoleMismatch       = errors.New("user has the wrong role for this operation")
	ErrRoleLocked         = errors.New("role cannot change while assignments reference the user")
	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrIncompleteRoster   = errors.New("incomplete roster")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotInGroup         = errors.New("student is not a member of the group")
	ErrInUse              = errors.New("still referenced by assignments")
	ErrInvalidInput       = errors.New("invalid input")
)

// NotFoundError names the missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IncompleteRosterError lists the students of a batch lacking a base or a
// supervisor. It matches ErrIncompleteRoster.
type IncompleteRosterError struct {
	StudentIDs []uint
}

func (e *IncompleteRosterError) Error() string {
	ids := make([]string, len(e.StudentIDs))
	for i, id := range e.StudentIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("incomplete roster: students %s lack a base or supervisor", strings.Join(ids, ", "))
}

func (e *IncompleteRosterError) Is(target error) bool {
	return target == ErrIncompleteRoster
}

// invalidInput wraps ErrInvalidInput with a field level message.
func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
