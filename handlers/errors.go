package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/middleware"
	"github.com/sahilchouksey/practice-tracker/utils/response"
)

// RespondError maps a service error onto the response envelope. Unexpected
// errors are logged and answered with a generic 500.
func RespondError(c *fiber.Ctx, err error) error {
	var roster *services.IncompleteRosterError
	var missing *services.NotFoundError

	switch {
	case errors.As(err, &roster):
		return response.UnprocessableEntity(c, "Every student needs a base and a supervisor", "INCOMPLETE_ROSTER",
			fiber.Map{"student_ids": roster.StudentIDs})
	case errors.As(err, &missing):
		return response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "")
	case errors.Is(err, services.ErrUnauthorized):
		return response.Forbidden(c, "You are not allowed to perform this action")
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrDuplicateEmail):
		return response.Conflict(c, err.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, services.ErrDuplicateUsername):
		return response.Conflict(c, err.Error(), "DUPLICATE_USERNAME")
	case errors.Is(err, services.ErrInUse):
		return response.Conflict(c, err.Error(), "IN_USE")
	case errors.Is(err, services.ErrRoleLocked):
		return response.Conflict(c, err.Error(), "ROLE_LOCKED")
	case errors.Is(err, services.ErrInvalidDateRange):
		return response.UnprocessableEntity(c, err.Error(), "INVALID_DATE_RANGE", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		return response.UnprocessableEntity(c, err.Error(), "INVALID_TRANSITION", nil)
	case errors.Is(err, services.ErrRoleMismatch):
		return response.UnprocessableEntity(c, err.Error(), "ROLE_MISMATCH", nil)
	case errors.Is(err, services.ErrNotInGroup):
		return response.UnprocessableEntity(c, err.Error(), "NOT_IN_GROUP", nil)
	case errors.Is(err, services.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	}

	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "")
}

// ParseID reads a positive numeric route parameter
func ParseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// QueryID reads an optional numeric query parameter. Missing or malformed
// values yield 0.
func QueryID(c *fiber.Ctx, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// Actor returns the authenticated user. Routes behind the auth middleware
// always have one.
func Actor(c *fiber.Ctx) (*model.User, bool) {
	return middleware.GetUser(c)
}
