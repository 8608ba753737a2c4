package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// UserHandler handles staff-side account management
type UserHandler struct {
	access    *services.AccessService
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(access *services.AccessService) *UserHandler {
	return &UserHandler{
		access:    access,
		validator: validation.NewValidator(),
	}
}

// CreateUserRequest represents a staff-created account of any role
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Username string `json:"username" validate:"required,notblank,max=50"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// ChangeRoleRequest represents a role change
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// ListUsers handles GET /api/v1/users
// Query params: role, group_id
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var filter services.ActorFilter

	if role := c.Query("role"); role != "" {
		r, err := model.ParseRole(role)
		if err != nil {
			return response.BadRequest(c, "Invalid role filter")
		}
		filter.Role = r
	}

	if c.Query("group_id") != "" {
		groupID := handlers.QueryID(c, "group_id")
		if groupID == 0 {
			return response.BadRequest(c, "Invalid group_id filter")
		}
		filter.GroupID = &groupID
	}

	users, err := h.access.ListActors(c.UserContext(), filter)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return response.Success(c, users)
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	role, _ := model.ParseRole(req.Role)

	user, err := h.access.CreateActor(c.UserContext(), actor, services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: validation.SanitizeString(req.Username),
		FullName: validation.SanitizeString(req.FullName),
		Role:     role,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return response.Created(c, user)
}

// ChangeRole handles PUT /api/v1/users/:id/role
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	actor, _ := handlers.Actor(c)

	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	role, _ := model.ParseRole(req.Role)

	user, err := h.access.ChangeRole(c.UserContext(), actor, id, role)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return response.SuccessWithMessage(c, "Role updated successfully", user)
}
