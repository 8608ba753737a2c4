package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"max=100"`
}

// GetProfile handles GET /api/v1/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	actor, ok := handlers.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	user, err := h.access.GetActor(c.UserContext(), actor.ID)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return response.Success(c, user)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := handlers.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	user, err := h.access.UpdateProfile(c.UserContext(), actor, validation.SanitizeString(req.FullName))
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", user)
}
