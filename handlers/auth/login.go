package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/services"
	"github.com/sahilchouksey/practice-tracker/utils/response"
)

// LoginRequest accepts either an email or a username as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,notblank,max=100"`
	Password   string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	ip := c.IP()

	user, err := h.access.Authenticate(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.bruteForceProtection.RecordFailedAttempt(c.UserContext(), ip, req.Identifier)
		}
		return handlers.RespondError(c, err)
	}

	// Clear failed attempts on successful login
	h.bruteForceProtection.RecordSuccessfulAttempt(c.UserContext(), ip)

	tokens, err := h.issueTokens(user)
	if err != nil {
		log.Errorf("failed to issue tokens for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	tokens.User = user

	return response.Success(c, tokens)
}
