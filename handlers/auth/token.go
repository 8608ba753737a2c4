package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/handlers"
	authutil "github.com/sahilchouksey/practice-tracker/utils/auth"
	"github.com/sahilchouksey/practice-tracker/utils/middleware"
	"github.com/sahilchouksey/practice-tracker/utils/response"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken handles POST /api/v1/auth/refresh. The presented refresh token
// is revoked and a new pair issued.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	if claims.TokenType != authutil.TokenTypeRefresh {
		return response.Unauthorized(c, "Invalid token type")
	}

	isRevoked, err := h.blacklistService.IsTokenRevoked(c.UserContext(), claims.ID)
	if err != nil {
		log.Errorf("token blacklist lookup failed: %v", err)
		return response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	// Load user to get current role and token version
	user, err := h.access.GetActor(c.UserContext(), claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "User not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		log.Errorf("failed to issue tokens for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	if err := h.blacklistService.RevokeToken(c.UserContext(), claims.ID, user.ID, h.jwtManager.ExpiresAt(claims), "token_refresh"); err != nil {
		// The old token will expire on its own.
		log.Warnf("failed to revoke refresh token for user %d: %v", user.ID, err)
	}

	return response.Success(c, tokens)
}

// Logout handles POST /api/v1/auth/logout by blacklisting the access token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := handlers.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.BadRequest(c, "No token ID found")
	}

	if err := h.blacklistService.RevokeToken(c.UserContext(), claims.ID, user.ID, h.jwtManager.ExpiresAt(claims), "logout"); err != nil {
		log.Errorf("failed to revoke token for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.SuccessWithMessage(c, "Successfully logged out", nil)
}

// LogoutAll handles POST /api/v1/auth/logout-all. Every token issued to the
// user so far stops working.
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	user, ok := handlers.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if err := h.blacklistService.RevokeAllUserTokens(c.UserContext(), user.ID); err != nil {
		log.Errorf("failed to revoke tokens for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.SuccessWithMessage(c, "Logged out from all sessions", nil)
}
