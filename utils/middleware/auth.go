package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/utils/auth"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"gorm.io/gorm"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// Required is middleware that requires a valid access token and loads the
// acting user
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		if claims.TokenType != auth.TokenTypeAccess {
			return response.Unauthorized(c, "Invalid token type")
		}

		isRevoked, err := m.blacklistService.IsTokenRevoked(c.UserContext(), claims.ID)
		if err != nil {
			log.Errorf("token blacklist lookup failed: %v", err)
			return response.InternalServerError(c, "Failed to check token status")
		}
		if isRevoked {
			return response.Unauthorized(c, "Token has been revoked")
		}

		// The role is read from storage, not from the token, so a role change
		// takes effect on the next request.
		var user model.User
		if err := m.db.WithContext(c.UserContext()).First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Unauthorized(c, "User not found")
			}
			log.Errorf("failed to load user %d: %v", claims.UserID, err)
			return response.InternalServerError(c, "Failed to load user")
		}

		if user.TokenVersion != claims.TokenVersion {
			return response.Unauthorized(c, "Token has been invalidated")
		}

		SetUser(c, &user)
		c.Locals(claimsKey, claims)

		return c.Next()
	}
}

// RequireRole is middleware that requires one of the given roles. It must run
// after Required.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}

		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// SetUser stores the acting user on the request
func SetUser(c *fiber.Ctx, user *model.User) {
	c.Locals(userKey, user)
}

// GetUser extracts the acting user from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(userKey).(*model.User)
	return u, ok && u != nil
}

// GetClaims extracts the validated token claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
