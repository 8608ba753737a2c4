package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/practice-tracker/handlers"
	"github.com/sahilchouksey/practice-tracker/model"
	"github.com/sahilchouksey/practice-tracker/services"
	authutil "github.com/sahilchouksey/practice-tracker/utils/auth"
	"github.com/sahilchouksey/practice-tracker/utils/middleware"
	"github.com/sahilchouksey/practice-tracker/utils/response"
	"github.com/sahilchouksey/practice-tracker/utils/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	access               *services.AccessService
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(access *services.AccessService, jwtManager *authutil.JWTManager, blacklist *authutil.BlacklistService, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		access:               access,
		jwtManager:           jwtManager,
		blacklistService:     blacklist,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// RegisterRequest represents a student self-registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Username string `json:"username" validate:"required,notblank,max=50"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	User         *model.User `json:"user,omitempty"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"` // in seconds
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, h.validator.Translate(err))
	}

	user, err := h.access.Register(c.UserContext(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: validation.SanitizeString(req.Username),
		FullName: validation.SanitizeString(req.FullName),
		Role:     model.RoleStudent,
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}

	tokens, err := h.issueTokens(user)
	if err != nil {
		log.Errorf("failed to issue tokens for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	tokens.User = user

	return response.Created(c, tokens)
}

func (h *AuthHandler) issueTokens(user *model.User) (*TokenResponse, error) {
	accessToken, _, err := h.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.jwtManager.AccessExpiry().Seconds()),
	}, nil
}
