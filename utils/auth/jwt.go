package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sahilchouksey/practice-tracker/model"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims represents JWT claims
type Claims struct {
	UserID       uint       `json:"user_id"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	TokenType    string     `json:"token_type"`    // "access" or "refresh"
	TokenVersion int        `json:"token_version"` // For invalidating all tokens
	jwt.RegisteredClaims
}

// JWTManager handles JWT token operations
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
	}
}

// AccessExpiry is the lifetime of access tokens
func (j *JWTManager) AccessExpiry() time.Duration {
	return j.config.Expiry
}

// GenerateAccessToken generates a new access token and returns it with its JTI
func (j *JWTManager) GenerateAccessToken(user *model.User) (string, string, error) {
	return j.generate(user, TokenTypeAccess, j.config.Expiry)
}

// GenerateRefreshToken generates a new refresh token and returns it with its JTI
func (j *JWTManager) GenerateRefreshToken(user *model.User) (string, string, error) {
	return j.generate(user, TokenTypeRefresh, j.config.RefreshExpiry)
}

func (j *JWTManager) generate(user *model.User, tokenType string, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.New().String()

	claims := Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenType:    tokenType,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   user.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(j.config.Secret))
	return signedToken, jti, err
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	}, jwt.WithIssuer(j.config.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// ExpiresAt returns the expiry of validated claims, or now plus the access
// lifetime when the token carries none.
func (j *JWTManager) ExpiresAt(claims *Claims) time.Time {
	if claims == nil || claims.ExpiresAt == nil {
		return time.Now().Add(j.config.Expiry)
	}
	return claims.ExpiresAt.Time
}
