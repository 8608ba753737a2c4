package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/sahilchouksey/practice-tracker/model"
)

func newTestManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        expiry,
		RefreshExpiry: 2 * expiry,
		Issuer:        "practice-tracker-test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := newTestManager(time.Hour)
	user := &model.User{ID: 7, Email: "staff@example.com", Role: model.RoleStaff, TokenVersion: 3}

	token, jti, err := m.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.RoleStaff || claims.TokenVersion != 3 {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want %q", claims.ID, jti)
	}
	if !m.ExpiresAt(claims).After(time.Now()) {
		t.Error("expiry should be in the future")
	}
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	user := &model.User{ID: 1, Email: "a@example.com", Role: model.RoleStudent}

	expired := newTestManager(-time.Minute)
	token, _, err := expired.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := expired.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired token error = %v, want ErrExpiredToken", err)
	}

	good := newTestManager(time.Hour)
	token, _, _ = good.GenerateRefreshToken(user)
	other := NewJWTManager(JWTConfig{Secret: "other", Expiry: time.Hour, Issuer: "practice-tracker-test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token error = %v, want ErrInvalidToken", err)
	}
}
