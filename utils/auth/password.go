package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
	// MinPasswordLength is the minimum password length
	MinPasswordLength = 8
)

// PasswordHasher turns plaintext credentials into digests and checks them.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) error
}

// BcryptHasher is the bcrypt PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher; a cost outside bcrypt's range falls back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash generates a bcrypt hash of the password
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if !IsPasswordValid(plain) {
		return "", ErrPasswordTooShort
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// Verify checks if the provided password matches the hash
func (h *BcryptHasher) Verify(plain, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

// IsPasswordValid checks if password meets minimum requirements
func IsPasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}
