package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	BCryptCost = 12

	// DefaultMinPasswordLength is the shortest accepted password.
	DefaultMinPasswordLength = 4
	MaxPasswordLength        = 72 // Bcrypt algorithm limitation
)

var ErrPasswordEmpty = errors.New("password cannot be empty")

// PasswordService handles password hashing and validation
type PasswordService struct {
	cost      int
	minLength int
}

// NewPasswordService creates a password service. Zero values fall back to defaults.
func NewPasswordService(cost, minLength int) PasswordServiceInterface {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = BCryptCost
	}
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	return &PasswordService{
		cost:      cost,
		minLength: minLength,
	}
}

// ValidatePassword checks length only. Length is counted in characters.
func (ps *PasswordService) ValidatePassword(password string) error {
	if password == "" {
		return newValidationError("password", KindRequired, ErrPasswordEmpty.Error())
	}

	if utf8.RuneCountInString(password) < ps.minLength {
		return newValidationError("password", KindTooShort,
			fmt.Sprintf("password must be at least %d characters", ps.minLength))
	}

	if len(password) > MaxPasswordLength {
		return newValidationError("password", KindTooLong,
			fmt.Sprintf("password must not exceed %d bytes", MaxPasswordLength))
	}

	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword compares a plain password with a hashed password
// Returns true if they match, false otherwise
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
