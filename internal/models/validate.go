package models

import (
	"fmt"

	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

const (
	// MinPasswordLength is the shortest password the registration form accepts.
	MinPasswordLength = 6
	// PINLength is the fixed length of a child PIN.
	PINLength = 4
)

// ValidationError is a local input failure. No network call is made when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets callers match [shared.ErrInvalidInput] with errors.Is.
func (e *ValidationError) Unwrap() error {
	return shared.ErrInvalidInput
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength),
		}
	}
	return nil
}

// ValidatePIN requires exactly four digits.
func ValidatePIN(pin string) error {
	if len(pin) != PINLength {
		return &ValidationError{Field: "pin", Message: "PIN must be 4 digits"}
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return &ValidationError{Field: "pin", Message: "PIN must be 4 digits"}
		}
	}
	return nil
}

// ClampPIN truncates input to [PINLength] characters, like the PIN field's max length.
func ClampPIN(pin string) string {
	runes := []rune(pin)
	if len(runes) > PINLength {
		return string(runes[:PINLength])
	}
	return pin
}
