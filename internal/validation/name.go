package validation

import (
	"errors"
	"strings"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name is too long (max 100 characters)")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
)

// ValidateName validates a habit name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return ErrNameRequired
	}

	if len(trimmed) > 100 {
		return ErrNameTooLong
	}

	return nil
}

func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < 3 {
		return ErrUsernameTooShort
	}

	if len(trimmed) > 100 {
		return ErrNameTooLong
	}

	return nil
}
