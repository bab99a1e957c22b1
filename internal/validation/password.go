package validation

import (
	"errors"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 characters")
)

// ValidatePassword validates password length
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return ErrPasswordTooLong
	}

	return nil
}
