package validation

import (
	"errors"
	"net/mail"
)

var ErrInvalidEmail = errors.New("invalid email address")

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	// RFC 5321: total max 254 with @
	if email == "" || len(email) > 254 {
		return ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}
