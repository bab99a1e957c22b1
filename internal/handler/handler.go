package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/selfgrowth/tracker/internal/repository"
	"github.com/selfgrowth/tracker/internal/response"
	"github.com/selfgrowth/tracker/internal/service"
	"github.com/selfgrowth/tracker/internal/validation"
)

var validationErrors = []error{
	validation.ErrNameRequired,
	validation.ErrNameTooLong,
	validation.ErrUsernameTooShort,
	validation.ErrInvalidEmail,
	validation.ErrPasswordTooShort,
	validation.ErrPasswordTooLong,
	validation.ErrInvalidCadence,
	validation.ErrInvalidReminderTime,
	validation.ErrInvalidDate,
	service.ErrInvalidDateRange,
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps service errors to status codes. Anything unexpected is
// logged and reported as a generic failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrHabitNotFound):
		response.Error(w, http.StatusNotFound, "Habit not found")
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		response.Error(w, http.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrStorageDisabled):
		response.Error(w, http.StatusServiceUnavailable, "Export storage is not configured")
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		response.Error(w, http.StatusInternalServerError, "operation failed")
	}
}
