package validation

import (
	"errors"
	"time"

	"github.com/selfgrowth/tracker/internal/model"
)

var (
	ErrInvalidCadence      = errors.New("cadence must be daily, weekly or monthly")
	ErrInvalidReminderTime = errors.New("reminder time must be HH:MM")
	ErrInvalidDate         = errors.New("date must be YYYY-MM-DD")
)

func ValidateCadence(cadence string) error {
	switch cadence {
	case model.CadenceDaily, model.CadenceWeekly, model.CadenceMonthly:
		return nil
	}
	return ErrInvalidCadence
}

// ValidateReminderTime accepts a 24-hour HH:MM clock time.
func ValidateReminderTime(clock string) error {
	if len(clock) != 5 {
		return ErrInvalidReminderTime
	}
	_, err := time.Parse("15:04", clock)
	if err != nil {
		return ErrInvalidReminderTime
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, ErrInvalidDate
	}
	return d, nil
}
