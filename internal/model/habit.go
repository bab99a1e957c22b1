package model

import (
	"time"
)

const (
	CadenceDaily   = "daily"
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
)

type Habit struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Cadence      string    `db:"cadence" json:"cadence"`
	ReminderTime *string   `db:"reminder_time" json:"reminder_time"` // HH:MM, nil when no reminder
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HabitSummary is an active habit annotated with its log aggregates.
type HabitSummary struct {
	Habit
	CompletedCount int   `db:"completed_count" json:"completed_count"`
	LastLogDate    *Date `db:"last_log_date" json:"last_log_date"`
}

type HabitStats struct {
	TotalHabits    int `json:"total_habits"`
	ActiveHabits   int `json:"active_habits"`
	CompletionRate int `json:"completion_rate"` // percent over the trailing week
}
