package model

import (
	"time"
)

type HabitLog struct {
	ID        string    `db:"id" json:"id"`
	HabitID   string    `db:"habit_id" json:"habit_id"`
	Date      Date      `db:"date" json:"date"`
	Completed bool      `db:"completed" json:"completed"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	StreakTierExact       = "exact"
	StreakTierApproximate = "approximate"
)

// Streak is a consecutive-completion count and how it was computed.
type Streak struct {
	Days int    `json:"streak"`
	Tier string `json:"tier"`
}
