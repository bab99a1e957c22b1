package model

import (
	"time"
)

// Export is a user's full habit history as written to an archive.
type Export struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Habits     []*HabitExport `json:"habits"`
}

type HabitExport struct {
	Habit
	Logs []*HabitLog `json:"logs"`
}

// ExportFile describes an archive stored in object storage.
type ExportFile struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
