package service

import (
	"fmt"
	"log/slog"

	"github.com/selfgrowth/tracker/internal/model"
)

// StreakCounter is the log storage the streak engine reads from.
type StreakCounter interface {
	CountSinceBreak(habitID string, today model.Date) (int, error)
	CountCompletedSince(habitID string, since, today model.Date) (int, error)
}

// StreakEngine computes the current run of completed days for a habit.
//
// The exact tier finds the most recent not-completed log before today and
// counts completed logs after it. Days without any log are not failures, so a
// gap in logging does not reset the streak. If the exact query fails, the
// engine answers with the number of completed logs in the trailing window and
// marks the result approximate.
type StreakEngine struct {
	counter      StreakCounter
	fallbackDays int
}

func NewStreakEngine(counter StreakCounter, fallbackDays int) *StreakEngine {
	if fallbackDays <= 0 {
		fallbackDays = 30
	}
	return &StreakEngine{counter: counter, fallbackDays: fallbackDays}
}

func (e *StreakEngine) Compute(habitID string, today model.Date) (*model.Streak, error) {
	days, err := e.counter.CountSinceBreak(habitID, today)
	if err == nil {
		return &model.Streak{Days: days, Tier: model.StreakTierExact}, nil
	}

	slog.Warn("exact streak query failed, using approximate count",
		"habit_id", habitID,
		"window_days", e.fallbackDays,
		"error", err,
	)

	days, fallbackErr := e.counter.CountCompletedSince(habitID, today.AddDays(-e.fallbackDays), today)
	if fallbackErr != nil {
		return nil, fmt.Errorf("failed to compute streak: %w", fallbackErr)
	}

	return &model.Streak{Days: days, Tier: model.StreakTierApproximate}, nil
}
