package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/repository"
)

// Mailer delivers a reminder for one habit.
type Mailer interface {
	SendHabitReminder(ctx context.Context, email, name, habitName, cadence string) error
}

// Scheduler periodically emails owners of habits whose reminder time has come
// and that are not yet completed today. Each habit is reminded at most once
// per day.
type Scheduler struct {
	mu       sync.RWMutex
	repo     repository.ReminderRepository
	mailer   Mailer
	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewScheduler(repo repository.ReminderRepository, mailer Mailer, interval time.Duration, now func() time.Time) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		repo:     repo,
		mailer:   mailer,
		interval: interval,
		now:      now,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	slog.Info("reminder scheduler started", "interval", s.interval)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick sends all reminders due at the current minute and returns how many
// were delivered.
func (s *Scheduler) Tick(ctx context.Context) int {
	now := s.now()
	clock := now.Format("15:04")
	today := model.DateOf(now)

	due, err := s.repo.DueReminders(clock, today)
	if err != nil {
		slog.Error("reminder scheduler: list due reminders", "error", err)
		return 0
	}

	sent := 0
	for _, r := range due {
		if ctx.Err() != nil {
			break
		}

		claimed, err := s.repo.ClaimDelivery(r.HabitID, today, now)
		if err != nil {
			slog.Error("reminder scheduler: claim delivery", "habit_id", r.HabitID, "error", err)
			continue
		}
		if !claimed {
			continue
		}

		err = s.mailer.SendHabitReminder(ctx, r.Email, r.Username, r.HabitName, r.Cadence)
		if err != nil {
			slog.Error("reminder scheduler: send reminder", "habit_id", r.HabitID, "user_id", r.UserID, "error", err)
			continue
		}

		sent++
		slog.Debug("habit reminder sent", "habit_id", r.HabitID, "user_id", r.UserID)
	}

	return sent
}
