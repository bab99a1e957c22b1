package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/repository"
	"github.com/selfgrowth/tracker/internal/validation"
)

var (
	ErrNameRequired        = validation.ErrNameRequired
	ErrInvalidCadence      = validation.ErrInvalidCadence
	ErrInvalidReminderTime = validation.ErrInvalidReminderTime
	ErrInvalidDate         = validation.ErrInvalidDate
	ErrInvalidDateRange    = errors.New("start date must not be after end date")
)

const (
	defaultLogWindowDays = 30
	statsWindowDays      = 7
)

// HabitInput carries the user-editable fields of a habit.
type HabitInput struct {
	Name         string
	Description  string
	Cadence      string
	ReminderTime *string
	Active       bool
}

type HabitService struct {
	habits  repository.HabitRepository
	logs    repository.HabitLogRepository
	streaks *StreakEngine
	now     func() time.Time
}

func NewHabitService(
	habits repository.HabitRepository,
	logs repository.HabitLogRepository,
	streaks *StreakEngine,
	now func() time.Time,
) *HabitService {
	if now == nil {
		now = time.Now
	}
	return &HabitService{
		habits:  habits,
		logs:    logs,
		streaks: streaks,
		now:     now,
	}
}

// Today is the current calendar day on the service clock.
func (s *HabitService) Today() model.Date {
	return model.DateOf(s.now())
}

func (s *HabitService) Create(userID string, input HabitInput) (*model.Habit, error) {
	input, err := normalizeHabitInput(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	habit := &model.Habit{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         input.Name,
		Description:  input.Description,
		Cadence:      input.Cadence,
		ReminderTime: input.ReminderTime,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.habits.Create(habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *HabitService) ListActive(userID string) ([]*model.HabitSummary, error) {
	habits, err := s.habits.ActiveHabits(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

func (s *HabitService) ByID(userID, habitID string) (*model.Habit, error) {
	habit, err := s.habits.ByID(userID, habitID)
	if err != nil {
		return nil, wrapStorage("failed to get habit", err)
	}
	return habit, nil
}

// Update replaces every editable field of the habit with input.
func (s *HabitService) Update(userID, habitID string, input HabitInput) (*model.Habit, error) {
	input, err := normalizeHabitInput(input)
	if err != nil {
		return nil, err
	}

	habit, err := s.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	habit.Name = input.Name
	habit.Description = input.Description
	habit.Cadence = input.Cadence
	habit.ReminderTime = input.ReminderTime
	habit.Active = input.Active
	habit.UpdatedAt = s.now()

	err = s.habits.Update(habit)
	if err != nil {
		return nil, wrapStorage("failed to update habit", err)
	}

	return habit, nil
}

func (s *HabitService) Delete(userID, habitID string) error {
	err := s.habits.Delete(userID, habitID)
	if err != nil {
		return wrapStorage("failed to delete habit", err)
	}
	return nil
}

// LogHabit records the outcome for one day, replacing any earlier record for
// that day. A nil date means today.
func (s *HabitService) LogHabit(userID, habitID string, completed bool, date *model.Date, notes string) (*model.HabitLog, error) {
	// Verify ownership
	_, err := s.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	day := s.Today()
	if date != nil {
		day = *date
	}

	log, err := s.logs.Upsert(&model.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Date:      day,
		Completed: completed,
		Notes:     strings.TrimSpace(notes),
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record habit log: %w", err)
	}

	return log, nil
}

// HabitLogs lists logs in [start, end], newest first. Missing bounds default
// to the trailing 30 days ending today, today included.
func (s *HabitService) HabitLogs(userID, habitID string, start, end *model.Date) ([]*model.HabitLog, error) {
	_, err := s.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	to := s.Today()
	if end != nil {
		to = *end
	}
	from := to.AddDays(-(defaultLogWindowDays - 1))
	if start != nil {
		from = *start
	}
	if from.After(to.Time) {
		return nil, ErrInvalidDateRange
	}

	logs, err := s.logs.Logs(habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}

	return logs, nil
}

func (s *HabitService) Streak(userID, habitID string) (*model.Streak, error) {
	_, err := s.ByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	return s.streaks.Compute(habitID, s.Today())
}

// Stats summarizes the user's habits with a completion rate over the last
// week, today included.
func (s *HabitService) Stats(userID string) (*model.HabitStats, error) {
	today := s.Today()
	stats, err := s.habits.Stats(userID, today.AddDays(-(statsWindowDays - 1)), today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute habit stats: %w", err)
	}
	return stats, nil
}

// Export collects every habit of the user, inactive ones included, with its
// full log history.
func (s *HabitService) Export(userID string) (*model.Export, error) {
	habits, err := s.habits.Habits(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	export := &model.Export{
		UserID:     userID,
		ExportedAt: s.now(),
		Habits:     make([]*model.HabitExport, 0, len(habits)),
	}

	for _, habit := range habits {
		logs, err := s.logs.AllLogs(habit.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list logs for habit %s: %w", habit.ID, err)
		}
		export.Habits = append(export.Habits, &model.HabitExport{Habit: *habit, Logs: logs})
	}

	return export, nil
}

func normalizeHabitInput(input HabitInput) (HabitInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	err := validation.ValidateName(input.Name)
	if err != nil {
		return input, err
	}

	if input.Cadence == "" {
		input.Cadence = model.CadenceDaily
	}
	err = validation.ValidateCadence(input.Cadence)
	if err != nil {
		return input, err
	}

	if input.ReminderTime != nil && *input.ReminderTime == "" {
		input.ReminderTime = nil
	}
	if input.ReminderTime != nil {
		err = validation.ValidateReminderTime(*input.ReminderTime)
		if err != nil {
			return input, err
		}
	}

	return input, nil
}

// wrapStorage passes not-found through unchanged and wraps everything else.
func wrapStorage(msg string, err error) error {
	if errors.Is(err, repository.ErrHabitNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
