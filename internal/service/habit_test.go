package service

import (
	"errors"
	"testing"
	"time"

	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/repository"
	"github.com/selfgrowth/tracker/internal/testutil"
)

// habitFixture wires a HabitService to a fresh database with a movable clock.
type habitFixture struct {
	svc   *HabitService
	now   time.Time
	alice *model.User
	bob   *model.User
}

func newHabitFixture(t *testing.T, today time.Time) *habitFixture {
	t.Helper()

	conn := testutil.NewDB(t)
	logs := repository.NewHabitLogRepository(conn)
	f := &habitFixture{
		now:   today,
		alice: testutil.CreateUser(t, conn, "alice"),
		bob:   testutil.CreateUser(t, conn, "bob"),
	}
	f.svc = NewHabitService(
		repository.NewHabitRepository(conn),
		logs,
		NewStreakEngine(logs, 30),
		func() time.Time { return f.now },
	)
	return f
}

func (f *habitFixture) create(t *testing.T, owner *model.User, name string) *model.Habit {
	t.Helper()
	habit, err := f.svc.Create(owner.ID, HabitInput{Name: name})
	if err != nil {
		t.Fatalf("Create(%q) error = %v", name, err)
	}
	return habit
}

func (f *habitFixture) record(t *testing.T, habit *model.Habit, day string, completed bool) *model.HabitLog {
	t.Helper()
	d, err := model.ParseDate(day)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", day, err)
	}
	log, err := f.svc.LogHabit(habit.UserID, habit.ID, completed, &d, "")
	if err != nil {
		t.Fatalf("LogHabit(%s) error = %v", day, err)
	}
	return log
}

func (f *habitFixture) streak(t *testing.T, habit *model.Habit) int {
	t.Helper()
	s, err := f.svc.Streak(habit.UserID, habit.ID)
	if err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if s.Tier != model.StreakTierExact {
		t.Errorf("Streak() tier = %s, want exact", s.Tier)
	}
	return s.Days
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestCreateValidation(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	bad := "7am"

	tests := []struct {
		name  string
		input HabitInput
		want  error
	}{
		{"empty name", HabitInput{Name: "  "}, ErrNameRequired},
		{"unknown cadence", HabitInput{Name: "Read", Cadence: "hourly"}, ErrInvalidCadence},
		{"bad reminder", HabitInput{Name: "Read", ReminderTime: &bad}, ErrInvalidReminderTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(f.alice.ID, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	empty := ""

	habit, err := f.svc.Create(f.alice.ID, HabitInput{Name: " Meditate ", ReminderTime: &empty})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if habit.Name != "Meditate" {
		t.Errorf("Name = %q, want %q", habit.Name, "Meditate")
	}
	if habit.Cadence != model.CadenceDaily {
		t.Errorf("Cadence = %q, want daily", habit.Cadence)
	}
	if !habit.Active {
		t.Error("new habit should be active")
	}
	if habit.ReminderTime != nil {
		t.Errorf("ReminderTime = %q, want nil", *habit.ReminderTime)
	}
}

func TestOwnershipIsMasked(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	habit := f.create(t, f.alice, "Read")

	_, err := f.svc.ByID(f.alice.ID, habit.ID)
	if err != nil {
		t.Fatalf("ByID() owner error = %v", err)
	}

	_, err = f.svc.ByID(f.bob.ID, habit.ID)
	if !errors.Is(err, repository.ErrHabitNotFound) {
		t.Errorf("ByID() other owner error = %v, want ErrHabitNotFound", err)
	}

	_, err = f.svc.LogHabit(f.bob.ID, habit.ID, true, nil, "")
	if !errors.Is(err, repository.ErrHabitNotFound) {
		t.Errorf("LogHabit() other owner error = %v, want ErrHabitNotFound", err)
	}

	_, err = f.svc.Streak(f.bob.ID, habit.ID)
	if !errors.Is(err, repository.ErrHabitNotFound) {
		t.Errorf("Streak() other owner error = %v, want ErrHabitNotFound", err)
	}

	_, err = f.svc.Update(f.bob.ID, habit.ID, HabitInput{Name: "Mine now"})
	if !errors.Is(err, repository.ErrHabitNotFound) {
		t.Errorf("Update() other owner error = %v, want ErrHabitNotFound", err)
	}

	err = f.svc.Delete(f.bob.ID, habit.ID)
	if !errors.Is(err, repository.ErrHabitNotFound) {
		t.Errorf("Delete() other owner error = %v, want ErrHabitNotFound", err)
	}
}

func TestRecordTwiceSameDay(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	habit := f.create(t, f.alice, "Read")
	d := model.NewDate(2024, 1, 5)

	_, err := f.svc.LogHabit(f.alice.ID, habit.ID, true, &d, "first")
	if err != nil {
		t.Fatalf("LogHabit() error = %v", err)
	}
	log, err := f.svc.LogHabit(f.alice.ID, habit.ID, false, &d, "second")
	if err != nil {
		t.Fatalf("LogHabit() error = %v", err)
	}
	if log.Completed || log.Notes != "second" {
		t.Errorf("LogHabit() = %+v, want second write to win", log)
	}

	logs, err := f.svc.HabitLogs(f.alice.ID, habit.ID, &d, &d)
	if err != nil {
		t.Fatalf("HabitLogs() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("len(logs) = %d, want 1", len(logs))
	}
}

func TestLogHabitDefaultsToToday(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	habit := f.create(t, f.alice, "Read")

	log, err := f.svc.LogHabit(f.alice.ID, habit.ID, true, nil, "  done  ")
	if err != nil {
		t.Fatalf("LogHabit() error = %v", err)
	}
	if log.Date.String() != "2024-01-05" {
		t.Errorf("Date = %s, want 2024-01-05", log.Date)
	}
	if log.Notes != "done" {
		t.Errorf("Notes = %q, want %q", log.Notes, "done")
	}
}

func TestHabitLogsRange(t *testing.T) {
	f := newHabitFixture(t, day(2024, 3, 31))
	habit := f.create(t, f.alice, "Read")

	f.record(t, habit, "2024-02-29", true)
	f.record(t, habit, "2024-03-01", true) // 31st day counting today
	f.record(t, habit, "2024-03-02", true) // 30th day counting today
	f.record(t, habit, "2024-03-31", false)

	logs, err := f.svc.HabitLogs(f.alice.ID, habit.ID, nil, nil)
	if err != nil {
		t.Fatalf("HabitLogs() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("default window len = %d, want 2", len(logs))
	}
	if logs[0].Date.String() != "2024-03-31" {
		t.Errorf("first log = %s, want newest first", logs[0].Date)
	}
	if logs[1].Date.String() != "2024-03-02" {
		t.Errorf("oldest log = %s, want 2024-03-02", logs[1].Date)
	}

	start := model.NewDate(2024, 3, 10)
	end := model.NewDate(2024, 3, 1)
	_, err = f.svc.HabitLogs(f.alice.ID, habit.ID, &start, &end)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidDateRange", err)
	}
}

func TestStreakWithBreak(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	habit := f.create(t, f.alice, "Read")

	f.record(t, habit, "2024-01-01", true)
	f.record(t, habit, "2024-01-02", false)
	f.record(t, habit, "2024-01-03", true)
	f.record(t, habit, "2024-01-04", true)
	f.record(t, habit, "2024-01-05", true)

	if got := f.streak(t, habit); got != 3 {
		t.Errorf("Streak() = %d, want 3", got)
	}
}

func TestStreakNoLogs(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	habit := f.create(t, f.alice, "Read")

	if got := f.streak(t, habit); got != 0 {
		t.Errorf("Streak() = %d, want 0", got)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	for _, n := range []int{1, 7, 45} {
		f := newHabitFixture(t, day(2024, 3, 15))
		habit := f.create(t, f.alice, "Run")

		today := f.svc.Today()
		for i := 0; i < n; i++ {
			f.record(t, habit, today.AddDays(-i).String(), true)
		}

		if got := f.streak(t, habit); got != n {
			t.Errorf("Streak() after %d days = %d, want %d", n, got, n)
		}
	}
}

func TestStreakUnloggedGapDoesNotBreak(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 3))
	habit := f.create(t, f.alice, "Read")

	f.record(t, habit, "2024-01-01", true)
	f.record(t, habit, "2024-01-03", true)

	if got := f.streak(t, habit); got != 2 {
		t.Errorf("Streak() = %d, want 2", got)
	}
}

func TestMeditateScenario(t *testing.T) {
	f := newHabitFixture(t, day(2024, 6, 20))
	habit, err := f.svc.Create(f.alice.ID, HabitInput{Name: "Meditate", Cadence: model.CadenceDaily})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	today := f.svc.Today()
	for i := 4; i >= 0; i-- {
		f.record(t, habit, today.AddDays(-i).String(), true)
	}
	if got := f.streak(t, habit); got != 5 {
		t.Fatalf("Streak() = %d, want 5", got)
	}

	f.record(t, habit, today.AddDays(-1).String(), false)
	if got := f.streak(t, habit); got != 1 {
		t.Errorf("Streak() after break = %d, want 1", got)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 3))
	habit := f.create(t, f.alice, "Read")

	f.record(t, habit, "2024-01-02", true)
	f.record(t, habit, "2024-01-03", true)
	if got := f.streak(t, habit); got != 2 {
		t.Fatalf("Streak() = %d, want 2", got)
	}

	// A miss recorded for today only becomes a break point tomorrow.
	f.now = day(2024, 1, 4)
	f.record(t, habit, "2024-01-04", false)
	if got := f.streak(t, habit); got != 2 {
		t.Errorf("Streak() with miss today = %d, want 2", got)
	}

	f.now = day(2024, 1, 5)
	if got := f.streak(t, habit); got != 0 {
		t.Errorf("Streak() next day = %d, want 0", got)
	}
}

func TestListActive(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	first := f.create(t, f.alice, "Read")
	f.now = f.now.Add(time.Minute)
	second := f.create(t, f.alice, "Run")
	f.now = f.now.Add(time.Minute)
	paused := f.create(t, f.alice, "Paused")
	f.create(t, f.bob, "Bob's")

	_, err := f.svc.Update(f.alice.ID, paused.ID, HabitInput{Name: paused.Name, Cadence: paused.Cadence, Active: false})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	habits, err := f.svc.ListActive(f.alice.ID)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(habits) != 2 || habits[0].ID != second.ID || habits[1].ID != first.ID {
		t.Fatalf("ListActive() = %v, want [Run Read]", names(habits))
	}
	for _, h := range habits {
		if !h.Active {
			t.Errorf("ListActive() returned inactive habit %q", h.Name)
		}
	}

	err = f.svc.Delete(f.alice.ID, second.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	habits, err = f.svc.ListActive(f.alice.ID)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(habits) != 1 || habits[0].ID != first.ID {
		t.Errorf("ListActive() after delete = %v, want [Read]", names(habits))
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	habit := f.create(t, f.alice, "Read")
	at := "06:45"

	f.now = f.now.Add(time.Hour)
	updated, err := f.svc.Update(f.alice.ID, habit.ID, HabitInput{
		Name:         "Read fiction",
		Description:  "20 pages",
		Cadence:      model.CadenceWeekly,
		ReminderTime: &at,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Read fiction" || updated.Description != "20 pages" || updated.Cadence != model.CadenceWeekly {
		t.Errorf("Update() = %+v", updated)
	}
	if !updated.UpdatedAt.After(habit.UpdatedAt) {
		t.Error("UpdatedAt should advance")
	}

	_, err = f.svc.Update(f.alice.ID, habit.ID, HabitInput{Name: "Read", Cadence: "yearly"})
	if !errors.Is(err, ErrInvalidCadence) {
		t.Errorf("Update() bad cadence error = %v, want ErrInvalidCadence", err)
	}
}

func TestExportIncludesInactiveHabits(t *testing.T) {
	f := newHabitFixture(t, day(2024, 1, 5))
	active := f.create(t, f.alice, "Read")
	inactive := f.create(t, f.alice, "Old")
	_, err := f.svc.Update(f.alice.ID, inactive.ID, HabitInput{Name: "Old", Active: false})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	f.record(t, active, "2024-01-04", true)
	f.record(t, active, "2024-01-05", true)

	export, err := f.svc.Export(f.alice.ID)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(export.Habits) != 2 {
		t.Fatalf("len(Habits) = %d, want 2", len(export.Habits))
	}

	logs := 0
	for _, h := range export.Habits {
		logs += len(h.Logs)
	}
	if logs != 2 {
		t.Errorf("exported logs = %d, want 2", logs)
	}
}

func names(habits []*model.HabitSummary) []string {
	out := make([]string, 0, len(habits))
	for _, h := range habits {
		out = append(out, h.Name)
	}
	return out
}
