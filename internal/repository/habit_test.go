package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/testutil"
)

var baseTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func createHabit(t *testing.T, repo HabitRepository, userID, name string, createdAt time.Time) *model.Habit {
	t.Helper()

	habit := &model.Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Cadence:   model.CadenceDaily,
		Active:    true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	err := repo.Create(habit)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", name, err)
	}
	return habit
}

func logDay(t *testing.T, conn *sqlx.DB, habitID string, day model.Date, completed bool) *model.HabitLog {
	t.Helper()

	log, err := NewHabitLogRepository(conn).Upsert(&model.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Date:      day,
		Completed: completed,
		CreatedAt: baseTime,
	})
	if err != nil {
		t.Fatalf("Upsert(%s) error = %v", day, err)
	}
	return log
}

func TestHabitByIDOwnership(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewHabitRepository(conn)
	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")

	habit := createHabit(t, repo, alice.ID, "Read", baseTime)

	got, err := repo.ByID(alice.ID, habit.ID)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if got.Name != "Read" {
		t.Errorf("Name = %q, want %q", got.Name, "Read")
	}

	_, err = repo.ByID(bob.ID, habit.ID)
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("ByID() as other user error = %v, want ErrHabitNotFound", err)
	}

	_, err = repo.ByID(alice.ID, uuid.New().String())
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("ByID() unknown id error = %v, want ErrHabitNotFound", err)
	}
}

func TestHabitUpdateAndDeleteOwnership(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewHabitRepository(conn)
	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")

	habit := createHabit(t, repo, alice.ID, "Read", baseTime)

	stolen := *habit
	stolen.UserID = bob.ID
	stolen.Name = "Hijacked"
	err := repo.Update(&stolen)
	if !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("Update() as other user error = %v, want ErrHabitNotFound", err)
	}

	err = repo.Delete(bob.ID, habit.ID)
	if !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("Delete() as other user error = %v, want ErrHabitNotFound", err)
	}

	reminder := "07:30"
	habit.Name = "Read more"
	habit.Cadence = model.CadenceWeekly
	habit.ReminderTime = &reminder
	habit.Active = false
	err = repo.Update(habit)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.ByID(alice.ID, habit.ID)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if got.Name != "Read more" || got.Cadence != model.CadenceWeekly || got.Active {
		t.Errorf("after Update got = %+v", got)
	}
	if got.ReminderTime == nil || *got.ReminderTime != "07:30" {
		t.Errorf("ReminderTime = %v, want 07:30", got.ReminderTime)
	}

	err = repo.Delete(alice.ID, habit.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	err = repo.Delete(alice.ID, habit.ID)
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("second Delete() error = %v, want ErrHabitNotFound", err)
	}
}

func TestActiveHabits(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewHabitRepository(conn)
	alice := testutil.CreateUser(t, conn, "alice")
	bob := testutil.CreateUser(t, conn, "bob")

	older := createHabit(t, repo, alice.ID, "Read", baseTime)
	newer := createHabit(t, repo, alice.ID, "Run", baseTime.Add(time.Hour))
	paused := createHabit(t, repo, alice.ID, "Paused", baseTime.Add(2*time.Hour))
	createHabit(t, repo, bob.ID, "Bob's", baseTime)

	paused.Active = false
	err := repo.Update(paused)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	logDay(t, conn, older.ID, model.NewDate(2024, 3, 8), true)
	logDay(t, conn, older.ID, model.NewDate(2024, 3, 9), true)
	logDay(t, conn, older.ID, model.NewDate(2024, 3, 10), false)

	habits, err := repo.ActiveHabits(alice.ID)
	if err != nil {
		t.Fatalf("ActiveHabits() error = %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("len(habits) = %d, want 2", len(habits))
	}
	if habits[0].ID != newer.ID || habits[1].ID != older.ID {
		t.Errorf("order = [%s %s], want newest first", habits[0].Name, habits[1].Name)
	}

	if habits[0].CompletedCount != 0 || habits[0].LastLogDate != nil {
		t.Errorf("unlogged habit got count=%d last=%v", habits[0].CompletedCount, habits[0].LastLogDate)
	}
	if habits[1].CompletedCount != 2 {
		t.Errorf("CompletedCount = %d, want 2", habits[1].CompletedCount)
	}
	if habits[1].LastLogDate == nil || habits[1].LastLogDate.String() != "2024-03-10" {
		t.Errorf("LastLogDate = %v, want 2024-03-10", habits[1].LastLogDate)
	}
}

func TestDeleteHabitCascadesLogs(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewHabitRepository(conn)
	alice := testutil.CreateUser(t, conn, "alice")

	habit := createHabit(t, repo, alice.ID, "Read", baseTime)
	logDay(t, conn, habit.ID, model.NewDate(2024, 3, 9), true)
	logDay(t, conn, habit.ID, model.NewDate(2024, 3, 10), true)

	err := repo.Delete(alice.ID, habit.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int
	err = conn.Get(&count, `SELECT COUNT(*) FROM habit_logs WHERE habit_id = $1`, habit.ID)
	if err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 0 {
		t.Errorf("logs after delete = %d, want 0", count)
	}
}

func TestHabitStats(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewHabitRepository(conn)
	alice := testutil.CreateUser(t, conn, "alice")

	active := createHabit(t, repo, alice.ID, "Read", baseTime)
	paused := createHabit(t, repo, alice.ID, "Paused", baseTime)
	paused.Active = false
	err := repo.Update(paused)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	logDay(t, conn, active.ID, model.NewDate(2024, 3, 1), true) // outside window
	logDay(t, conn, active.ID, model.NewDate(2024, 3, 8), true)
	logDay(t, conn, active.ID, model.NewDate(2024, 3, 9), false)
	logDay(t, conn, active.ID, model.NewDate(2024, 3, 10), true)
	logDay(t, conn, active.ID, model.NewDate(2024, 3, 7), true)
	logDay(t, conn, paused.ID, model.NewDate(2024, 3, 10), false)

	stats, err := repo.Stats(alice.ID, model.NewDate(2024, 3, 4), model.NewDate(2024, 3, 10))
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalHabits != 2 || stats.ActiveHabits != 1 {
		t.Errorf("counts = %d/%d, want 2/1", stats.TotalHabits, stats.ActiveHabits)
	}
	if stats.CompletionRate != 75 {
		t.Errorf("CompletionRate = %d, want 75", stats.CompletionRate)
	}
}
