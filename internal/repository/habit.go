package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/selfgrowth/tracker/internal/model"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

type HabitRepository interface {
	Create(habit *model.Habit) error
	ByID(userID, habitID string) (*model.Habit, error)
	ActiveHabits(userID string) ([]*model.HabitSummary, error)
	Habits(userID string) ([]*model.Habit, error)
	Update(habit *model.Habit) error
	Delete(userID, habitID string) error
	Stats(userID string, from, to model.Date) (*model.HabitStats, error)
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(habit *model.Habit) error {
	query := `INSERT INTO habits (id, user_id, name, description, cadence, reminder_time, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Description,
		habit.Cadence,
		habit.ReminderTime,
		habit.Active,
		habit.CreatedAt,
		habit.UpdatedAt,
	)

	return err
}

// ByID returns ErrHabitNotFound both for missing habits and for habits owned by
// someone else.
func (r *habitRepository) ByID(userID, habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`

	err := r.db.Get(habit, query, habitID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}

	return habit, nil
}

func (r *habitRepository) ActiveHabits(userID string) ([]*model.HabitSummary, error) {
	habits := []*model.HabitSummary{}
	query := `SELECT h.*,
	                 COUNT(hl.id) FILTER (WHERE hl.completed = true) AS completed_count,
	                 MAX(hl.date) AS last_log_date
	          FROM habits h
	          LEFT JOIN habit_logs hl ON hl.habit_id = h.id
	          WHERE h.user_id = $1 AND h.active = true
	          GROUP BY h.id
	          ORDER BY h.created_at DESC`

	err := r.db.Select(&habits, query, userID)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

// Habits returns every habit of the user, inactive ones included.
func (r *habitRepository) Habits(userID string) ([]*model.Habit, error) {
	habits := []*model.Habit{}
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&habits, query, userID)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) Update(habit *model.Habit) error {
	query := `UPDATE habits
	          SET name = $1, description = $2, cadence = $3, reminder_time = $4, active = $5, updated_at = $6
	          WHERE id = $7 AND user_id = $8`

	result, err := r.db.Exec(query,
		habit.Name,
		habit.Description,
		habit.Cadence,
		habit.ReminderTime,
		habit.Active,
		habit.UpdatedAt,
		habit.ID,
		habit.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) Delete(userID, habitID string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, habitID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}

// Stats counts the user's habits and the completion rate of active habits'
// logs dated within [from, to].
func (r *habitRepository) Stats(userID string, from, to model.Date) (*model.HabitStats, error) {
	stats := &model.HabitStats{}

	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE active = true) FROM habits WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&stats.TotalHabits, &stats.ActiveHabits)
	if err != nil {
		return nil, err
	}

	var completed, total int
	query = `SELECT COUNT(hl.id) FILTER (WHERE hl.completed = true), COUNT(hl.id)
	         FROM habits h
	         JOIN habit_logs hl ON hl.habit_id = h.id
	         WHERE h.user_id = $1 AND h.active = true AND hl.date >= $2 AND hl.date <= $3`
	err = r.db.QueryRow(query, userID, from, to).Scan(&completed, &total)
	if err != nil {
		return nil, err
	}

	if total > 0 {
		stats.CompletionRate = completed * 100 / total
	}

	return stats, nil
}
