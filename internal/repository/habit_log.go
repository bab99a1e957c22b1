package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/selfgrowth/tracker/internal/model"
)

// earliestDate stands in for "no break point" in the streak query.
var earliestDate = model.NewDate(1, 1, 1)

type HabitLogRepository interface {
	Upsert(log *model.HabitLog) (*model.HabitLog, error)
	Logs(habitID string, start, end model.Date) ([]*model.HabitLog, error)
	AllLogs(habitID string) ([]*model.HabitLog, error)
	CountSinceBreak(habitID string, today model.Date) (int, error)
	CountCompletedSince(habitID string, since, today model.Date) (int, error)
}

type habitLogRepository struct {
	db *sqlx.DB
}

func NewHabitLogRepository(db *sqlx.DB) HabitLogRepository {
	return &habitLogRepository{db: db}
}

// Upsert inserts the log or, when one already exists for (habit_id, date),
// overwrites its completed flag and notes. The stored row is returned; on
// conflict it keeps the original id and created_at.
func (r *habitLogRepository) Upsert(log *model.HabitLog) (*model.HabitLog, error) {
	stored := &model.HabitLog{}
	query := `INSERT INTO habit_logs (id, habit_id, date, completed, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (habit_id, date)
	          DO UPDATE SET completed = excluded.completed, notes = excluded.notes
	          RETURNING *`

	err := r.db.Get(stored, query,
		log.ID,
		log.HabitID,
		log.Date,
		log.Completed,
		log.Notes,
		log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *habitLogRepository) Logs(habitID string, start, end model.Date) ([]*model.HabitLog, error) {
	logs := []*model.HabitLog{}
	query := `SELECT * FROM habit_logs
	          WHERE habit_id = $1 AND date >= $2 AND date <= $3
	          ORDER BY date DESC`

	err := r.db.Select(&logs, query, habitID, start, end)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *habitLogRepository) AllLogs(habitID string) ([]*model.HabitLog, error) {
	logs := []*model.HabitLog{}
	query := `SELECT * FROM habit_logs WHERE habit_id = $1 ORDER BY date ASC`

	err := r.db.Select(&logs, query, habitID)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// CountSinceBreak counts completed logs after the most recent not-completed
// log dated before today, up to and including today. Days with no log at all
// do not break the run.
func (r *habitLogRepository) CountSinceBreak(habitID string, today model.Date) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM habit_logs
	          WHERE habit_id = $1
	            AND completed = true
	            AND date > COALESCE(
	                (SELECT MAX(date) FROM habit_logs
	                 WHERE habit_id = $1 AND completed = false AND date < $2),
	                $3)
	            AND date <= $2`

	err := r.db.QueryRow(query, habitID, today, earliestDate).Scan(&count)
	return count, err
}

func (r *habitLogRepository) CountCompletedSince(habitID string, since, today model.Date) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM habit_logs
	          WHERE habit_id = $1 AND completed = true AND date >= $2 AND date <= $3`

	err := r.db.QueryRow(query, habitID, since, today).Scan(&count)
	return count, err
}
