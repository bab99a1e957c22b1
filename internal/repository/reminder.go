package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/selfgrowth/tracker/internal/model"
)

// DueReminder is an active habit whose reminder fires now, joined with its owner.
type DueReminder struct {
	HabitID   string `db:"habit_id"`
	HabitName string `db:"habit_name"`
	Cadence   string `db:"cadence"`
	UserID    string `db:"user_id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
}

type ReminderRepository interface {
	DueReminders(clock string, day model.Date) ([]*DueReminder, error)
	ClaimDelivery(habitID string, day model.Date, sentAt time.Time) (bool, error)
}

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

// DueReminders lists active habits whose reminder_time (HH:MM) is at or before
// clock and that are neither completed nor reminded for day yet. A tick that
// runs late still picks up reminders it missed earlier in the day.
func (r *reminderRepository) DueReminders(clock string, day model.Date) ([]*DueReminder, error) {
	due := []*DueReminder{}
	query := `SELECT h.id AS habit_id, h.name AS habit_name, h.cadence, u.id AS user_id, u.username, u.email
	          FROM habits h
	          JOIN users u ON u.id = h.user_id
	          WHERE h.active = true
	            AND h.reminder_time <= $1
	            AND NOT EXISTS (
	                SELECT 1 FROM habit_logs hl
	                WHERE hl.habit_id = h.id AND hl.date = $2 AND hl.completed = true)
	            AND NOT EXISTS (
	                SELECT 1 FROM reminder_deliveries rd
	                WHERE rd.habit_id = h.id AND rd.date = $2)
	          ORDER BY h.created_at ASC`

	err := r.db.Select(&due, query, clock, day)
	if err != nil {
		return nil, err
	}

	return due, nil
}

// ClaimDelivery records that the reminder for (habitID, day) is being sent.
// It reports false when another worker already claimed it.
func (r *reminderRepository) ClaimDelivery(habitID string, day model.Date, sentAt time.Time) (bool, error) {
	query := `INSERT INTO reminder_deliveries (habit_id, date, sent_at) VALUES ($1, $2, $3)
	          ON CONFLICT (habit_id, date) DO NOTHING`

	result, err := r.db.Exec(query, habitID, day, sentAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}
