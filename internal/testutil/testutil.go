package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/selfgrowth/tracker/internal/db"
	"github.com/selfgrowth/tracker/internal/model"
)

// NewDB opens a migrated SQLite database in a per-test temp directory.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := db.Init("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	err = db.RunMigrations(conn.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return conn
}

// CreateUser inserts a user directly and returns it.
func CreateUser(t *testing.T, conn *sqlx.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC(),
	}

	_, err := conn.Exec(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}

	return user
}

// Clock returns a fixed-time clock for services that take one.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
