package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/selfgrowth/tracker/internal/config"
	"github.com/selfgrowth/tracker/internal/db"
	"github.com/selfgrowth/tracker/internal/reminder"
	"github.com/selfgrowth/tracker/internal/repository"
	"github.com/selfgrowth/tracker/internal/service"
	"github.com/selfgrowth/tracker/internal/storage"
	"github.com/selfgrowth/tracker/internal/websocket"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	AuthService   *service.AuthService
	EmailService  *service.EmailService
	HabitService  *service.HabitService
	ExportService *service.ExportService
	Hub           *websocket.Hub
	Reminders     *reminder.Scheduler
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return NewWithDB(cfg, database, time.Now)
}

// NewWithDB wires services around an already migrated database. now is the
// clock used for "today" in logging, streaks and reminders.
func NewWithDB(cfg *config.Config, database *sqlx.DB, now func() time.Time) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	habitLogRepository := repository.NewHabitLogRepository(database)
	reminderRepository := repository.NewReminderRepository(database)

	// Storage (optional)
	var exportStorage storage.Storage
	if cfg.StorageEnabled() {
		s, err := storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
		exportStorage = s
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
	)
	streakEngine := service.NewStreakEngine(habitLogRepository, cfg.StreakFallbackDays)
	habitService := service.NewHabitService(habitRepository, habitLogRepository, streakEngine, now)
	exportService := service.NewExportService(habitService, exportStorage)

	hub := websocket.NewHub(slog.Default())
	scheduler := reminder.NewScheduler(reminderRepository, emailService, cfg.ReminderInterval, now)

	return &App{
		Cfg:           cfg,
		DB:            database,
		AuthService:   authService,
		EmailService:  emailService,
		HabitService:  habitService,
		ExportService: exportService,
		Hub:           hub,
		Reminders:     scheduler,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
