package cmd

import (
	"fmt"
	"time"

	"github.com/selfgrowth/tracker/internal/app"
	"github.com/selfgrowth/tracker/internal/config"
	"github.com/selfgrowth/tracker/internal/db"
	"github.com/spf13/cobra"
)

func StreakCmd() *cobra.Command {
	var userID, habitID string

	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Print the current streak of a habit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			streak, err := a.HabitService.Streak(userID, habitID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d days (%s)\n", streak.Days, streak.Tier)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner user ID")
	cmd.Flags().StringVar(&habitID, "habit", "", "habit ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("habit")

	return cmd
}

// openApp connects to the configured database, applies migrations and wires
// the services.
func openApp() (*app.App, error) {
	cfg := config.Load()

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, err
	}

	err = db.RunMigrations(conn.DB, cfg.DBDriver)
	if err != nil {
		db.Close(conn)
		return nil, err
	}

	a, err := app.NewWithDB(cfg, conn, time.Now)
	if err != nil {
		db.Close(conn)
		return nil, err
	}
	return a, nil
}
