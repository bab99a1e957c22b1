package cmd

import (
	"database/sql"
	"fmt"

	"github.com/selfgrowth/tracker/internal/config"
	"github.com/selfgrowth/tracker/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, db.MigrateDown)
		},
	})

	return cmd
}

func migrate(cmd *cobra.Command, run func(conn *sql.DB, driver string) error) error {
	cfg := config.Load()

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	err = run(conn.DB, cfg.DBDriver)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "==> migrate %s done (%s)\n", cmd.Name(), cfg.DBDriver)
	return nil
}
