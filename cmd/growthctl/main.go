package main

import (
	"os"

	"github.com/selfgrowth/tracker/cmd/growthctl/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "growthctl",
		Short:        "Operational tools for the growth tracker",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.StreakCmd())
	rootCmd.AddCommand(cmd.RemindCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
