package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func RemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send reminders that are due right now, once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			sent := a.Reminders.Tick(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "==> %d reminders sent\n", sent)
			return nil
		},
	}
}
