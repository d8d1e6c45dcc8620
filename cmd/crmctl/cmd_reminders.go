package main

import (
	"context"
	"fmt"

	"formatech/internal/app"

	"github.com/spf13/cobra"
)

func runReminders(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		res, err := a.Reminders.Evaluate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fired=%d removed=%d unread=%d\n", res.Fired, res.Removed, res.Unread)
		return nil
	})
}
