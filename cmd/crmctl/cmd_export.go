package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"formatech/internal/app"
	"formatech/internal/modules/deals"

	"github.com/spf13/cobra"
)

func runExport(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		switch args[0] {
		case "deals":
			return a.Export.ExportDeals(ctx, deals.ListDealsQuery{Stage: dealStage}, w)
		case "contacts":
			return a.Export.ExportContacts(ctx, w)
		case "companies":
			return a.Export.ExportCompanies(ctx, w)
		}
		return fmt.Errorf("unknown export %q", args[0])
	})
}
