package main

import (
	"context"
	"fmt"

	"formatech/internal/app"
	"formatech/internal/config"
	"formatech/internal/database"
	"formatech/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg *config.Config

	databaseURL string
	outputPath  string
	dealStage   string

	rootCmd = &cobra.Command{
		Use:           "crmctl",
		Short:         "Maintenance commands for the Formatech CRM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if databaseURL != "" {
				loaded.DatabaseURL = databaseURL
			}
			cfg = loaded
			logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load a small sample dataset into an empty database",
		Args:  cobra.NoArgs,
		RunE:  runSeed, // cmd_seed.go
	}

	remindersCmd = &cobra.Command{
		Use:   "reminders",
		Short: "Evaluate the reminder rules once and print the outcome",
		Args:  cobra.NoArgs,
		RunE:  runReminders, // cmd_reminders.go
	}

	exportCmd = &cobra.Command{
		Use:       "export [deals|contacts|companies]",
		Short:     "Write a CSV export to a file or stdout",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"deals", "contacts", "companies"},
		RunE:      runExport, // cmd_export.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "override DATABASE_URL")

	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (defaults to stdout)")
	exportCmd.Flags().StringVar(&dealStage, "stage", "", "only export deals in this stage")

	rootCmd.AddCommand(migrateCmd, seedCmd, remindersCmd, exportCmd)
}

// withApp opens and migrates the database, wires the services and
// releases everything once fn returns.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)

	a, err := app.New(cfg, db)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func openDB() (*gorm.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close(db)
	fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return nil
}
