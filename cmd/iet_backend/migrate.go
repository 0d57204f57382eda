package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/migrations"
	"github.com/SscSPs/income_expense_tracker/internal/platform/config"
	"github.com/SscSPs/income_expense_tracker/pkg/database"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := migrations.ParseDirection(args[0])
			if err != nil {
				return err
			}
			logger.Info("Running migrations", slog.String("driver", cfg.DBDriver), slog.String("direction", args[0]))

			switch cfg.DBDriver {
			case config.DriverPostgres:
				return migrations.RunPostgres(cfg.DatabaseURL, dir, logger)
			case config.DriverSQLite:
				// Creates the directory and file if needed.
				db, err := database.NewSQLiteDB(cmd.Context(), cfg.SQLitePath, logger)
				if err != nil {
					return err
				}
				_ = db.Close()
				return migrations.RunSQLite(cfg.SQLitePath, dir, logger)
			}
			return fmt.Errorf("driver %q has no schema to migrate", cfg.DBDriver)
		},
	}
}
