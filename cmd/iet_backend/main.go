package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/income_expense_tracker/internal/platform/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// @title Income Expense Tracker API
// @version 1.0
// @description Personal income and expense ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth

var (
	cfg    *config.Config
	logger *slog.Logger
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "iet_backend",
		Short:             "Income and expense tracker backend",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	// Empty defaults so environment values win unless a flag is given.
	root.PersistentFlags().String("port", "", "HTTP port (env PORT)")
	root.PersistentFlags().String("db-driver", "", "postgres, sqlite or memory (env DB_DRIVER)")
	root.PersistentFlags().String("database-url", "", "Postgres connection URL (env DATABASE_URL)")
	root.PersistentFlags().String("sqlite-path", "", "SQLite database file (env SQLITE_PATH)")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(hashPasswordCmd())
	return root
}

func initConfig(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"PORT":         "port",
		"DB_DRIVER":    "db-driver",
		"DATABASE_URL": "database-url",
		"SQLITE_PATH":  "sqlite-path",
		"LOG_LEVEL":    "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	loaded, err := config.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
