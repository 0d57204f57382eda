package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/memory"
	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/migrations"
	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/pgsql"
	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/sqlite"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/income_expense_tracker/internal/platform/config"
	"github.com/SscSPs/income_expense_tracker/pkg/database"
)

// openStore connects the configured backend and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if err := migrations.RunPostgres(cfg.DatabaseURL, migrations.Up, logger); err != nil {
			return nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return pgsql.NewStore(pool), nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunSQLite(cfg.SQLitePath, migrations.Up, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlite.NewStore(db), nil

	case config.DriverMemory:
		logger.Warn("Using the in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}
