// Package app opens the task store selected by the configuration.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"tasklist/internal/config"
	"tasklist/internal/db"
	"tasklist/pkg/task"
)

// OpenStore opens the configured backend. Relational backends get their
// table created and, when empty, the legacy JSON file imported.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (task.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return task.OpenFileStore(cfg.Store.Path, task.FileStoreOptions{
			Strict: cfg.Store.Strict,
			Logger: logger,
		})

	case config.BackendSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		s := task.NewSQLiteStore(conn)
		if err := s.EnsureTable(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("ensure tasks table: %w", err)
		}
		return migrated(ctx, s, cfg, logger)

	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := task.NewPgStore(pool)
		if err := s.EnsureTable(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("ensure tasks table: %w", err)
		}
		return migrated(ctx, s, cfg, logger)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func migrated(ctx context.Context, s task.Store, cfg *config.Config, logger *log.Logger) (task.Store, error) {
	stats, err := task.Migrate(ctx, s, cfg.Migration.LegacyPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.Migration.LegacyPath, err)
	}
	LogMigration(logger, cfg.Migration.LegacyPath, stats)
	return s, nil
}

// LogMigration reports the outcome of a legacy import.
func LogMigration(logger *log.Logger, path string, stats *task.MigrationStats) {
	if !stats.Ran {
		logger.Debug("legacy migration not needed", "path", path)
		return
	}
	logger.Info("migrated legacy tasks",
		"path", path,
		"total", stats.Total,
		"migrated", stats.Migrated,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"took", stats.EndTime.Sub(stats.StartTime))
	for _, e := range stats.Errors {
		logger.Warn("legacy entry not imported", "reason", e)
	}
}
