package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Navy-M/Web-Exams-sub000/internal/config"
	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
	"github.com/Navy-M/Web-Exams-sub000/pkg/postgres"
)

// OpenStore connects to the configured upstream store. DatabaseURL takes
// precedence over SnapshotPath. The returned *postgres.DB is nil for snapshots.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Database, *postgres.DB, error) {
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to postgres")
		pg, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return pg, pg, nil
	}

	logger.Info("Loading snapshot", zap.String("path", cfg.SnapshotPath))
	snapshot, err := db.LoadSnapshotDB(cfg.SnapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snapshot, nil, nil
}

// requirePostgres returns the postgres store or an error naming the command that needs it
func requirePostgres(app *AppContext, command string) (*postgres.DB, error) {
	if app.Postgres == nil {
		return nil, fmt.Errorf("%s requires databaseURL to be configured", command)
	}
	return app.Postgres, nil
}
