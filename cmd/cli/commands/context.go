package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/Navy-M/Web-Exams-sub000/internal/config"
	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
	"github.com/Navy-M/Web-Exams-sub000/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	// Postgres is set only when the config points at a database; migrate and import need it
	Postgres *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}
