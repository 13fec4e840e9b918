// Package migrations содержит схему БД и применяет её через goose
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Logger логгер сервиса; goose пишет через Printf/Fatalf
type Logger interface {
	goose.Logger
	Info(format string, v ...interface{})
}

// Run применяет все непримененные миграции
func Run(ctx context.Context, db *sql.DB, logger Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(logger)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info("Applying database migrations...")
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get migrations version: %w", err)
	}

	logger.Info("Migrations applied successfully: version=%d", version)
	return nil
}
