package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobboard-web/internal/config"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

// Connect opens the session database for backend ("postgres" or "sqlite")
// and migrates the tables the web server owns.
func Connect(backend, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch backend {
	case config.BackendPostgres:
		dialector = postgres.Open(dsn)
	case config.BackendSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("database: unsupported backend %q", backend)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", backend, err)
	}
	slog.Info("database connection established", "backend", backend)

	// Migration: creates web_sessions if it does not exist yet
	if err := db.AutoMigrate(&models.WebSession{}); err != nil {
		return nil, fmt.Errorf("database: migrate: %w", err)
	}
	return db, nil
}
