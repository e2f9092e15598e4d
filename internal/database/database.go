// Package database opens the embedded SQLite database used for local runs
// and tests.
package database

import (
	"fmt"

	"github.com/amirasaad/bankmanager/infra/repository/model"
	"gorm.io/driver/sqlite" // Sqlite driver based on CGO
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens (or creates) the database file at path and migrates
// every table.
func OpenSQLite(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	connection, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}
	if err := model.AutoMigrate(connection); err != nil {
		return nil, fmt.Errorf("could not migrate the database: %w", err)
	}
	return connection, nil
}
