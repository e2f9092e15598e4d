package infra

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/internal/database"
	"github.com/amirasaad/bankmanager/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// NewDBConnection opens the database named by cfg.Url. URLs starting with
// sqlite:// open a SQLite file, migrated on open; anything else is a
// PostgreSQL DSN.
func NewDBConnection(
	cfg *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	databaseUrl := cfg.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	if IsSQLite(databaseUrl) {
		return database.OpenSQLite(strings.TrimPrefix(databaseUrl, sqlitePrefix), logMode)
	}
	connection, err := gorm.Open(postgres.Open(databaseUrl), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// IsSQLite reports whether url selects the SQLite driver.
func IsSQLite(url string) bool {
	return strings.HasPrefix(url, sqlitePrefix)
}
