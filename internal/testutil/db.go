// Package testutil holds shared test fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/amirasaad/bankmanager/internal/database"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	utils.HashCost = bcrypt.MinCost
}

// NewDB returns a migrated SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "bankmanager.db"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
