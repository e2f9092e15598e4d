package initializer

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/infra/archive"
	infracache "github.com/amirasaad/bankmanager/infra/cache"
	"github.com/amirasaad/bankmanager/infra/lock"
	infranotification "github.com/amirasaad/bankmanager/infra/notification"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDependencies_LocalFallbacks(t *testing.T) {
	cfg := &config.App{
		Env:          "test",
		Log:          &config.Log{Format: "text"},
		DB:           &config.DB{Url: "sqlite://" + filepath.Join(t.TempDir(), "app.db")},
		Redis:        &config.Redis{},
		Archive:      &config.Archive{},
		Notification: &config.Notification{},
	}
	deps, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, deps.Close()) })

	assert.IsType(t, &archive.MemoryStore{}, deps.ArchiveStore)
	assert.IsType(t, &lock.Memory{}, deps.Locker)
	assert.IsType(t, &infranotification.LogNotifier{}, deps.Notifier)

	_, err = deps.Uow.AccountRepository()
	assert.NoError(t, err)
}

func TestInitializeDependencies_CachedCloudArchive(t *testing.T) {
	cfg := &config.App{
		Env:          "test",
		Log:          &config.Log{Format: "text"},
		DB:           &config.DB{Url: "sqlite://" + filepath.Join(t.TempDir(), "app.db")},
		Redis:        &config.Redis{},
		Archive:      &config.Archive{URL: "https://archive.example.com", CacheTTL: time.Minute},
		Notification: &config.Notification{},
	}
	deps, err := InitializeDependencies(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, deps.Close()) })

	store, ok := deps.ArchiveStore.(*infracache.ArchiveStore)
	require.True(t, ok)
	assert.IsType(t, &archive.CloudStore{}, store.Store)
}

func TestInitializeDependencies_Errors(t *testing.T) {
	_, err := InitializeDependencies(&config.App{Log: &config.Log{}, DB: &config.DB{}})
	assert.EqualError(t, err, "DATABASE_URL is not set")

	_, err = InitializeDependencies(&config.App{
		Log:   &config.Log{},
		DB:    &config.DB{Url: "sqlite://" + filepath.Join(t.TempDir(), "app.db")},
		Redis: &config.Redis{URL: "not a url"},
	})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &config.Log{Format: "json", Prefix: "[test]"}).Info("hello", "numero_compte", "C00000001")
	assert.Contains(t, buf.String(), `"numero_compte":"C00000001"`)

	buf.Reset()
	newLogger(&buf, nil).Debug("hidden")
	assert.Empty(t, buf.String())
}
