package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/workoutlog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[development]
log_level = "debug"
log_to_stderr = true
data_dir = "/tmp/workoutlog-dev"
store_driver = "memory"
timezone = "Europe/Belgrade"

[production]
log_level = "info"
logs_path = "/var/log/workoutlog"
store_driver = "postgres"
postgres_host = "db.local"
legacy_driver = "redis"
archive_driver = "s3"
s3_bucket = "workout-exports"
sentry_enabled = true
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := config.Load("dev", writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogToStderr)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, filepath.Join("/tmp/workoutlog-dev", "workouts.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join("/tmp/workoutlog-dev", "workouts.json"), cfg.LegacyPath)
	assert.Equal(t, filepath.Join("/tmp/workoutlog-dev", "exports"), cfg.ArchiveDir)
	assert.Equal(t, "file", cfg.LegacyDriver)
	assert.Equal(t, 8, cfg.ViewCacheMB)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Belgrade", loc.String())
}

func TestLoad_Production(t *testing.T) {
	cfg, err := config.Load("production", writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "db.local", cfg.PostgresHost)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, "workoutlog", cfg.PostgresDBName)
	assert.Equal(t, "redis", cfg.LegacyDriver)
	assert.Equal(t, "workouts", cfg.LegacyKey)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "s3", cfg.ArchiveDriver)
	assert.Equal(t, "workout-exports", cfg.S3Bucket)
	assert.True(t, cfg.SentryEnabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load("staging", writeConfig(t))
	assert.Error(t, err)

	broken := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[development\nlog_level = "), 0o600))
	_, err = config.Load("dev", broken)
	assert.Error(t, err)

	onlyDev := filepath.Join(t.TempDir(), "dev.toml")
	require.NoError(t, os.WriteFile(onlyDev, []byte("[development]\nlog_level = \"warn\"\n"), 0o600))
	_, err = config.Load("prod", onlyDev)
	assert.Error(t, err)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load("development", filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "fs", cfg.ArchiveDriver)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)

	_, err = config.Load("qa", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
