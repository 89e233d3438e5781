package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStderr   bool   `toml:"log_to_stderr"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	DataDir        string `toml:"data_dir"`
	StoreDriver    string `toml:"store_driver"`
	SQLitePath     string `toml:"sqlite_path"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// legacy flat storage, migrated on start
	LegacyDriver string `toml:"legacy_driver"`
	LegacyPath   string `toml:"legacy_path"`
	LegacyKey    string `toml:"legacy_key"`
	RedisHost    string `toml:"redis_host"`
	RedisPort    string `toml:"redis_port"`
	// export archive
	ArchiveDriver   string `toml:"archive_driver"`
	ArchiveDir      string `toml:"archive_dir"`
	S3Bucket        string `toml:"s3_bucket"`
	S3Region        string `toml:"s3_region"`
	S3Endpoint      string `toml:"s3_endpoint"`
	S3PathStyle     bool   `toml:"s3_path_style"`
	Timezone        string `toml:"timezone"`
	ViewCacheMB     int    `toml:"view_cache_mb"`
	MetricsTextfile string `toml:"metrics_textfile"`
	TracingEnabled  bool   `toml:"tracing_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file at path. A missing file yields
// the defaults, so the tool works without any setup.
func Load(env, path string) (*Config, error) {
	var cfg *Config
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		var t Toml
		if _, err := toml.Decode(string(content), &t); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg, err = t.Get(env)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, fmt.Errorf("config %s has no [%s] section", path, env)
		}
	case os.IsNotExist(err):
		if _, err := (&Toml{}).Get(env); err != nil {
			return nil, err
		}
		cfg = &Config{}
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, ".workoutlog")
		} else {
			c.DataDir = ".workoutlog"
		}
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "workouts.db")
	}
	if c.PostgresHost == "" {
		c.PostgresHost = "localhost"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "workoutlog"
	}
	if c.LegacyDriver == "" {
		c.LegacyDriver = "file"
	}
	if c.LegacyPath == "" {
		c.LegacyPath = filepath.Join(c.DataDir, "workouts.json")
	}
	if c.LegacyKey == "" {
		c.LegacyKey = "workouts"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.ArchiveDriver == "" {
		c.ArchiveDriver = "fs"
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = filepath.Join(c.DataDir, "exports")
	}
	if c.ViewCacheMB <= 0 {
		c.ViewCacheMB = 8
	}
}

// Location is the time zone calendar days are computed in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}
