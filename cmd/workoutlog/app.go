package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/blob"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/gymstats/migration"
	"github.com/2beens/workoutlog/internal/gymstats/repo"
	"github.com/2beens/workoutlog/internal/gymstats/stats"
	"github.com/2beens/workoutlog/internal/gymstats/tracker"
	"github.com/2beens/workoutlog/internal/gymstats/workouts"
	"github.com/2beens/workoutlog/internal/logging"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// app holds everything a single command invocation needs.
type app struct {
	cfg          *config.Config
	loc          *time.Location
	repo         repo.Repo
	tracker      *tracker.Tracker
	archive      blob.Store
	promRegistry *prometheus.Registry
	closers      []func() error
}

func (a *app) boot(ctx context.Context, env, configPath string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	sentryDSN := ""
	if cfg.SentryEnabled {
		if sentryDSN = os.Getenv("SENTRY_DSN"); sentryDSN == "" {
			log.Warnln("sentry enabled but SENTRY_DSN env var not set")
		}
	}
	flushLogs, err := logging.Setup(logging.Params{
		Level:            cfg.LogLevel,
		JSON:             cfg.LogFormatJSON,
		File:             cfg.LogsPath,
		TeeStderr:        cfg.LogToStderr,
		Environment:      cfg.Environment,
		SentryDSN:        sentryDSN,
		SentryServerName: "workoutlog-cli",
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	a.closers = append(a.closers, func() error {
		flushLogs()
		return nil
	})

	otelShutdown, err := tracing.HoneycombSetup(cfg.TracingEnabled, "workoutlog")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	a.closers = append(a.closers, func() error {
		otelShutdown()
		return nil
	})

	a.loc, err = cfg.Location()
	if err != nil {
		return err
	}

	a.promRegistry = metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("workoutlog", "cli", a.promRegistry)

	a.repo, err = repo.Open(ctx, repo.OpenParams{
		Driver:         repo.Driver(cfg.StoreDriver),
		SQLitePath:     cfg.SQLitePath,
		PostgresHost:   cfg.PostgresHost,
		PostgresPort:   cfg.PostgresPort,
		PostgresDBName: cfg.PostgresDBName,
		TracingEnabled: cfg.TracingEnabled,
		PromRegistry:   a.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("open workouts store: %w", err)
	}
	a.closers = append(a.closers, a.repo.Close)
	log.Debugf("using %s workouts store", a.repo.Driver())

	legacy, err := a.legacySource()
	if err != nil {
		return err
	}
	migrated, err := migration.Run(ctx, legacy, a.repo)
	if err != nil {
		// the legacy data stays where it is, the next start retries
		log.Errorf("migrate legacy workouts: %s", err)
	} else if migrated > 0 {
		metricsManager.CounterWorkoutsMigrated.Add(float64(migrated))
	}

	a.tracker = tracker.New(tracker.Params{
		Store:       a.repo,
		Analyzer:    stats.NewAnalyzer(a.loc),
		Metrics:     metricsManager,
		CacheSizeMB: cfg.ViewCacheMB,
	})
	if err := a.tracker.Load(ctx); err != nil {
		return err
	}

	return nil
}

func (a *app) legacySource() (migration.Source, error) {
	switch strings.ToLower(a.cfg.LegacyDriver) {
	case "none":
		return migration.NoSource{}, nil
	case "file":
		return migration.NewFileSource(a.cfg.LegacyPath), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(a.cfg.RedisHost, a.cfg.RedisPort),
			Password: os.Getenv("WORKOUTLOG_REDIS_PASS"),
			DB:       0, // use default DB
		})
		if a.cfg.TracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}
		a.closers = append(a.closers, rdb.Close)
		return migration.NewRedisSource(rdb, a.cfg.LegacyKey), nil
	default:
		return nil, fmt.Errorf("unknown legacy driver: %s", a.cfg.LegacyDriver)
	}
}

// archiveStore is opened lazily, only exports need it.
func (a *app) archiveStore(ctx context.Context) (blob.Store, error) {
	if a.archive != nil {
		return a.archive, nil
	}
	archive, err := blob.Open(ctx, blob.OpenParams{
		Driver:     blob.Driver(a.cfg.ArchiveDriver),
		Dir:        a.cfg.ArchiveDir,
		S3Bucket:   a.cfg.S3Bucket,
		S3Region:   a.cfg.S3Region,
		S3Endpoint: a.cfg.S3Endpoint,
		PathStyle:  a.cfg.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("open export archive: %w", err)
	}
	a.archive = archive
	return archive, nil
}

func (a *app) close() error {
	var err error
	if a.cfg != nil && a.promRegistry != nil {
		err = multierr.Append(err, metrics.WriteTextfile(a.cfg.MetricsTextfile, a.promRegistry))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}

func parseDay(value string, loc *time.Location, now time.Time) (workouts.Day, error) {
	switch strings.ToLower(value) {
	case "", "today":
		return workouts.DayOf(now, loc), nil
	case "yesterday":
		return workouts.DayOf(now, loc).AddDays(-1), nil
	}
	d, err := workouts.ParseDay(value)
	if err != nil {
		return workouts.Day{}, errors.New("day must be today, yesterday or YYYY-MM-DD")
	}
	return d, nil
}
