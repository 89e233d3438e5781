package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/workoutlog/internal/db"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type OpenParams struct {
	Driver         Driver
	SQLitePath     string
	PostgresHost   string
	PostgresPort   string
	PostgresDBName string
	TracingEnabled bool
	// PromRegistry, when set, gets the postgres pool stats collector registered.
	PromRegistry prometheus.Registerer
}

// Open selects and opens the store implementation named by params.Driver.
func Open(ctx context.Context, params OpenParams) (Repo, error) {
	switch Driver(strings.ToLower(string(params.Driver))) {
	case DriverMemory:
		return NewMemoryRepo(), nil
	case DriverSQLite, "":
		return NewSQLiteRepo(ctx, params.SQLitePath)
	case DriverPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         params.PostgresHost,
			DBPort:         params.PostgresPort,
			DBName:         params.PostgresDBName,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, unavailable("new db pool", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, unavailable("ping db", err)
		}

		if params.PromRegistry != nil {
			collector := pgxpoolprometheus.NewCollector(
				dbPool,
				map[string]string{"db_name": params.PostgresDBName},
			)
			if err := params.PromRegistry.Register(collector); err != nil {
				log.Errorf("register pgxpool collector: %s", err)
			}
		}

		r, err := NewPostgresRepo(ctx, dbPool)
		if err != nil {
			dbPool.Close()
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", params.Driver)
	}
}
