package migration

import (
	"bytes"
	"context"
	"fmt"

	"github.com/2beens/workoutlog/internal/gymstats/transfer"
	"github.com/2beens/workoutlog/internal/gymstats/workouts"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// LegacyKey is the key the flat workout list was kept under before the keyed store existed.
const LegacyKey = "workouts"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=migration_test

// Source holds the legacy flat list of workouts, a single JSON array blob.
type Source interface {
	// Load returns the blob, found is false when there is nothing to migrate.
	Load(ctx context.Context) (blob []byte, found bool, err error)
	Remove(ctx context.Context) error
	Name() string
}

type workoutsStore interface {
	BulkPut(ctx context.Context, ws []workouts.Workout) error
}

// Run moves the legacy blob into the store and removes it afterwards.
// The blob stays in place unless every record was stored, so a failed run is retried on next start.
func Run(ctx context.Context, src Source, dst workoutsStore) (migrated int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "migration.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("source", src.Name()))

	blob, found, err := src.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load legacy workouts from %s: %w", src.Name(), err)
	}
	if !found {
		log.Tracef("no legacy workouts in %s", src.Name())
		return 0, nil
	}

	legacy, err := transfer.Decode(bytes.NewReader(blob))
	if err != nil {
		return 0, fmt.Errorf("decode legacy workouts: %w", err)
	}

	if len(legacy) > 0 {
		if err := dst.BulkPut(ctx, legacy); err != nil {
			return 0, fmt.Errorf("store legacy workouts: %w", err)
		}
	}

	if err := src.Remove(ctx); err != nil {
		// records are stored, upserts make the next run harmless
		log.Errorf("remove legacy workouts from %s: %s", src.Name(), err)
	}

	span.SetAttributes(attribute.Int("migrated", len(legacy)))
	log.Infof("migrated %d legacy workouts from %s", len(legacy), src.Name())

	return len(legacy), nil
}
