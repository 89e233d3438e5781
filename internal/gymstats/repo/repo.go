package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

// ErrUnavailable wraps every failure coming from the storage engine.
// Callers must not assume any part of a failed bulk call was applied.
var ErrUnavailable = errors.New("workout store unavailable")

var errClosed = errors.New("store closed")

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Repo is the durable keyed collection of workouts, keyed by workout ID.
type Repo interface {
	GetAll(ctx context.Context) ([]workouts.Workout, error)
	// Put inserts or replaces the workout with the same ID.
	Put(ctx context.Context, w workouts.Workout) error
	// Delete is a no-op if the ID is not stored.
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	// BulkPut writes all workouts or none of them.
	BulkPut(ctx context.Context, ws []workouts.Workout) error
	// BulkDelete removes all given IDs or none of them.
	BulkDelete(ctx context.Context, ids []int64) error
	Driver() Driver
	Close() error
}

func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
