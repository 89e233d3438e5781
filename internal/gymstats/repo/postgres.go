package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS workout (
	id         BIGINT PRIMARY KEY,
	exercise   TEXT NOT NULL,
	set_number INTEGER NOT NULL,
	reps       INTEGER NOT NULL,
	weight     DOUBLE PRECISION NOT NULL,
	intensity  INTEGER NOT NULL,
	date       TIMESTAMPTZ
)`

const postgresUpsert = `INSERT INTO workout (id, exercise, set_number, reps, weight, intensity, date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		exercise = EXCLUDED.exercise,
		set_number = EXCLUDED.set_number,
		reps = EXCLUDED.reps,
		weight = EXCLUDED.weight,
		intensity = EXCLUDED.intensity,
		date = EXCLUDED.date`

type PostgresRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepo makes sure the workout table exists and returns a repo using the given pool.
// The pool is owned by the repo and closed with it.
func NewPostgresRepo(ctx context.Context, db *pgxpool.Pool) (*PostgresRepo, error) {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, unavailable("apply schema", err)
	}
	return &PostgresRepo{
		db: db,
	}, nil
}

func (r *PostgresRepo) GetAll(ctx context.Context) (_ []workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.postgres.getAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise, set_number, reps, weight, intensity, date FROM workout ORDER BY id`,
	)
	if err != nil {
		return nil, unavailable("get all", err)
	}
	defer rows.Close()

	var all []workouts.Workout
	for rows.Next() {
		var w workouts.Workout
		var date *time.Time
		if err := rows.Scan(&w.ID, &w.Exercise, &w.SetNumber, &w.Reps, &w.Weight, &w.Intensity, &date); err != nil {
			return nil, unavailable("rows scan", err)
		}
		if date != nil {
			w.Date = *date
		}
		all = append(all, w)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("rows", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(all)))

	return all, nil
}

func (r *PostgresRepo) Put(ctx context.Context, w workouts.Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.postgres.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", w.ID))

	if _, err := r.db.Exec(ctx, postgresUpsert, pgUpsertArgs(w)...); err != nil {
		return unavailable("put", err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.postgres.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	if _, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1`, id); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

func (r *PostgresRepo) Clear(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.postgres.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, `DELETE FROM workout`); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

func (r *PostgresRepo) BulkPut(ctx context.Context, ws []workouts.Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.postgres.bulkPut")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(ws)))

	batch := &pgx.Batch{}
	for _, w := range ws {
		batch.Queue(postgresUpsert, pgUpsertArgs(w)...)
	}
	return r.sendBatch(ctx, "bulk put", batch)
}

func (r *PostgresRepo) BulkDelete(ctx context.Context, ids []int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.postgres.bulkDelete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(ids)))

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`DELETE FROM workout WHERE id = $1`, id)
	}
	return r.sendBatch(ctx, "bulk delete", batch)
}

func (r *PostgresRepo) Driver() Driver {
	return DriverPostgres
}

func (r *PostgresRepo) Close() error {
	r.db.Close()
	return nil
}

// sendBatch runs the whole batch in one transaction.
func (r *PostgresRepo) sendBatch(ctx context.Context, op string, batch *pgx.Batch) (err error) {
	if batch.Len() == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return unavailable(op, fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else if commitErr := tx.Commit(ctx); commitErr != nil {
			err = unavailable(op, fmt.Errorf("commit: %w", commitErr))
		}
	}()

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := results.Exec(); execErr != nil {
			_ = results.Close()
			return unavailable(op, fmt.Errorf("batch item %d: %w", i, execErr))
		}
	}
	if err := results.Close(); err != nil {
		return unavailable(op, fmt.Errorf("close batch: %w", err))
	}

	return nil
}

func pgUpsertArgs(w workouts.Workout) []any {
	var date *time.Time
	if !w.Date.IsZero() {
		utc := w.Date.UTC()
		date = &utc
	}
	return []any{w.ID, w.Exercise, w.SetNumber, w.Reps, w.Weight, w.Intensity, date}
}
