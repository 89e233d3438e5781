package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS workouts (
	id         INTEGER PRIMARY KEY,
	exercise   TEXT    NOT NULL,
	set_number INTEGER NOT NULL,
	reps       INTEGER NOT NULL,
	weight     REAL    NOT NULL,
	intensity  INTEGER NOT NULL,
	date       TEXT    NOT NULL
)`

const sqliteUpsert = `INSERT INTO workouts (id, exercise, set_number, reps, weight, intensity, date)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		exercise = excluded.exercise,
		set_number = excluded.set_number,
		reps = excluded.reps,
		weight = excluded.weight,
		intensity = excluded.intensity,
		date = excluded.date`

// SQLiteRepo keeps workouts in a single sqlite database file.
type SQLiteRepo struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepo(ctx context.Context, path string) (*SQLiteRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path not set", ErrUnavailable)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, unavailable("create db dir", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, unavailable("apply schema", err)
	}

	log.Debugf("sqlite workouts store opened: %s", path)

	return &SQLiteRepo{
		db:   db,
		path: path,
	}, nil
}

func (r *SQLiteRepo) GetAll(ctx context.Context) (_ []workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.getAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, exercise, set_number, reps, weight, intensity, date FROM workouts ORDER BY id`,
	)
	if err != nil {
		return nil, unavailable("get all", err)
	}
	defer rows.Close()

	var all []workouts.Workout
	for rows.Next() {
		var (
			w    workouts.Workout
			date string
		)
		if err := rows.Scan(&w.ID, &w.Exercise, &w.SetNumber, &w.Reps, &w.Weight, &w.Intensity, &date); err != nil {
			return nil, unavailable("rows scan", err)
		}
		if date != "" {
			w.Date, err = time.Parse(time.RFC3339Nano, date)
			if err != nil {
				return nil, unavailable("parse stored date", err)
			}
		}
		all = append(all, w)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("rows", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(all)))

	return all, nil
}

func (r *SQLiteRepo) Put(ctx context.Context, w workouts.Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", w.ID))

	if _, err := r.db.ExecContext(ctx, sqliteUpsert, upsertArgs(w)...); err != nil {
		return unavailable("put", err)
	}
	return nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	if _, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

func (r *SQLiteRepo) Clear(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM workouts`); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

func (r *SQLiteRepo) BulkPut(ctx context.Context, ws []workouts.Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.bulkPut")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(ws)))

	return r.inTx(ctx, "bulk put", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, w := range ws {
			if _, err := stmt.ExecContext(ctx, upsertArgs(w)...); err != nil {
				return fmt.Errorf("upsert %d: %w", w.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepo) BulkDelete(ctx context.Context, ids []int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.bulkDelete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workouts.count", len(ids)))

	return r.inTx(ctx, "bulk delete", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `DELETE FROM workouts WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, id := range ids {
			if _, err := stmt.ExecContext(ctx, id); err != nil {
				return fmt.Errorf("delete %d: %w", id, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepo) Driver() Driver {
	return DriverSQLite
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(op, fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Errorf("%s: rollback: %s", op, rollbackErr)
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = unavailable(op, fmt.Errorf("commit: %w", commitErr))
		}
	}()

	if err := fn(tx); err != nil {
		return unavailable(op, err)
	}
	return nil
}

func upsertArgs(w workouts.Workout) []any {
	date := ""
	if !w.Date.IsZero() {
		date = w.Date.UTC().Format(time.RFC3339Nano)
	}
	return []any{w.ID, w.Exercise, w.SetNumber, w.Reps, w.Weight, w.Intensity, date}
}
