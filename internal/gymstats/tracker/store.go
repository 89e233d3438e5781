package tracker

import (
	"context"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracker_test

type workoutsStore interface {
	GetAll(ctx context.Context) ([]workouts.Workout, error)
	Put(ctx context.Context, w workouts.Workout) error
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	BulkPut(ctx context.Context, ws []workouts.Workout) error
	BulkDelete(ctx context.Context, ids []int64) error
}
