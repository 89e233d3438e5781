package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	workouts map[int64]workouts.Workout
	closed   bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		workouts: make(map[int64]workouts.Workout),
	}
}

func (r *MemoryRepo) GetAll(ctx context.Context) ([]workouts.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx, "get all"); err != nil {
		return nil, err
	}

	all := make([]workouts.Workout, 0, len(r.workouts))
	for _, w := range r.workouts {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *MemoryRepo) Put(ctx context.Context, w workouts.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx, "put"); err != nil {
		return err
	}
	r.workouts[w.ID] = w
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx, "delete"); err != nil {
		return err
	}
	delete(r.workouts, id)
	return nil
}

func (r *MemoryRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx, "clear"); err != nil {
		return err
	}
	r.workouts = make(map[int64]workouts.Workout)
	return nil
}

func (r *MemoryRepo) BulkPut(ctx context.Context, ws []workouts.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx, "bulk put"); err != nil {
		return err
	}
	for _, w := range ws {
		r.workouts[w.ID] = w
	}
	return nil
}

func (r *MemoryRepo) BulkDelete(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(ctx, "bulk delete"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(r.workouts, id)
	}
	return nil
}

func (r *MemoryRepo) Driver() Driver {
	return DriverMemory
}

func (r *MemoryRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *MemoryRepo) check(ctx context.Context, op string) error {
	if r.closed {
		return unavailable(op, errClosed)
	}
	return unavailable(op, ctx.Err())
}
