package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/blob"
	"github.com/2beens/workoutlog/internal/gymstats/stats"
	"github.com/2beens/workoutlog/internal/gymstats/transfer"
	"github.com/2beens/workoutlog/internal/gymstats/workouts"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const megabyte = 1024 * 1024

// Tracker owns the in-memory workout collection and keeps it in line with the store.
// Every mutation goes to the store first, memory is only patched once the store confirmed it.
// Calls are serialized, one action completes before the next one starts.
type Tracker struct {
	mu       sync.Mutex
	store    workoutsStore
	analyzer *stats.Analyzer
	metrics  *metrics.Manager
	cache    *freecache.Cache
	now      func() time.Time

	// workouts is kept in canonical order
	workouts []workouts.Workout
	lastID   int64
	revision uint64
}

type Params struct {
	Store    workoutsStore
	Analyzer *stats.Analyzer
	Metrics  *metrics.Manager
	// CacheSizeMB sizes the cache for derived views.
	CacheSizeMB int
	Now         func() time.Time
}

func New(params Params) *Tracker {
	analyzer := params.Analyzer
	if analyzer == nil {
		analyzer = stats.NewAnalyzer(time.Local)
	}
	metricsManager := params.Metrics
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	cacheSize := params.CacheSizeMB * megabyte
	if cacheSize <= 0 {
		cacheSize = 4 * megabyte
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Tracker{
		store:    params.Store,
		analyzer: analyzer,
		metrics:  metricsManager,
		cache:    freecache.NewCache(cacheSize),
		now:      now,
	}
}

// Load replaces the in-memory collection with the store contents.
func (t *Tracker) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	var all []workouts.Workout
	err = t.storeOp("get_all", func() error {
		var getErr error
		all, getErr = t.store.GetAll(ctx)
		return getErr
	})
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}

	t.workouts = t.analyzer.Sort(all)
	t.lastID = 0
	for _, w := range t.workouts {
		t.lastID = max(t.lastID, w.ID)
	}
	t.changed()

	span.SetAttributes(attribute.Int("workouts.count", len(all)))
	log.Debugf("loaded %d workouts", len(all))

	return nil
}

// Log records a new set. The set number is derived from the sets already logged
// for the same exercise on the same day.
func (t *Tracker) Log(ctx context.Context, entry workouts.Entry) (_ workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := entry.Validate(); err != nil {
		return workouts.Workout{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	exercise := workouts.NormalizeExercise(entry.Exercise)
	w := workouts.Workout{
		ID:        t.nextID(),
		Exercise:  exercise,
		SetNumber: t.analyzer.NextSetNumber(t.workouts, exercise, entry.Day),
		Reps:      entry.Reps,
		Weight:    entry.Weight,
		Intensity: entry.Intensity,
		Date:      entry.Day.Noon(t.analyzer.Location()),
	}
	span.SetAttributes(attribute.Int64("id", w.ID), attribute.String("exercise", w.Exercise))

	if err := t.storeOp("put", func() error { return t.store.Put(ctx, w) }); err != nil {
		return workouts.Workout{}, fmt.Errorf("log workout: %w", err)
	}

	t.lastID = w.ID
	t.workouts = t.analyzer.Sort(append(t.workouts, w))
	t.changed()
	t.metrics.CounterWorkoutsLogged.Inc()

	return w, nil
}

func (t *Tracker) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(id) < 0 {
		return fmt.Errorf("delete %d: %w", id, workouts.ErrWorkoutNotFound)
	}

	if err := t.storeOp("delete", func() error { return t.store.Delete(ctx, id) }); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	t.remove(map[int64]struct{}{id: {}})
	t.metrics.CounterWorkoutsDeleted.Inc()

	return nil
}

// DeleteMany removes the known IDs in a single store call and reports how many were removed.
// Unknown IDs are ignored.
func (t *Tracker) DeleteMany(ctx context.Context, ids []int64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.deleteMany")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	known := make(map[int64]struct{}, len(ids))
	var toDelete []int64
	for _, id := range ids {
		if _, seen := known[id]; seen || t.indexOf(id) < 0 {
			continue
		}
		known[id] = struct{}{}
		toDelete = append(toDelete, id)
	}
	span.SetAttributes(attribute.Int("workouts.count", len(toDelete)))
	if len(toDelete) == 0 {
		return 0, nil
	}

	if err := t.storeOp("bulk_delete", func() error { return t.store.BulkDelete(ctx, toDelete) }); err != nil {
		return 0, fmt.Errorf("delete workouts: %w", err)
	}

	t.remove(known)
	t.metrics.CounterWorkoutsDeleted.Add(float64(len(toDelete)))

	return len(toDelete), nil
}

func (t *Tracker) Clear(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.storeOp("clear", func() error { return t.store.Clear(ctx) }); err != nil {
		return fmt.Errorf("clear workouts: %w", err)
	}

	t.metrics.CounterWorkoutsDeleted.Add(float64(len(t.workouts)))
	t.workouts = nil
	t.changed()

	return nil
}

// Import merges a JSON document of workouts into the collection. Records whose
// IDs are already known are skipped. A malformed document changes nothing.
func (t *Tracker) Import(ctx context.Context, r io.Reader) (_ transfer.ImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	incoming, err := transfer.Decode(r)
	if err != nil {
		return transfer.ImportResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	staged, duplicates := transfer.Merge(t.workouts, incoming)
	result := transfer.ImportResult{Duplicates: duplicates}
	span.SetAttributes(attribute.Int("staged", len(staged)), attribute.Int("duplicates", duplicates))
	if len(staged) == 0 {
		return result, nil
	}

	if err := t.storeOp("bulk_put", func() error { return t.store.BulkPut(ctx, staged) }); err != nil {
		return transfer.ImportResult{}, fmt.Errorf("import workouts: %w", err)
	}

	for _, w := range staged {
		t.lastID = max(t.lastID, w.ID)
	}
	t.workouts = t.analyzer.Sort(append(t.workouts, staged...))
	t.changed()
	t.metrics.CounterWorkoutsImported.Add(float64(len(staged)))
	result.Added = len(staged)

	return result, nil
}

func (t *Tracker) Export(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return transfer.Export(w, t.workouts)
}

// Archive exports the collection into the archive, under the file name of the current day.
func (t *Tracker) Archive(ctx context.Context, archive blob.Store) (_ blob.Info, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.archive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var buf bytes.Buffer
	if err := t.Export(&buf); err != nil {
		return blob.Info{}, err
	}

	key := transfer.FileName(t.now())
	span.SetAttributes(attribute.String("key", key))
	info, err := archive.Put(ctx, key, &buf, transfer.ContentType)
	if err != nil {
		return blob.Info{}, fmt.Errorf("archive export: %w", err)
	}
	return info, nil
}

// Workouts returns a copy of the collection in canonical order.
func (t *Tracker) Workouts() []workouts.Workout {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]workouts.Workout(nil), t.workouts...)
}

func (t *Tracker) Get(id int64) (workouts.Workout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return workouts.Workout{}, fmt.Errorf("get %d: %w", id, workouts.ErrWorkoutNotFound)
	}
	return t.workouts[i], nil
}

func (t *Tracker) NextSetNumber(exercise string, day workouts.Day) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.analyzer.NextSetNumber(t.workouts, exercise, day)
}

// Streaks reuses the training days of the memoised history view.
func (t *Tracker) Streaks() stats.Streaks {
	t.mu.Lock()
	defer t.mu.Unlock()

	groups := t.history()
	days := make([]workouts.Day, len(groups))
	for i, g := range groups {
		// history runs newest first
		days[len(groups)-1-i] = g.Day
	}
	return t.analyzer.StreaksOfDays(days, t.now())
}

func (t *Tracker) Summary() stats.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.analyzer.Summary(t.workouts)
}

func (t *Tracker) Exercises() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.analyzer.Exercises(t.workouts)
}

func (t *Tracker) FilterExercises(query string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.analyzer.FilterExercises(t.workouts, query)
}

// DefaultChartExercise is the first exercise of the memoised history view,
// which is the exercise of the most recent record.
func (t *Tracker) DefaultChartExercise() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	groups := t.history()
	if len(groups) == 0 || len(groups[0].Exercises) == 0 {
		return ""
	}
	return groups[0].Exercises[0].Exercise
}

func (t *Tracker) History() []stats.DayGroup {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history()
}

// history serves the grouping from the cache. The cached copy only fixes the
// layout, sets are swapped back for the in-memory records so dates keep their
// location and precision.
func (t *Tracker) history() []stats.DayGroup {
	var groups []stats.DayGroup
	t.cached("history", "", &groups, func() any {
		return t.analyzer.History(t.workouts)
	})

	byID := make(map[int64]workouts.Workout, len(t.workouts))
	for _, w := range t.workouts {
		byID[w.ID] = w
	}
	for _, g := range groups {
		for _, ex := range g.Exercises {
			for i, w := range ex.Sets {
				if mem, ok := byID[w.ID]; ok {
					ex.Sets[i] = mem
				} else {
					ex.Sets[i].Date = w.Date.In(t.analyzer.Location())
				}
			}
		}
	}
	return groups
}

func (t *Tracker) Chart(exercise string) stats.Chart {
	t.mu.Lock()
	defer t.mu.Unlock()

	exercise = workouts.NormalizeExercise(exercise)
	var chart stats.Chart
	t.cached("chart", exercise, &chart, func() any {
		return t.analyzer.Chart(t.workouts, exercise)
	})
	return chart
}

// cached decodes the view stored for the current revision into dst, or computes,
// stores and decodes it. A cache failure only costs a recomputation.
func (t *Tracker) cached(view, arg string, dst any, compute func() any) {
	key := []byte(fmt.Sprintf("%s::%d::%s", view, t.revision, arg))
	if data, err := t.cache.Get(key); err == nil {
		if err := json.Unmarshal(data, dst); err == nil {
			log.Tracef("%s view served from cache", view)
			return
		}
		log.Errorf("unmarshal cached %s view: %s", view, err)
	}

	data, err := json.Marshal(compute())
	if err != nil {
		log.Errorf("marshal %s view: %s", view, err)
		return
	}
	if err := t.cache.Set(key, data, 0); err != nil {
		log.Debugf("cache %s view: %s", view, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Errorf("unmarshal %s view: %s", view, err)
	}
}

// CacheStats reports hits and misses of the derived view cache.
func (t *Tracker) CacheStats() (hits, misses int64) {
	return t.cache.HitCount(), t.cache.MissCount()
}

func (t *Tracker) storeOp(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.metrics.HistogramStoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		t.metrics.CounterStoreFailures.WithLabelValues(op).Inc()
		log.Errorf("store %s: %s", op, err)
	}
	return err
}

// nextID is the creation time in unix millis, bumped past the last ID when the clock did not move.
func (t *Tracker) nextID() int64 {
	return max(t.now().UnixMilli(), t.lastID+1)
}

func (t *Tracker) indexOf(id int64) int {
	for i, w := range t.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) remove(ids map[int64]struct{}) {
	kept := t.workouts[:0:0]
	for _, w := range t.workouts {
		if _, ok := ids[w.ID]; !ok {
			kept = append(kept, w)
		}
	}
	t.workouts = kept
	t.changed()
}

func (t *Tracker) changed() {
	t.revision++
	t.metrics.GaugeWorkouts.Set(float64(len(t.workouts)))
}
