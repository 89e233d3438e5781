package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterWorkoutsLogged   prometheus.Counter
	CounterWorkoutsDeleted  prometheus.Counter
	CounterWorkoutsImported prometheus.Counter
	CounterWorkoutsMigrated prometheus.Counter
	CounterStoreFailures    *prometheus.CounterVec

	// gauges
	GaugeWorkouts prometheus.Gauge

	// histograms
	HistogramStoreOpDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("workoutlog", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workoutlog", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterWorkoutsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_logged",
		Help:      "The total number of logged sets",
	})
	counterWorkoutsDeleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_deleted",
		Help:      "The total number of deleted sets",
	})
	counterWorkoutsImported := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_imported",
		Help:      "The total number of sets added by imports",
	})
	counterWorkoutsMigrated := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_migrated",
		Help:      "The total number of sets moved over from legacy storage",
	})
	counterStoreFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_failures",
		Help:      "The total number of failed store operations",
	}, []string{"op"})

	gaugeWorkouts := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts",
		Help:      "Current number of sets in the collection",
	})

	histogramStoreOpDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_op_duration_seconds",
		Help:      "Histogram of store operation durations in seconds",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"op"})

	return &Manager{
		CounterWorkoutsLogged:    counterWorkoutsLogged,
		CounterWorkoutsDeleted:   counterWorkoutsDeleted,
		CounterWorkoutsImported:  counterWorkoutsImported,
		CounterWorkoutsMigrated:  counterWorkoutsMigrated,
		CounterStoreFailures:     counterStoreFailures,
		GaugeWorkouts:            gaugeWorkouts,
		HistogramStoreOpDuration: histogramStoreOpDuration,
	}
}
