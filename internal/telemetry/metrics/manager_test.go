package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Counters(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()

	m.CounterWorkoutsLogged.Inc()
	m.CounterWorkoutsLogged.Inc()
	m.CounterStoreFailures.WithLabelValues("put").Inc()
	m.GaugeWorkouts.Set(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterWorkoutsLogged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterStoreFailures.WithLabelValues("put")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.GaugeWorkouts))

	count, err := testutil.GatherAndCount(reg, "workoutlog_test_workouts_logged")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteTextfile(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	m.CounterWorkoutsImported.Add(3)

	path := filepath.Join(t.TempDir(), "workoutlog.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "workoutlog_test_workouts_imported 3"))

	// empty path disables the dump
	require.NoError(t, metrics.WriteTextfile("", reg))
}
