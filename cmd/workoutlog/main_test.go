package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

const legacyWorkouts = `[
  {"id": 1704888000000, "exercise": "Bench Press", "setNumber": 1, "reps": 8, "weight": 60, "intensity": 6, "date": "2024-01-10T12:00:00.000Z"},
  {"id": 1704888000001, "exercise": "Bench Press", "setNumber": 2, "reps": 6, "weight": 65, "intensity": 8, "date": "2024-01-10T12:00:00.000Z"}
]`

func writeConfig(t *testing.T, dataDir string) string {
	t.Helper()
	content := `[development]
log_level = "error"
data_dir = "` + filepath.ToSlash(dataDir) + `"
store_driver = "sqlite"
legacy_driver = "file"
archive_driver = "fs"
timezone = "UTC"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	return out.String(), err
}

func TestCLI_MigratesLegacyFileOnFirstRun(t *testing.T) {
	dataDir := t.TempDir()
	legacyPath := filepath.Join(dataDir, "workouts.json")
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacyWorkouts), 0o600))
	cfg := writeConfig(t, dataDir)

	out, err := run(t, cfg, "", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "total sets:     2")
	assert.Contains(t, out, "total volume:   870 kg")
	assert.Contains(t, out, "last workout:   Jan 10, 2024 (Bench Press)")
	assert.NoFileExists(t, legacyPath)

	// second run reads the store only
	out, err = run(t, cfg, "", "exercises")
	require.NoError(t, err)
	assert.Equal(t, "Bench Press\n", out)
}

func TestCLI_LogHistoryAndDelete(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := run(t, cfg, "", "log", "  back SQUAT ", "--reps", "5", "--weight", "100", "--intensity", "9", "--day", "2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "logged Back Squat set 1: 5 x 100 kg, intensity 9 (high) on 2024-01-15")

	out, err = run(t, cfg, "", "log", "back squat", "-r", "3", "-w", "110", "-d", "2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "logged Back Squat set 2")

	out, err = run(t, cfg, "", "next-set", "Back Squat", "--day", "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Back Squat, set 3\n", out)

	out, err = run(t, cfg, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Monday, January 15, 2024")
	assert.Contains(t, out, "  Back Squat\n")
	assert.Contains(t, out, "#2   3 x 110")

	out, err = run(t, cfg, "", "chart")
	require.NoError(t, err)
	assert.Contains(t, out, "Back Squat, max weight per day")
	assert.Contains(t, out, "Jan 15")
	assert.Contains(t, out, "110 kg (set 2, 3 reps)")

	_, err = run(t, cfg, "", "delete", "12345")
	require.Error(t, err)

	_, err = run(t, cfg, "", "delete", "not-a-number")
	require.Error(t, err)

	_, err = run(t, cfg, "", "log", "squat", "--reps", "0")
	require.Error(t, err)
}

func TestCLI_ClearAsksForConfirmation(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	_, err := run(t, cfg, "", "log", "deadlift", "--reps", "5", "--weight", "140")
	require.NoError(t, err)

	out, err := run(t, cfg, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")

	out, err = run(t, cfg, "", "exercises")
	require.NoError(t, err)
	assert.Equal(t, "Deadlift\n", out)

	out, err = run(t, cfg, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "all workouts deleted")

	out, err = run(t, cfg, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "No workouts logged yet\n", out)
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "workouts.json"), []byte(legacyWorkouts), 0o600))
	srcCfg := writeConfig(t, srcDir)

	doc, err := run(t, srcCfg, "", "export", "--stdout")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "[\n  {"))

	out, err := run(t, srcCfg, "", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 sets to workouts_")
	entries, err := os.ReadDir(filepath.Join(srcDir, "exports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	out, err = run(t, srcCfg, "", "export", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, entries[0].Name())

	// the listed key is what import --archive takes
	out, err = run(t, srcCfg, "", "import", "--archive", entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, out, "No new workouts found to import")

	dstCfg := writeConfig(t, t.TempDir())
	out, err = run(t, dstCfg, doc, "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully imported 2 workouts")

	out, err = run(t, dstCfg, doc, "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "No new workouts found to import")
	assert.Contains(t, out, "skipped 2 already known sets")

	_, err = run(t, dstCfg, `{"not": "a list"}`, "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestCLI_UnknownEnv(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	_, err := run(t, cfg, "", "--env", "staging", "summary")
	require.Error(t, err)
}

func TestParseDay(t *testing.T) {
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	d, err := parseDay("today", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.String())

	d, err = parseDay("Yesterday", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	d, err = parseDay("2023-12-31", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", d.String())

	_, err = parseDay("31.12.2023", nil, now)
	require.Error(t, err)
}
