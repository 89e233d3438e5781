package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

const ContentType = "application/json"

var ErrMalformed = errors.New("malformed workouts document")

type ImportResult struct {
	Added      int
	Duplicates int
}

// Message is the line shown to the user after an import.
func (r ImportResult) Message() string {
	if r.Added == 0 {
		return "No new workouts found to import"
	}
	return fmt.Sprintf("Successfully imported %d workouts", r.Added)
}

// FileName is the name an export made at the given moment is stored under.
func FileName(now time.Time) string {
	return fmt.Sprintf("workouts_%s.json", now.UTC().Format(workouts.DayLayout))
}

// Export writes ws as an indented JSON array. The same collection always yields the same bytes.
func Export(w io.Writer, ws []workouts.Workout) error {
	if ws == nil {
		ws = []workouts.Workout{}
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Decode reads a JSON array of workouts. Records are not validated beyond their shape.
func Decode(r io.Reader) ([]workouts.Workout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of workouts", ErrMalformed)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	ws := make([]workouts.Workout, 0, len(raw))
	for i, item := range raw {
		var w workouts.Workout
		if err := json.Unmarshal(item, &w); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrMalformed, i, err)
		}
		ws = append(ws, w)
	}
	return ws, nil
}

// Merge stages the incoming records whose IDs are not in existing.
// An ID repeated inside incoming is staged once, keeping its last occurrence.
func Merge(existing, incoming []workouts.Workout) (staged []workouts.Workout, duplicates int) {
	known := make(map[int64]struct{}, len(existing))
	for _, w := range existing {
		known[w.ID] = struct{}{}
	}

	stagedIdx := make(map[int64]int)
	for _, w := range incoming {
		if _, ok := known[w.ID]; ok {
			duplicates++
			continue
		}
		if i, ok := stagedIdx[w.ID]; ok {
			staged[i] = w
			duplicates++
			continue
		}
		stagedIdx[w.ID] = len(staged)
		staged = append(staged, w)
	}
	return staged, duplicates
}
