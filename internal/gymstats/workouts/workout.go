package workouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONDateLayout is the instant layout used for the date field: UTC with millisecond precision.
const JSONDateLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidEntry    = errors.New("invalid workout entry")
)

// Workout is a single logged set.
type Workout struct {
	ID        int64     `json:"id"`
	Exercise  string    `json:"exercise"`
	SetNumber int       `json:"setNumber"`
	Reps      int       `json:"reps"`
	Weight    float64   `json:"weight"`
	Intensity int       `json:"intensity"`
	Date      time.Time `json:"date"`
}

type workoutAlias Workout

type workoutJSON struct {
	workoutAlias
	Date string `json:"date"`
}

func (w Workout) MarshalJSON() ([]byte, error) {
	date := ""
	if !w.Date.IsZero() {
		date = w.Date.UTC().Format(JSONDateLayout)
	}
	return json.Marshal(workoutJSON{
		workoutAlias: workoutAlias(w),
		Date:         date,
	})
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	var raw workoutJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*w = Workout(raw.workoutAlias)
	w.Date = time.Time{}
	if raw.Date == "" {
		return nil
	}

	date, err := parseDate(raw.Date)
	if err != nil {
		return err
	}
	w.Date = date

	return nil
}

// Zone-less layouts accepted on import. Date-only values are UTC midnight,
// date-times without an offset are local time.
var localDateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return date, nil
	}
	if date, err := time.Parse(DayLayout, value); err == nil {
		return date, nil
	}
	for _, layout := range localDateLayouts {
		if date, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date [%s]: unsupported format", value)
}

// DisplaySet is the set number shown to the user, records without one count as the first set.
func (w Workout) DisplaySet() int {
	if w.SetNumber < 1 {
		return 1
	}
	return w.SetNumber
}

func (w Workout) Volume() float64 {
	return float64(w.Reps) * w.Weight
}

// Entry holds the user provided values for a new set.
type Entry struct {
	Exercise  string
	Reps      int
	Weight    float64
	Intensity int
	Day       Day
}

func (e Entry) Validate() error {
	switch {
	case NormalizeExercise(e.Exercise) == "":
		return fmt.Errorf("%w: exercise name is empty", ErrInvalidEntry)
	case e.Reps < 1:
		return fmt.Errorf("%w: reps must be positive, got %d", ErrInvalidEntry, e.Reps)
	case e.Weight < 0:
		return fmt.Errorf("%w: weight must not be negative, got %v", ErrInvalidEntry, e.Weight)
	case e.Intensity < 1 || e.Intensity > 10:
		return fmt.Errorf("%w: intensity must be in [1, 10], got %d", ErrInvalidEntry, e.Intensity)
	case e.Day.IsZero():
		return fmt.Errorf("%w: day not set", ErrInvalidEntry)
	}
	return nil
}
