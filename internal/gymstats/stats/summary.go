package stats

import (
	"sort"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

type Summary struct {
	TotalSets   int
	TotalVolume float64
	// LastWorkout is nil when nothing has been logged yet.
	LastWorkout *workouts.Day
}

func (a *Analyzer) Summary(ws []workouts.Workout) Summary {
	s := Summary{TotalSets: len(ws)}
	if len(ws) == 0 {
		return s
	}

	for _, w := range ws {
		s.TotalVolume += w.Volume()
	}
	last := a.DayOf(a.Sort(ws)[0])
	s.LastWorkout = &last

	return s
}

// Exercises lists the distinct exercise names, sorted.
func (a *Analyzer) Exercises(ws []workouts.Workout) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, w := range ws {
		if _, ok := seen[w.Exercise]; ok {
			continue
		}
		seen[w.Exercise] = struct{}{}
		names = append(names, w.Exercise)
	}
	sort.Strings(names)
	return names
}

// FilterExercises returns the known exercise names containing query, ignoring case.
func (a *Analyzer) FilterExercises(ws []workouts.Workout, query string) []string {
	var matches []string
	for _, name := range a.Exercises(ws) {
		if workouts.ContainsFold(name, query) {
			matches = append(matches, name)
		}
	}
	return matches
}

// DefaultChartExercise is the exercise of the most recent record, empty when there are none.
func (a *Analyzer) DefaultChartExercise(ws []workouts.Workout) string {
	if len(ws) == 0 {
		return ""
	}
	return a.Sort(ws)[0].Exercise
}
