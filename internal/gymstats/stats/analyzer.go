package stats

import (
	"sort"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

const (
	HistoryDayLayout = "Monday, January 2, 2006"
	ChartDayLayout   = "Jan 2"
	// ChartYearDayLayout is used once a series spans more than one calendar year.
	ChartYearDayLayout = "Jan 2, 2006"
)

// Analyzer derives views from a workout collection. It never touches storage,
// its only state is the location used to map instants to calendar days.
type Analyzer struct {
	loc *time.Location
}

func NewAnalyzer(loc *time.Location) *Analyzer {
	if loc == nil {
		loc = time.Local
	}
	return &Analyzer{
		loc: loc,
	}
}

func (a *Analyzer) Location() *time.Location {
	return a.loc
}

func (a *Analyzer) DayOf(w workouts.Workout) workouts.Day {
	return workouts.DayOf(w.Date, a.loc)
}

// Sort returns a copy of ws in canonical order: most recent date first, then
// ascending set number, then ascending ID. The order is total, so it does not
// depend on how ws was assembled.
func (a *Analyzer) Sort(ws []workouts.Workout) []workouts.Workout {
	sorted := make([]workouts.Workout, len(ws))
	copy(sorted, ws)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		if sorted[i].SetNumber != sorted[j].SetNumber {
			return sorted[i].SetNumber < sorted[j].SetNumber
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// NextSetNumber counts the sets of the exercise on the given calendar day, plus one.
func (a *Analyzer) NextSetNumber(ws []workouts.Workout, exercise string, day workouts.Day) int {
	exercise = workouts.NormalizeExercise(exercise)
	count := 0
	for _, w := range ws {
		if w.Exercise == exercise && a.DayOf(w) == day {
			count++
		}
	}
	return count + 1
}

type ExerciseGroup struct {
	Exercise string
	Sets     []workouts.Workout
}

type DayGroup struct {
	Day       workouts.Day
	Label     string
	Exercises []ExerciseGroup
}

// History nests the collection by calendar day, then by exercise.
// Groups appear in the order of their first record under the canonical sort.
func (a *Analyzer) History(ws []workouts.Workout) []DayGroup {
	var groups []DayGroup
	dayIdx := make(map[workouts.Day]int)
	exIdx := make(map[workouts.Day]map[string]int)

	for _, w := range a.Sort(ws) {
		day := a.DayOf(w)
		di, ok := dayIdx[day]
		if !ok {
			di = len(groups)
			dayIdx[day] = di
			exIdx[day] = make(map[string]int)
			groups = append(groups, DayGroup{
				Day:   day,
				Label: day.Noon(a.loc).Format(HistoryDayLayout),
			})
		}

		ei, ok := exIdx[day][w.Exercise]
		if !ok {
			ei = len(groups[di].Exercises)
			exIdx[day][w.Exercise] = ei
			groups[di].Exercises = append(groups[di].Exercises, ExerciseGroup{Exercise: w.Exercise})
		}
		groups[di].Exercises[ei].Sets = append(groups[di].Exercises[ei].Sets, w)
	}

	return groups
}

type Streaks struct {
	Current int
	Longest int
}

// Streaks computes the longest run of consecutive training days, and the run
// ending on the most recent training day if that day is today or yesterday.
func (a *Analyzer) Streaks(ws []workouts.Workout, now time.Time) Streaks {
	return a.StreaksOfDays(a.distinctDays(ws), now)
}

// StreaksOfDays is Streaks over already distinct training days, in ascending order.
func (a *Analyzer) StreaksOfDays(days []workouts.Day, now time.Time) Streaks {
	if len(days) == 0 {
		return Streaks{}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if workouts.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	today := workouts.DayOf(now, a.loc)
	last := days[len(days)-1]
	if workouts.DaysBetween(last, today) <= 1 {
		current = 1
		for i := len(days) - 1; i > 0; i-- {
			if workouts.DaysBetween(days[i-1], days[i]) != 1 {
				break
			}
			current++
		}
	}

	return Streaks{
		Current: current,
		Longest: longest,
	}
}

// distinctDays returns the calendar days having at least one record, ascending.
func (a *Analyzer) distinctDays(ws []workouts.Workout) []workouts.Day {
	seen := make(map[workouts.Day]struct{}, len(ws))
	var days []workouts.Day
	for _, w := range ws {
		day := a.DayOf(w)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
