package stats

import (
	"sort"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"
)

type Point struct {
	Label  string       `json:"label"`
	Day    workouts.Day `json:"day"`
	Weight float64      `json:"weight"`
	Set    int          `json:"set"`
	Reps   int          `json:"reps"`
}

type Chart struct {
	Exercise string   `json:"exercise"`
	Labels   []string `json:"labels"`
	// DailyMax holds the heaviest set of each day, the first one wins on ties.
	DailyMax []Point `json:"dailyMax"`
	// AllSets holds one point per logged set.
	AllSets []Point `json:"allSets"`
}

func (c Chart) Empty() bool {
	return len(c.AllSets) == 0
}

// Chart builds the progress series of one exercise, in chronological order.
func (a *Analyzer) Chart(ws []workouts.Workout, exercise string) Chart {
	exercise = workouts.NormalizeExercise(exercise)
	chart := Chart{Exercise: exercise}

	var sets []workouts.Workout
	for _, w := range ws {
		if w.Exercise == exercise {
			sets = append(sets, w)
		}
	}
	if len(sets) == 0 {
		return chart
	}

	sort.Slice(sets, func(i, j int) bool {
		if !sets[i].Date.Equal(sets[j].Date) {
			return sets[i].Date.Before(sets[j].Date)
		}
		if sets[i].SetNumber != sets[j].SetNumber {
			return sets[i].SetNumber < sets[j].SetNumber
		}
		return sets[i].ID < sets[j].ID
	})

	layout := ChartDayLayout
	if a.DayOf(sets[0]).Year != a.DayOf(sets[len(sets)-1]).Year {
		layout = ChartYearDayLayout
	}

	maxIdx := make(map[workouts.Day]int)
	for _, w := range sets {
		day := a.DayOf(w)
		p := Point{
			Label:  day.Noon(a.loc).Format(layout),
			Day:    day,
			Weight: w.Weight,
			Set:    w.DisplaySet(),
			Reps:   w.Reps,
		}
		chart.AllSets = append(chart.AllSets, p)

		i, ok := maxIdx[day]
		if !ok {
			maxIdx[day] = len(chart.DailyMax)
			chart.DailyMax = append(chart.DailyMax, p)
			chart.Labels = append(chart.Labels, p.Label)
			continue
		}
		if w.Weight > chart.DailyMax[i].Weight {
			chart.DailyMax[i] = p
		}
	}

	return chart
}
