package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChartCmd(a *app) *cobra.Command {
	var allSets bool

	cmd := &cobra.Command{
		Use:   "chart [exercise]",
		Short: "Show the weight progression of an exercise",
		Long:  "Show the heaviest set of every day for an exercise. Without an exercise, the one logged last is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			exercise := a.tracker.DefaultChartExercise()
			if len(args) == 1 {
				exercise = args[0]
			}
			if exercise == "" {
				fmt.Fprintln(out, "No workouts logged yet")
				return nil
			}

			chart := a.tracker.Chart(exercise)
			if chart.Empty() {
				fmt.Fprintf(out, "No sets logged for %s\n", chart.Exercise)
				return nil
			}

			maxWeight := 0.0
			for _, p := range chart.DailyMax {
				maxWeight = max(maxWeight, p.Weight)
			}

			fmt.Fprintf(out, "%s, max weight per day\n", chart.Exercise)
			for _, p := range chart.DailyMax {
				fmt.Fprintf(out, "  %-12s %-40s %s kg (set %d, %d reps)\n",
					p.Label, bar(p.Weight, maxWeight, 40), formatWeight(p.Weight), p.Set, p.Reps,
				)
			}

			if allSets {
				fmt.Fprintln(out, "all sets")
				for _, p := range chart.AllSets {
					fmt.Fprintf(out, "  %-12s set %d  %2d x %s kg\n", p.Label, p.Set, p.Reps, formatWeight(p.Weight))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&allSets, "all", "a", false, "also list every single set")

	return cmd
}

func newStreakCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current and the longest streak of training days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.tracker.Streaks()
			fmt.Fprintf(cmd.OutOrStdout(), "current streak: %d days\nlongest streak: %d days\n", s.Current, s.Longest)
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals over all logged sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s := a.tracker.Summary()
			streaks := a.tracker.Streaks()

			lastWorkout := "never"
			if s.LastWorkout != nil {
				lastWorkout = fmt.Sprintf("%s (%s)",
					s.LastWorkout.Noon(a.loc).Format("Jan 2, 2006"), a.tracker.DefaultChartExercise(),
				)
			}

			fmt.Fprintf(out, "total sets:     %d\n", s.TotalSets)
			fmt.Fprintf(out, "total volume:   %s kg\n", formatThousands(s.TotalVolume))
			fmt.Fprintf(out, "last workout:   %s\n", lastWorkout)
			fmt.Fprintf(out, "current streak: %d days\n", streaks.Current)
			return nil
		},
	}
}

func newExercisesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exercises [filter]",
		Short: "List logged exercises, optionally filtered by a part of the name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			for _, name := range a.tracker.FilterExercises(query) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func bar(value, maxValue float64, width int) string {
	if maxValue <= 0 {
		return ""
	}
	n := int(value / maxValue * float64(width))
	return strings.Repeat("#", max(n, 1))
}

// formatThousands renders the whole part of v with comma separators, 12345.6 becomes 12,345.
func formatThousands(v float64) string {
	digits := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
