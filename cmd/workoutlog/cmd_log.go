package main

import (
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"

	"github.com/spf13/cobra"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		reps      int
		weight    float64
		intensity int
		day       string
	)

	cmd := &cobra.Command{
		Use:   "log <exercise>",
		Short: "Log a set",
		Example: `  workoutlog log "bench press" --reps 8 --weight 62.5 --intensity 7
  workoutlog log squat -r 5 -w 100 -i 9 --day 2024-01-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(day, a.loc, time.Now())
			if err != nil {
				return err
			}

			w, err := a.tracker.Log(cmd.Context(), workouts.Entry{
				Exercise:  args[0],
				Reps:      reps,
				Weight:    weight,
				Intensity: intensity,
				Day:       d,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged %s set %d: %d x %s kg, intensity %d (%s) on %s [id %d]\n",
				w.Exercise, w.SetNumber, w.Reps, formatWeight(w.Weight), w.Intensity,
				workouts.IntensityTier(w.Intensity), d, w.ID,
			)
			return nil
		},
	}
	cmd.Flags().IntVarP(&reps, "reps", "r", 0, "number of repetitions")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "weight in kg")
	cmd.Flags().IntVarP(&intensity, "intensity", "i", 5, "perceived intensity, 1 to 10")
	cmd.Flags().StringVarP(&day, "day", "d", "today", "day of the set: today, yesterday or YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("reps")

	return cmd
}

func newNextSetCmd(a *app) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "next-set <exercise>",
		Short: "Show which set number the next logged set of an exercise gets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(day, a.loc, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, set %d\n",
				workouts.NormalizeExercise(args[0]), a.tracker.NextSetNumber(args[0], d),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&day, "day", "d", "today", "day: today, yesterday or YYYY-MM-DD")

	return cmd
}
