package main

import (
	"fmt"
	"strconv"

	"github.com/2beens/workoutlog/internal/gymstats/workouts"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged sets grouped by day and exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			groups := a.tracker.History()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No workouts logged yet")
				return nil
			}
			if days > 0 && len(groups) > days {
				groups = groups[:days]
			}

			for _, g := range groups {
				fmt.Fprintln(out, g.Label)
				for _, ex := range g.Exercises {
					fmt.Fprintf(out, "  %s\n", ex.Exercise)
					for _, w := range ex.Sets {
						fmt.Fprintf(out, "    #%d  %2d x %-7s  intensity %2d %-6s  [id %d]\n",
							w.DisplaySet(), w.Reps, formatWeight(w.Weight), w.Intensity,
							workouts.IntensityTier(w.Intensity), w.ID,
						)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", 0, "only show the most recent n days (0 for all)")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete sets by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q", arg)
				}
				ids = append(ids, id)
			}

			if len(ids) == 1 {
				if err := a.tracker.Delete(cmd.Context(), ids[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted set %d\n", ids[0])
				return nil
			}

			deleted, err := a.tracker.DeleteMany(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d of %d sets\n", deleted, len(ids))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all logged sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to delete all workouts? This cannot be undone. [y/N] ")
				var answer string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
				if answer != "y" && answer != "Y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			if err := a.tracker.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all workouts deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
