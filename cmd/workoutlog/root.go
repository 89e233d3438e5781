package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	env        string
	configPath string
}

// newRootCmd builds the whole command tree around a. The app is booted before
// any subcommand runs, closing it is left to the caller.
func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "workoutlog",
		Short:         "Log gym sets and follow your progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.boot(cmd.Context(), flags.env, flags.configPath)
		},
	}
	root.PersistentFlags().StringVar(&flags.env, "env", "development", "environment [dev | development | prod | production]")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "./config.toml", "path for the TOML config file")

	root.AddCommand(
		newLogCmd(a),
		newNextSetCmd(a),
		newHistoryCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newChartCmd(a),
		newStreakCmd(a),
		newSummaryCmd(a),
		newExercisesCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)

	return root
}
