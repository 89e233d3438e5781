package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/2beens/workoutlog/internal/gymstats/transfer"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		toStdout bool
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all sets as a JSON document into the export archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if toStdout {
				return a.tracker.Export(cmd.OutOrStdout())
			}

			archive, err := a.archiveStore(cmd.Context())
			if err != nil {
				return err
			}

			if list {
				infos, err := archive.List(cmd.Context(), "")
				if err != nil {
					return fmt.Errorf("list export archive: %w", err)
				}
				if len(infos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No exports archived yet")
				}
				for _, info := range infos {
					fmt.Fprintf(cmd.OutOrStdout(), "%-28s %8d bytes  %s\n",
						info.Key, info.Size, info.LastModified.In(a.loc).Format("2006-01-02 15:04"),
					)
				}
				return nil
			}

			info, err := a.tracker.Archive(cmd.Context(), archive)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d sets to %s (%s, %d bytes)\n",
				len(a.tracker.Workouts()), info.Key, archive.Driver(), info.Size,
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the document to stdout instead of the archive")
	cmd.Flags().BoolVar(&list, "list", false, "list the documents in the archive, their keys work with import --archive")
	cmd.MarkFlagsMutuallyExclusive("stdout", "list")

	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var fromArchive bool

	cmd := &cobra.Command{
		Use:   "import <file | ->",
		Short: "Import sets from a JSON document, sets with known ids are skipped",
		Long: `Import sets from a JSON document made by export. Use - to read from stdin,
or --archive to read the named document from the export archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.ReadCloser
			switch {
			case fromArchive:
				archive, err := a.archiveStore(cmd.Context())
				if err != nil {
					return err
				}
				r, err = archive.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			case args[0] == "-":
				r = io.NopCloser(cmd.InOrStdin())
			default:
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				r = f
			}
			defer r.Close()

			res, err := a.tracker.Import(cmd.Context(), r)
			if errors.Is(err, transfer.ErrMalformed) {
				return fmt.Errorf("invalid file format, expected a JSON list of workouts: %w", err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message())
			if res.Duplicates > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %d already known sets\n", res.Duplicates)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromArchive, "archive", false, "read the document from the export archive")

	return cmd
}
