package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/snapshot"
	"github.com/spf13/cobra"
)

func buildSnapshots(cmd *cobra.Command, app *App, paths []string) ([]snapshot.File, error) {
	if app.Analysis == nil {
		return nil, fmt.Errorf("analysis service is not configured")
	}
	if app.interactive() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Summarising %d file(s)", len(paths)))
		defer stop()
	}
	return app.Analysis.Snapshot(cmd.Context(), paths)
}

func writeSnapshots(path string, stdout io.Writer, files []snapshot.File) error {
	if path == "" {
		return snapshot.Write(stdout, files)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := snapshot.Write(f, files); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readSnapshots(path string) ([]snapshot.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	files, err := snapshot.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return files, nil
}

func newSnapshotCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot FILE...",
		Short: "Write a JSON summary of each export for regression checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := buildSnapshots(cmd, app, args)
			if err != nil {
				return err
			}
			return writeSnapshots(output, cmd.OutOrStdout(), files)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newDiffCmd(app *App) *cobra.Command {
	var update bool

	cmd := &cobra.Command{
		Use:   "diff BASELINE FILE...",
		Short: "Compare exports against a saved snapshot",
		Long: "Summarise each FILE and compare it with the BASELINE snapshot. " +
			"Any difference makes the command fail unless --update rewrites the baseline.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := readSnapshots(args[0])
			if err != nil {
				return err
			}
			fresh, err := buildSnapshots(cmd, app, args[1:])
			if err != nil {
				return err
			}
			changes, err := snapshot.DiffAll(baseline, fresh)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatChanges(changes))
			if update {
				if err := writeSnapshots(args[0], out, fresh); err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Dim("baseline updated"))
				return nil
			}
			if len(changes) > 0 {
				return fmt.Errorf("snapshots differ for %d file(s)", len(changes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, "Replace the baseline with the new snapshots")
	return cmd
}
