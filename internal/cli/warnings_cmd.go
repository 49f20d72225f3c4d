package cli

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/quality"
	"github.com/spf13/cobra"
)

func newWarningsCmd(app *App) *cobra.Command {
	var project string
	var verbose bool
	opts := quality.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "warnings FILE",
		Short: "Report schedule quality warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := analyze(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			projects, err := selectProjects(imp.Schedule, project)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, p := range projects {
				report, err := quality.Analyze(p, opts)
				if err != nil {
					return fmt.Errorf("project %s: %w", p.ShortName, err)
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatWarnings(p, report, verbose))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only check this project (short name)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List the flagged activities of each category")
	cmd.Flags().IntVar(&opts.LongDuration, "long-duration", opts.LongDuration, "Flag durations longer than this many days")
	cmd.Flags().IntVar(&opts.LongLag, "long-lag", opts.LongLag, "Flag lags longer than this many days")
	return cmd
}
