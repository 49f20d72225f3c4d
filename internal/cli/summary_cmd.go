package cli

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var project string
	var wbs bool

	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Show the export header and the figures of each project",
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
			fmt.Fprint(out, formatter.FormatFileHeader(args[0], imp.Schedule.Header, len(imp.Findings)))
			if len(projects) == 0 {
				fmt.Fprintln(out, formatter.Dim("no exported projects"))
				return nil
			}
			for _, p := range projects {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.FormatProject(p))
				if wbs {
					fmt.Fprint(out, formatter.FormatWBS(p))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only show this project (short name)")
	cmd.Flags().BoolVar(&wbs, "wbs", false, "Also print the work breakdown structure")
	return cmd
}
