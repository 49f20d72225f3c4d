package cli

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	var project, find string
	var critical bool

	cmd := &cobra.Command{
		Use:   "tasks FILE [ACTIVITY_ID]",
		Short: "List activities, or show one activity with its logic",
		Args:  cobra.RangeArgs(1, 2),
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
			if len(args) == 2 {
				t, err := resolveTask(projects, args[1])
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatTaskDetail(t))
				return nil
			}

			for i, p := range projects {
				tasks := p.Tasks()
				if critical {
					tasks = criticalOnly(tasks)
				}
				tasks = findTasks(tasks, find)
				if len(projects) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, formatter.Header(p.ShortName))
				}
				if len(tasks) == 0 {
					fmt.Fprintln(out, formatter.Dim("no matching activities"))
					continue
				}
				fmt.Fprint(out, formatter.FormatTasks(tasks))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only list this project (short name)")
	cmd.Flags().BoolVar(&critical, "critical", false, "Only list open activities without float")
	cmd.Flags().StringVar(&find, "find", "", "Fuzzy match activity id and name, best match first")
	return cmd
}

func newRemainingCmd(app *App) *cobra.Command {
	var project string
	var late bool

	cmd := &cobra.Command{
		Use:   "remaining FILE ACTIVITY_ID",
		Short: "Spread an activity's remaining hours over its calendar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := analyze(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			projects, err := selectProjects(imp.Schedule, project)
			if err != nil {
				return err
			}
			t, err := resolveTask(projects, args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRemaining(t, t.RemainingHoursPerDay(late)))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Look the activity up in this project only")
	cmd.Flags().BoolVar(&late, "late", false, "Use the remaining late dates instead of the remaining early dates")
	return cmd
}
