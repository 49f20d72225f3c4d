package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/repository"
	"github.com/alexanderramin/xerkit/internal/service"
	"github.com/spf13/cobra"
)

func newStoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "store FILE...",
		Short: "Record the figures of each export in the run history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range args {
				run, err := runs.Store(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Stored run %s for %s (%d projects, %d findings)\n",
					formatter.TruncID(run.ID), run.File, run.ProjectCount, run.FindingCount)
			}
			return nil
		},
	}
}

// resolveRunID accepts a full run id or an unambiguous prefix.
func resolveRunID(ctx context.Context, runs service.RunService, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("run ID is required")
	}
	all, err := runs.History(ctx, repository.RunFilter{})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, r := range all {
		if r.ID == input {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("run not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var filter repository.RunFilter

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			list, err := runs.History(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(list, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.File, "file", "", "Only runs of this file path")
	cmd.Flags().IntVar(&filter.Limit, "limit", 20, "Maximum number of runs (0 for all)")

	cmd.AddCommand(
		newHistoryShowCmd(app),
		newHistoryTasksCmd(app),
		newHistoryRemoveCmd(app),
	)
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a stored run with its projects and findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			id, err := resolveRunID(cmd.Context(), runs, args[0])
			if err != nil {
				return err
			}
			detail, err := runs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRun(detail.Run, detail.Projects, detail.Findings))
			return nil
		},
	}
}

func newHistoryTasksCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "tasks RUN_ID",
		Short: "List the stored activity figures of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			id, err := resolveRunID(cmd.Context(), runs, args[0])
			if err != nil {
				return err
			}
			tasks, err := runs.Tasks(cmd.Context(), id, project)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunTasks(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only this project (short name)")
	return cmd
}

func newHistoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm RUN_ID",
		Aliases: []string{"remove"},
		Short:   "Delete a stored run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			id, err := resolveRunID(cmd.Context(), runs, args[0])
			if err != nil {
				return err
			}
			if err := runs.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
