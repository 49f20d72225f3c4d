package cli

import (
	"fmt"

	"github.com/alexanderramin/xerkit/internal/cli/formatter"
	"github.com/alexanderramin/xerkit/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// xerkitHuhTheme returns a huh theme using the formatter palette.
func xerkitHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectPicker asks for one of the exported projects by short name.
func projectPicker(projects []*domain.Project, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s", p.ShortName, p.Name), p.ShortName))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project").
				Options(options...).
				Value(result),
		),
	).WithTheme(xerkitHuhTheme()).WithShowHelp(false)
}

func newBrowseCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "browse FILE",
		Short: "Browse a project's activities interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal")
			}
			imp, err := analyze(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			projects := sortedProjects(imp.Schedule)
			if project == "" && len(projects) > 1 {
				if err := projectPicker(projects, &project).Run(); err != nil {
					return err
				}
			}
			p, err := resolveProject(imp.Schedule, project)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(newBrowseModel(p), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project to open (short name)")
	return cmd
}
