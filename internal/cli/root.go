package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/xerkit/internal/config"
	"github.com/alexanderramin/xerkit/internal/service"
	"github.com/spf13/cobra"
)

// App holds the configuration and services commands run against.
type App struct {
	Config   config.Config
	Analysis service.AnalysisService
	Runs     service.RunService

	// Setup builds Analysis once persistent flags have been applied to
	// Config. Tests leave it nil and set the services directly.
	Setup func(app *App) error
	// OpenRuns opens the run store on first use.
	OpenRuns func(app *App) (service.RunService, error)

	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runs() (service.RunService, error) {
	if a.Runs != nil {
		return a.Runs, nil
	}
	if a.OpenRuns == nil {
		return nil, fmt.Errorf("run store is not configured")
	}
	runs, err := a.OpenRuns(a)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	a.Runs = runs
	return runs, nil
}

// NewRootCmd creates the top-level "xerkit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var (
		strict   bool
		rules    string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "xerkit",
		Short:         "Read and analyse Primavera P6 XER exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("strict") {
				app.Config.Strict = strict
			}
			if flags.Changed("rules") {
				app.Config.Rules = rules
			}
			if flags.Changed("log-level") {
				app.Config.LogLevel = logLevel
			}
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if app.Setup != nil {
				return app.Setup(app)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&strict, "strict", false, "Fail on any structural problem instead of reporting it")
	pf.StringVar(&rules, "rules", "", "YAML file overriding the required table rules")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newSummaryCmd(app),
		newValidateCmd(app),
		newCalendarsCmd(app),
		newWorkdaysCmd(app),
		newTasksCmd(app),
		newRemainingCmd(app),
		newWarningsCmd(app),
		newSnapshotCmd(app),
		newDiffCmd(app),
		newExportCmd(app),
		newStoreCmd(app),
		newHistoryCmd(app),
		newBrowseCmd(app),
	)

	return root
}
