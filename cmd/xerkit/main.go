package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/xerkit/internal/cli"
	"github.com/alexanderramin/xerkit/internal/config"
	"github.com/alexanderramin/xerkit/internal/db"
	"github.com/alexanderramin/xerkit/internal/importer"
	"github.com/alexanderramin/xerkit/internal/logging"
	"github.com/alexanderramin/xerkit/internal/repository"
	"github.com/alexanderramin/xerkit/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		return err
	}

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}

	app := &cli.App{Config: cfg}

	// Persistent flags are applied to app.Config before Setup runs.
	app.Setup = func(a *cli.App) error {
		logger, closeLog, err := logging.New(logging.Options{Level: a.Config.LogLevel, File: a.Config.LogFile})
		if err != nil {
			return err
		}
		closers = append(closers, closeLog)
		observer = service.NewLogUseCaseObserver(logger)

		rules := importer.DefaultRules()
		if a.Config.Rules != "" {
			if rules, err = importer.LoadRules(a.Config.Rules); err != nil {
				return err
			}
		}
		a.Analysis = service.NewAnalysisService(service.AnalysisConfig{
			Rules:   rules,
			Strict:  a.Config.Strict,
			Workers: a.Config.Workers,
			Logger:  logger,
		}, observer)
		return nil
	}

	// Only store and history touch the database.
	app.OpenRuns = func(a *cli.App) (service.RunService, error) {
		database, err := db.OpenDB(a.Config.DBPath)
		if err != nil {
			return nil, err
		}
		closers = append(closers, database.Close)

		return service.NewRunService(
			a.Analysis,
			repository.NewSQLiteRunRepo(database),
			db.NewSQLiteUnitOfWork(database),
			a.Config.Strict,
			observer,
		), nil
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
