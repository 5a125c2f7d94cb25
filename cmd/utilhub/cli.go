package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/app"
)

// appCLI carries the parsed global flags and the collaborators shared by
// every command.
type appCLI struct {
	opts   app.Options
	log    app.Logger
	logger *slog.Logger

	stdout io.Writer
	stdin  io.Reader

	// deps overrides collaborators in tests.
	deps app.Deps
}

func newCLI(stdout io.Writer, stdin io.Reader) *appCLI {
	return &appCLI{stdout: stdout, stdin: stdin}
}

func (a *appCLI) command() *cli.Command {
	flags := append(a.log.Flags(), a.opts.Flags()...)

	return &cli.Command{
		Name:      "utilhub",
		Usage:     "Launcher for the Python Utilities script bundle",
		Version:   app.Version,
		Writer:    a.stdout,
		Reader:    a.stdin,
		Flags:     flags,
		ArgsUsage: "[command]",
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := a.log.Configure()
			if err != nil {
				return nil, err
			}
			a.logger = logger
			slog.SetDefault(logger)
			return ctx, nil
		},
		Action: a.launch,
		Commands: []*cli.Command{
			a.cmdLaunch(),
			a.cmdFetch(),
			a.cmdList(),
			a.cmdRun(),
			a.cmdReveal(),
			a.cmdRemove(),
			a.cmdSettings(),
			a.cmdShortcut(),
			a.cmdVersion(),
		},
	}
}

// run executes the CLI and logs any returned error.
func run(ctx context.Context, args []string, a *appCLI) error {
	if err := a.command().Run(ctx, args); err != nil {
		logger := a.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("utilhub failed", slog.Any("error", err))
		return err
	}
	return nil
}

func (a *appCLI) bootstrap(ctx context.Context) (*app.Session, error) {
	return app.Bootstrap(ctx, a.opts, a.deps, a.logger)
}
