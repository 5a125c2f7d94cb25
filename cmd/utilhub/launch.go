package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/gui"
)

func (a *appCLI) cmdLaunch() *cli.Command {
	return &cli.Command{
		Name:   "launch",
		Usage:  "Open the browser window (default)",
		Action: a.launch,
	}
}

func (a *appCLI) launch(ctx context.Context, _ *cli.Command) error {
	session, err := a.bootstrap(ctx)
	if err != nil {
		gui.ShowFatal(err)
		return err
	}
	gui.Run(session, a.logger)
	return nil
}
