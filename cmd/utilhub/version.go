package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/app"
)

func (a *appCLI) cmdVersion() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Fprintf(a.stdout, "utilhub %s\n", app.Version)
			return nil
		},
	}
}
