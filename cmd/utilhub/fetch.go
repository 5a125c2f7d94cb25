package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/bundle"
)

func (a *appCLI) cmdFetch() *cli.Command {
	var opts bundle.FetchOptions

	return &cli.Command{
		Name:  "fetch",
		Usage: "Download the archive of the latest release",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Download even if the archive is already present",
				Destination: &opts.Force,
			},
			&cli.StringFlag{
				Name:        "sha256",
				Usage:       "Expected SHA-256 of the archive",
				Destination: &opts.SHA256,
			},
			&cli.StringFlag{
				Name:        "signature",
				Usage:       "Detached OpenPGP signature (path or URL)",
				Destination: &opts.Signature,
			},
			&cli.StringFlag{
				Name:        "keyring",
				Usage:       "Public keyring for --signature",
				Destination: &opts.Keyring,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			updater, err := a.opts.Updater(a.logger)
			if err != nil {
				return goerr.Wrap(err, "configure updater")
			}

			res, err := updater.Fetch(ctx, opts)
			if err != nil {
				return err
			}

			if res.Downloaded {
				fmt.Fprintf(a.stdout, "%s %s (%s)\n", color.GreenString("Downloaded"), res.Archive, res.Tag)
			} else {
				fmt.Fprintf(a.stdout, "%s %s (%s)\n", color.YellowString("Already present"), res.Archive, res.Tag)
			}
			if res.Verified != bundle.VerificationNone {
				fmt.Fprintf(a.stdout, "Verified with %s\n", res.Verified)
			}
			return nil
		},
	}
}
