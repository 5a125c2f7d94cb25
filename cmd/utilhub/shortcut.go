package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/shortcut"
)

func (a *appCLI) cmdShortcut() *cli.Command {
	var (
		force bool
		icon  string
	)

	return &cli.Command{
		Name:  "shortcut",
		Usage: "Create a desktop shortcut for the launcher",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Overwrite an existing shortcut",
				Destination: &force,
			},
			&cli.StringFlag{
				Name:        "icon",
				Usage:       "Icon file for the desktop entry",
				Destination: &icon,
			},
		},
		Action: func(_ context.Context, _ *cli.Command) error {
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate executable: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("locate home directory: %w", err)
			}

			res, err := shortcut.Create(shortcut.Options{
				GOOS:       runtime.GOOS,
				Home:       home,
				Executable: exe,
				Icon:       icon,
				Force:      force,
			})
			if err != nil {
				return err
			}
			if res.Created {
				fmt.Fprintf(a.stdout, "Shortcut created at %s\n", res.Path)
			} else {
				fmt.Fprintf(a.stdout, "Shortcut already exists at %s\n", res.Path)
			}
			return nil
		},
	}
}
