package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/app"
)

var (
	folderColor = color.New(color.FgCyan, color.Bold)
	fileColor   = color.New(color.FgWhite)
	dimColor    = color.New(color.Faint)
)

func (a *appCLI) cmdList() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List folders, or the files of one folder",
		ArgsUsage: "[folder]",
		Action: func(ctx context.Context, c *cli.Command) error {
			session, err := a.bootstrap(ctx)
			if err != nil {
				return err
			}

			if c.Args().Len() == 0 {
				folders, err := session.Browser.Folders()
				if err != nil {
					return err
				}
				if len(folders) == 0 {
					dimColor.Fprintln(a.stdout, "No folders found.")
					return nil
				}
				for _, f := range folders {
					folderColor.Fprintln(a.stdout, f+"/")
				}
				return nil
			}

			files, err := session.Browser.SelectFolder(c.Args().First())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				dimColor.Fprintln(a.stdout, "No files found.")
				return nil
			}
			for _, f := range files {
				fileColor.Fprintln(a.stdout, f.Rel)
			}
			return nil
		},
	}
}

// selectArgs bootstraps and selects args[0] as folder and args[1], when
// present, as file.
func (a *appCLI) selectArgs(ctx context.Context, c *cli.Command, needFile bool) (*app.Session, error) {
	n := c.Args().Len()
	if n == 0 || n > 2 || (needFile && n != 2) {
		return nil, fmt.Errorf("usage: utilhub %s %s", c.Name, c.ArgsUsage)
	}

	session, err := a.bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := session.Browser.SelectFolder(c.Args().Get(0)); err != nil {
		return nil, err
	}
	if n == 2 {
		if err := session.Browser.SelectFile(c.Args().Get(1)); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (a *appCLI) cmdRun() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a script in a new terminal window",
		ArgsUsage: "<folder> <file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			session, err := a.selectArgs(ctx, c, true)
			if err != nil {
				return err
			}
			if err := session.Browser.Execute(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Started %s\n", c.Args().Get(1))
			return nil
		},
	}
}

func (a *appCLI) cmdReveal() *cli.Command {
	return &cli.Command{
		Name:      "reveal",
		Usage:     "Open the location of a folder or file in the file manager",
		ArgsUsage: "<folder> [file]",
		Action: func(ctx context.Context, c *cli.Command) error {
			session, err := a.selectArgs(ctx, c, false)
			if err != nil {
				return err
			}
			return session.Browser.Reveal()
		},
	}
}

func (a *appCLI) cmdRemove() *cli.Command {
	var yes bool

	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a file, or an empty folder when the profile allows it",
		ArgsUsage: "<folder> [file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "Do not ask for confirmation",
				Destination: &yes,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			session, err := a.selectArgs(ctx, c, false)
			if err != nil {
				return err
			}

			target := c.Args().Get(0)
			if c.Args().Len() == 2 {
				target = c.Args().Get(0) + "/" + c.Args().Get(1)
			}
			if !yes {
				ok, err := confirm(a.stdout, a.stdin, fmt.Sprintf("Delete %s?", target))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.stdout, "Cancelled.")
					return nil
				}
			}

			if c.Args().Len() == 2 {
				err = session.Browser.DeleteFile()
			} else {
				err = session.Browser.DeleteFolder()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s %s\n", color.RedString("Deleted"), target)
			return nil
		},
	}
}

// confirm asks a y/N question. Anything but y or yes is a no.
func confirm(w io.Writer, r io.Reader, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", question)

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
