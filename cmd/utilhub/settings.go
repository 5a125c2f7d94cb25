package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func (a *appCLI) cmdSettings() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the persisted settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print every setting",
				Action: func(ctx context.Context, _ *cli.Command) error {
					session, err := a.bootstrap(ctx)
					if err != nil {
						return err
					}
					form := session.Editor.Open()
					for _, f := range form.Fields {
						value := f.Value
						if value == "" {
							value = color.New(color.Faint).Sprint("(unset)")
						}
						fmt.Fprintf(a.stdout, "%s = %s\n", color.CyanString(f.Key), value)
					}
					fmt.Fprintln(a.stdout)
					fmt.Fprintf(a.stdout, "Stored in %s\n", session.Store.Path())
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Change one or more settings",
				ArgsUsage: "key=value...",
				Action: func(ctx context.Context, c *cli.Command) error {
					pairs, err := parseAssignments(c.Args().Slice())
					if err != nil {
						return err
					}

					session, err := a.bootstrap(ctx)
					if err != nil {
						return err
					}
					form := session.Editor.Open()
					for _, p := range pairs {
						if err := form.Set(p.key, p.value); err != nil {
							return err
						}
					}
					if _, err := session.Editor.Save(form); err != nil {
						return err
					}
					fmt.Fprintf(a.stdout, "%s %s\n", color.GreenString("Saved"), session.Store.Path())
					return nil
				},
			},
		},
	}
}

type assignment struct {
	key   string
	value string
}

// parseAssignments parses key=value arguments. Values may be empty.
func parseAssignments(args []string) ([]assignment, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: utilhub settings set key=value...")
	}
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected key=value", arg)
		}
		out = append(out, assignment{key: key, value: value})
	}
	return out, nil
}
