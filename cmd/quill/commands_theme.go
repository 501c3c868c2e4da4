package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/quillhq/quill/common/theme"
)

func themeCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "show or change the display theme",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "print the current theme",
				Action: func(c *cli.Context) error {
					fmt.Println(a.theme.Get())
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "persist a theme preference",
				ArgsUsage: "THEME",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected one of: %v", theme.Themes)
					}
					if err := a.theme.Set(theme.Theme(c.Args().First())); err != nil {
						return err
					}
					fmt.Println("Theme saved.")
					return nil
				},
			},
		},
	}
}
