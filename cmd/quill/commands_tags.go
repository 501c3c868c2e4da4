package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/quillhq/quill/common/input"
)

func tagsCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "manage tags",
		Subcommands: []*cli.Command{
			tagsListCommand(a),
			tagsAddCommand(a),
			tagsRmCommand(a),
		},
	}
}

func tagsListCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list tags",
		Action: func(c *cli.Context) error {
			if err := a.tags.Load(c.Context); err != nil {
				return inlineError(a.tags.ErrorMessage(), err)
			}
			a.persistSession()

			for _, t := range a.tags.Tags() {
				fmt.Printf("#%d  %s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func tagsAddCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "create a tag",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one tag name argument")
			}

			// Pre-validate against the cached tag set before any write
			if err := a.tags.Load(c.Context); err != nil {
				return inlineError(a.tags.ErrorMessage(), err)
			}

			field := input.New(input.TagName(a.tags.Tags))
			field.OnChange(c.Args().First())
			if !field.IsValid() {
				if field.Error() != "" {
					return fmt.Errorf("%s", field.Error())
				}
				return fmt.Errorf("tag name must not be empty")
			}

			tag, err := a.tags.Create(c.Context, field.Trimmed())
			if err != nil {
				return inlineError(a.tags.ErrorMessage(), err)
			}
			a.persistSession()

			fmt.Printf("Created tag %d (%s)\n", tag.ID, tag.Name)
			return nil
		},
	}
}

func tagsRmCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "delete a tag",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one tag id argument")
			}
			id, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid tag id %q", c.Args().First())
			}

			if err := a.tags.Delete(c.Context, id); err != nil {
				return inlineError(a.tags.ErrorMessage(), err)
			}
			a.persistSession()

			fmt.Printf("Deleted tag %d\n", id)
			return nil
		},
	}
}
