package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/quillhq/quill/common/models"
	"github.com/quillhq/quill/common/store"
)

func notesCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "manage notes",
		Subcommands: []*cli.Command{
			notesListCommand(a),
			notesAddCommand(a),
			notesEditCommand(a),
			notesRmCommand(a),
		},
	}
}

func notesListCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list notes, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "tag", Usage: "only notes carrying this tag id"},
		},
		Action: func(c *cli.Context) error {
			// Tags load first so note tags render by name
			if err := a.tags.Load(c.Context); err != nil {
				return inlineError(a.tags.ErrorMessage(), err)
			}
			var err error
			if c.IsSet("tag") {
				err = a.notes.LoadByTag(c.Context, c.Int("tag"))
			} else {
				err = a.notes.Load(c.Context)
			}
			if err != nil {
				return inlineError(a.notes.ErrorMessage(), err)
			}
			a.persistSession()

			for _, n := range a.notes.Notes() {
				printNote(n, a.tags.Tags())
			}
			return nil
		},
	}
}

func notesAddCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "create a note",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "tags", Usage: "comma-separated tag ids"},
		},
		Action: func(c *cli.Context) error {
			tagIDs, err := parseTagIDs(c.String("tags"))
			if err != nil {
				return err
			}

			note, err := a.notes.Create(c.Context, c.String("title"), c.String("content"), tagIDs)
			if err != nil {
				return inlineError(a.notes.ErrorMessage(), err)
			}
			a.persistSession()

			fmt.Printf("Created note %d\n", note.ID)
			return nil
		},
	}
}

func notesEditCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "update a note's title, content, or tags",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}},
			&cli.StringFlag{Name: "tags", Usage: "comma-separated tag ids, empty to clear"},
		},
		Action: func(c *cli.Context) error {
			id, err := noteID(c)
			if err != nil {
				return err
			}

			// The store diffs against its cache, so it must be loaded
			if err := a.notes.Load(c.Context); err != nil {
				return inlineError(a.notes.ErrorMessage(), err)
			}

			var edit store.NoteEdit
			if c.IsSet("title") {
				title := c.String("title")
				edit.Title = &title
			}
			if c.IsSet("content") {
				content := c.String("content")
				edit.Content = &content
			}
			if c.IsSet("tags") {
				tagIDs, err := parseTagIDs(c.String("tags"))
				if err != nil {
					return err
				}
				edit.Tags = &tagIDs
			}

			note, err := a.notes.Update(c.Context, id, edit)
			if err != nil {
				return inlineError(a.notes.ErrorMessage(), err)
			}
			a.persistSession()

			fmt.Printf("Updated note %d\n", note.ID)
			return nil
		},
	}
}

func notesRmCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "delete a note",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := noteID(c)
			if err != nil {
				return err
			}

			if err := a.notes.Remove(c.Context, id); err != nil {
				return inlineError(a.notes.ErrorMessage(), err)
			}
			a.persistSession()

			fmt.Printf("Deleted note %d\n", id)
			return nil
		},
	}
}

func printNote(n models.Note, tags []models.Tag) {
	fmt.Printf("#%d  %s  (%s)\n", n.ID, n.Title, n.CreatedAt)
	if n.Content != "" {
		fmt.Printf("    %s\n", n.Content)
	}

	resolved := models.ResolveTags(n, tags)
	if len(resolved) > 0 {
		names := make([]string, 0, len(resolved))
		for _, t := range resolved {
			names = append(names, t.Name)
		}
		fmt.Printf("    tags: %s\n", strings.Join(names, ", "))
	}
}

func noteID(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one note id argument")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", c.Args().First())
	}
	return id, nil
}

// parseTagIDs parses "1,2,3" into ids; "" means no tags
func parseTagIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return []int{}, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid tag id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// inlineError prefers the store's inline message, falling back to the
// raw error. Auth failures already printed the redirect signal.
func inlineError(msg string, err error) error {
	if msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}
