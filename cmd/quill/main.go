package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}

	cliApp := &cli.App{
		Name:  "quill",
		Usage: "notes client for the quill API",
		Commands: []*cli.Command{
			registerCommand(a),
			loginCommand(a),
			logoutCommand(a),
			notesCommand(a),
			tagsCommand(a),
			themeCommand(a),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}
}
