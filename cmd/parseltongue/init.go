package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/parseltongue/parseltongue/internal/ui"
	"github.com/parseltongue/parseltongue/pkg/config"
)

// runInit executes the 'init' command, creating .parseltongue/project.yaml
// in the current directory if one doesn't already exist.
func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: parseltongue init

Creates .parseltongue/project.yaml in the current directory.
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot get current directory: %v\n", err)
		os.Exit(1)
	}

	p, err := config.Init(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ui.Success(fmt.Sprintf("Created %s (project_id: %s)", config.Path(cwd), p.ProjectID))
}
