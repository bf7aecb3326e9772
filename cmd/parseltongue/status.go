package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/parseltongue/parseltongue/internal/output"
	"github.com/parseltongue/parseltongue/pkg/config"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
)

// statusResult is the 'status' command's JSON output shape.
type statusResult struct {
	ProjectID string   `json:"project_id"`
	DataDir   string   `json:"data_dir"`
	Entities  int      `json:"entities"`
	Edges     int      `json:"edges"`
	Languages []string `json:"languages"`
	Error     string   `json:"error,omitempty"`
}

// runStatus executes the 'status' command, printing entity/edge counts
// from the local graph store.
func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: parseltongue status [options]\n\nOptions:\n")
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

	proj, err := config.Load(cwd)
	if err != nil {
		emitStatusError(*jsonOut, err)
		return
	}

	dataDir := filepath.Join(cwd, proj.DBPath)
	result := statusResult{ProjectID: proj.ProjectID, DataDir: dataDir}

	store, err := graphstore.Open(graphstore.Config{DataDir: dataDir, Engine: proj.Engine})
	if err != nil {
		result.Error = err.Error()
		printStatus(result, *jsonOut)
		os.Exit(1)
	}
	defer store.Close()

	entities, edges, languages, err := store.QueryCounts(context.Background())
	if err != nil {
		result.Error = err.Error()
		printStatus(result, *jsonOut)
		os.Exit(1)
	}
	result.Entities, result.Edges, result.Languages = entities, edges, languages
	printStatus(result, *jsonOut)
}

func emitStatusError(jsonOut bool, err error) {
	if jsonOut {
		_ = output.JSON(statusResult{Error: err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v (run 'parseltongue init' first)\n", err)
	}
	os.Exit(1)
}

func printStatus(r statusResult, jsonOut bool) {
	if jsonOut {
		_ = output.JSON(r)
		return
	}
	fmt.Println("Parseltongue Project Status")
	fmt.Println("===========================")
	fmt.Printf("Project ID: %s\n", r.ProjectID)
	fmt.Printf("Data Dir:   %s\n", r.DataDir)
	fmt.Printf("Entities:   %d\n", r.Entities)
	fmt.Printf("Edges:      %d\n", r.Edges)
	fmt.Printf("Languages:  %v\n", r.Languages)
	if r.Error != "" {
		fmt.Printf("\nWarning: %s\n", r.Error)
	}
}
