package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/parseltongue/parseltongue/internal/output"
	"github.com/parseltongue/parseltongue/pkg/config"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
)

// runQuery executes the 'query' command, running a raw CozoScript query
// against the local graph store.
func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	limit := fs.Int("limit", 0, "Append :limit to the query (0 = no limit)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: parseltongue query [options] <cozoscript>

Executes a CozoScript query against the local graph store.

Examples:
  parseltongue query "?[name, file_path] := *pt_entity { name, file_path }" --limit 10
  parseltongue query "?[key] := *pt_entity { key, name }, name = 'NewPipeline'"

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: script argument required")
		fs.Usage()
		os.Exit(1)
	}

	script := fs.Arg(0)
	if *limit > 0 {
		script = strings.TrimSpace(script)
		if !strings.Contains(strings.ToLower(script), ":limit") {
			script = fmt.Sprintf("%s\n:limit %d", script, *limit)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot get current directory: %v\n", err)
		os.Exit(1)
	}
	proj, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (run 'parseltongue init' first)\n", err)
		os.Exit(1)
	}

	store, err := graphstore.Open(graphstore.Config{
		DataDir: filepath.Join(cwd, proj.DBPath),
		Engine:  proj.Engine,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open graph store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	rows, err := store.RunQuery(context.Background(), script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: query failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		_ = output.JSON(rows)
		return
	}
	printRows(rows)
}

func printRows(rows graphstore.NamedRows) {
	fmt.Println(strings.Join(rows.Headers, "\t"))
	for _, row := range rows.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	fmt.Printf("\n(%d rows)\n", len(rows.Rows))
}
