package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/parseltongue/parseltongue/internal/ui"
	"github.com/parseltongue/parseltongue/pkg/config"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/ingest"
)

// runIngest executes the 'ingest' command: walk the repository rooted at
// the project config's Root, parse every recognized file, and commit the
// resulting entities and edges to the graph store.
func runIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	debug := fs.Bool("debug", false, "Enable debug logging")
	quiet := fs.Bool("quiet", false, "Disable progress spinner")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: parseltongue ingest [options]

Walks the current repository and indexes it into the local graph store,
using configuration from .parseltongue/project.yaml.

Options:
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

	proj, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (run 'parseltongue init' first)\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	store, err := graphstore.Open(graphstore.Config{
		DataDir: graphstore.DataDirForProject(filepath.Join(cwd, proj.DBPath), ""),
		Engine:  proj.Engine,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open graph store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("ingest.interrupted")
		cancel()
	}()

	var spinner *progressbar.ProgressBar
	if !*quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		spinner = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("indexing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			t := time.NewTicker(100 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-stop:
					return
				case <-t.C:
					_ = spinner.Add(1)
				}
			}
		}()
	}

	opts := ingest.Options{
		Root:          cwd,
		ExcludeGlobs:  proj.ExcludeGlobs,
		Workers:       proj.Workers,
		ProjectID:     proj.ProjectID,
		CheckpointDir: filepath.Join(cwd, config.Dir, "checkpoints"),
	}

	result, err := ingest.Run(ctx, store, opts, logger)
	if spinner != nil {
		_ = spinner.Finish()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: ingest failed: %v\n", err)
		os.Exit(1)
	}

	printIngestResult(result)
}

func printIngestResult(r ingest.Result) {
	fmt.Println()
	ui.Header("Ingestion Complete")
	fmt.Printf("Files Processed:  %d\n", r.FilesProcessed)
	fmt.Printf("Files Ignored:    %d\n", r.FilesIgnored)
	fmt.Printf("Entities Written: %d\n", r.EntitiesWritten)
	fmt.Printf("Edges Written:    %d\n", r.EdgesWritten)
	if r.UnresolvedEdges > 0 {
		fmt.Printf("Unresolved Edges: %d\n", r.UnresolvedEdges)
	}
	if r.ParseErrors > 0 {
		ui.Warning(fmt.Sprintf("Parse Errors: %d", r.ParseErrors))
	}
	fmt.Printf("Duration:         %s\n", r.Duration)
}
