package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/parseltongue/parseltongue/internal/ui"
	"github.com/parseltongue/parseltongue/pkg/config"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/httpapi"
	"github.com/parseltongue/parseltongue/pkg/reindex"
	"github.com/parseltongue/parseltongue/pkg/watcher"
)

// runServe executes the 'serve' command: open the graph store, start the
// file watcher (unless disabled), and serve the HTTP query API until
// interrupted.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8420", "HTTP listen address")
	noWatch := fs.Bool("no-watch", false, "Disable the file watcher")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: parseltongue serve [options]

Serves the HTTP query API over the local graph store and watches the
repository for changes, triggering incremental reindexes.

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := graphstore.Open(graphstore.Config{
		DataDir: filepath.Join(cwd, proj.DBPath),
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
		logger.Info("serve.shutdown.signal")
		cancel()
	}()

	var w *watcher.Watcher
	if !*noWatch {
		rx := reindex.New(store)
		w = watcher.New(cwd, rx, 0, logger)
		if err := w.Start(ctx); err != nil {
			logger.Warn("watcher.start.error", "err", err)
			w = nil
		} else {
			ui.Success(fmt.Sprintf("Watching %s for changes", cwd))
		}
	}

	server := httpapi.New(store, w)
	httpServer := &http.Server{Addr: *addr, Handler: server}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	ui.Success(fmt.Sprintf("Serving on %s", *addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "Error: server: %v\n", err)
		os.Exit(1)
	}
}
