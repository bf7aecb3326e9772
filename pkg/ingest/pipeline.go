package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/identity"
	"github.com/parseltongue/parseltongue/pkg/model"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
	"github.com/parseltongue/parseltongue/pkg/testclass"
)

// Options configures one ingestion run.
type Options struct {
	Root          string
	ExcludeGlobs  []string
	Workers       int // 0 selects a sensible default
	ProjectID     string
	CheckpointDir string
}

// Result summarizes a completed ingest run.
type Result struct {
	FilesProcessed   int
	FilesIgnored     int
	ParseErrors      int
	EntitiesWritten  int
	EdgesWritten     int
	UnresolvedEdges  int
	Duration         time.Duration
}

// Run walks Options.Root, parses every recognized file in parallel, each
// parse using a parser taken from a per-language pool for its duration, then
// sequentially assigns identity, resolves calls, and commits one batch
// transaction per graphstore.Batcher chunk.
//
// Parallel parsing and sequential parsing of the same file set must
// produce the same entity count — parseOne has no shared mutable state
// beyond the parser pool itself, so this holds by construction.
func Run(ctx context.Context, store *graphstore.Store, opts Options, logger *slog.Logger) (Result, error) {
	start := time.Now()
	if logger == nil {
		logger = slog.Default()
	}
	ingestMetrics.init()

	walked, err := WalkRepository(opts.Root, opts.ExcludeGlobs)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: walk repository: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}

	pool := newParserPool()
	parses := make([]fileParse, len(walked.Files))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	for i, fi := range walked.Files {
		i, fi := i, fi
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			parses[i] = parseOne(gctx, pool, fi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	birth := time.Now().Unix()
	var allEntities []model.Entity
	var coverageRows []model.FileWordCoverageRow
	var excludedRows []model.ExcludedTestEntityRow
	var rawEdgesByFile []fileEdges
	parseErrors := 0

	for _, fp := range parses {
		if fp.parseErr != nil {
			parseErrors++
			ingestMetrics.parseErrors.Inc()
			logger.Warn("ingest.parse.error", "path", fp.path, "err", fp.parseErr)
			continue
		}
		ingestMetrics.filesProcessed.Inc()

		l1, _ := pathkey.Subfolders(fp.path)
		coverageRows = append(coverageRows, coverageRow(l1, fp.path, fp.language, fp.raw))

		fresh := identity.AssignFresh(fp.language, fp.path, fp.raw.Entities, birth, testclass.Classify)
		baseIdx := len(allEntities)
		allEntities = append(allEntities, fresh...)

		for _, e := range fresh {
			if e.EntityClass != model.ClassTest {
				continue
			}
			reason, _ := testclass.Classify(fp.path, e.Name, e.Code)
			excludedRows = append(excludedRows, model.ExcludedTestEntityRow{
				EntityName:      e.Name,
				FolderPath:      l1,
				Filename:        fp.path,
				EntityClass:     e.EntityClass,
				Language:        e.Language,
				LineStart:       e.LineStart,
				LineEnd:         e.LineEnd,
				DetectionReason: reason,
			})
		}

		rawEdgesByFile = append(rawEdgesByFile, fileEdges{
			path:     fp.path,
			language: fp.language,
			baseIdx:  baseIdx,
			edges:    fp.raw.Edges,
		})
	}

	resolver := NewResolver(allEntities)
	var edges []model.DependencyEdge
	unresolvedCount := 0
	for _, fe := range rawEdgesByFile {
		l1, l2 := pathkey.Subfolders(fe.path)
		for _, re := range fe.edges {
			fromKey := unresolvedCallerKey(allEntities, fe.baseIdx, re.CallerIndex)
			toKey := resolver.Resolve(fe.language, l1, l2, re.CalleeName)
			if toKey == pathkey.UnresolvedKey(fe.language, re.CalleeName).Encode() {
				ingestMetrics.edgesUnresolved.Inc()
				unresolvedCount++
			}
			edges = append(edges, model.DependencyEdge{
				FromKey:        fromKey,
				ToKey:          toKey,
				EdgeType:       model.EdgeType(re.EdgeType),
				SourceLocation: fmt.Sprintf("%s:%d", fe.path, re.Line),
			})
		}
	}

	ignoredRows := make([]model.IgnoredFileRow, 0, len(walked.IgnoredFiles))
	for _, f := range walked.IgnoredFiles {
		ingestMetrics.filesIgnored.Inc()
		l1, _ := pathkey.Subfolders(f.Path)
		ignoredRows = append(ignoredRows, model.IgnoredFileRow{
			FolderPath: l1,
			Filename:   f.Path,
			Extension:  f.Extension,
			Reason:     "no registered language for extension",
		})
	}

	if err := commit(ctx, store, allEntities, edges, coverageRows, excludedRows, ignoredRows, birth); err != nil {
		return Result{}, err
	}

	if opts.CheckpointDir != "" && opts.ProjectID != "" {
		cm := NewCheckpointManager(opts.CheckpointDir)
		if err := cm.Clear(opts.ProjectID); err != nil {
			logger.Warn("ingest.checkpoint.clear_failed", "project_id", opts.ProjectID, "err", err)
		}
	}

	ingestMetrics.entitiesAdded.Add(float64(len(allEntities)))

	res := Result{
		FilesProcessed:  len(walked.Files) - parseErrors,
		FilesIgnored:    len(walked.IgnoredFiles),
		ParseErrors:     parseErrors,
		EntitiesWritten: len(allEntities),
		EdgesWritten:    len(edges),
		UnresolvedEdges: unresolvedCount,
		Duration:        time.Since(start),
	}
	ingestMetrics.totalDuration.Observe(res.Duration.Seconds())
	return res, nil
}

type fileEdges struct {
	path     string
	language string
	baseIdx  int
	edges    []extract.RawEdge
}

// unresolvedCallerKey maps a RawEdge's CallerIndex (an index into one
// file's own RawEntity slice, or -1) back to the assigned key of the
// matching entity in the full, already-keyed allEntities slice.
func unresolvedCallerKey(all []model.Entity, baseIdx, callerIndex int) string {
	if callerIndex < 0 {
		return ""
	}
	idx := baseIdx + callerIndex
	if idx < 0 || idx >= len(all) {
		return ""
	}
	return all[idx].Key
}

func commit(ctx context.Context, store *graphstore.Store, entities []model.Entity, edges []model.DependencyEdge, coverage []model.FileWordCoverageRow, excluded []model.ExcludedTestEntityRow, ignored []model.IgnoredFileRow, birth int64) error {
	batcher := graphstore.NewBatcher(500, 2<<20)
	start := time.Now()

	scripts := []string{
		graphstore.InsertEntitiesScript(entities),
		graphstore.InsertEdgesScript(edges),
		graphstore.InsertCoverageScript(coverage),
		graphstore.InsertExcludedScript(excluded),
		graphstore.InsertIgnoredScript(ignored),
	}

	for _, script := range scripts {
		if script == "" {
			continue
		}
		batches, err := batcher.Batch(script)
		if err != nil {
			return fmt.Errorf("ingest: batch commit script: %w", err)
		}
		for _, b := range batches {
			if err := store.Execute(ctx, b); err != nil {
				return fmt.Errorf("ingest: commit batch: %w", err)
			}
			ingestMetrics.batchesSent.Inc()
		}
	}

	for _, e := range entities {
		if err := store.Execute(ctx, graphstore.UpsertFileHashScript(e.FilePath, e.ContentHash, birth)); err != nil {
			return fmt.Errorf("ingest: upsert file hash: %w", err)
		}
	}

	ingestMetrics.writeDuration.Observe(time.Since(start).Seconds())
	return nil
}
