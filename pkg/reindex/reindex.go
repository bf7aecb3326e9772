// Package reindex implements the incremental per-file reindex: short-circuit
// on an unchanged file hash, re-parse, match against the entities already
// stored for that file, and apply the resulting Added/Modified/Deleted/
// Unchanged set plus a full replacement of the file's outgoing edges.
package reindex

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/identity"
	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/model"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
	"github.com/parseltongue/parseltongue/pkg/testclass"
)

// Result reports what one reindex call did.
type Result struct {
	FilePath     string `json:"file_path"`
	HashChanged  bool   `json:"hash_changed"`
	Unchanged    int    `json:"unchanged"`
	Modified     int    `json:"modified"`
	Added        int    `json:"added"`
	Deleted      int    `json:"deleted"`
	EdgesWritten int    `json:"edges_written"`
}

// Reindexer guards at-most-one concurrent reindex per file path, per the
// concurrency model's ordering guarantee.
type Reindexer struct {
	store *graphstore.Store

	mu       sync.Mutex
	inFlight map[string]chan struct{}
}

// New builds a Reindexer writing into store.
func New(store *graphstore.Store) *Reindexer {
	return &Reindexer{store: store, inFlight: make(map[string]chan struct{})}
}

// ReindexFile runs the full incremental reindex contract for one file,
// reading it fresh from disk at fullPath. filePath is the normalized,
// repo-relative path used as the store's identity key.
func (r *Reindexer) ReindexFile(ctx context.Context, fullPath, filePath string, lang langreg.Language) (Result, error) {
	r.lock(filePath)
	defer r.unlock(filePath)

	source, err := os.ReadFile(fullPath)
	if err != nil {
		return Result{}, fmt.Errorf("reindex: read %s: %w", filePath, err)
	}

	fileHash := identity.ContentHash(string(source))
	stored, ok, err := r.store.QueryStoredFileHash(ctx, filePath)
	if err != nil {
		return Result{}, fmt.Errorf("reindex: query file hash: %w", err)
	}
	if ok && stored == fileHash {
		return Result{FilePath: filePath, HashChanged: false}, nil
	}

	var raw extract.Result
	if lang.Name == "swift" {
		decls := langreg.ExtractSwift(source)
		entities := make([]extract.RawEntity, 0, len(decls))
		for _, d := range decls {
			entities = append(entities, extract.RawEntity{
				Name: d.Name, Kind: d.Kind, LineStart: d.LineStart, LineEnd: d.LineEnd,
				Body: d.Body, Signature: d.Signature,
			})
		}
		raw = extract.Result{Entities: entities}
	} else {
		parser := newParser(lang)
		raw, err = extract.Extract(ctx, lang, filePath, source, parser)
		if err != nil {
			return Result{}, fmt.Errorf("reindex: parse %s: %w", filePath, err)
		}
	}

	old, err := r.store.QueryEntitiesForFile(ctx, filePath)
	if err != nil {
		return Result{}, fmt.Errorf("reindex: query stored entities: %w", err)
	}

	birth := time.Now().Unix()
	matches := identity.Match(lang.Name, filePath, old, raw.Entities, birth, testclass.Classify)

	res := Result{FilePath: filePath, HashChanged: true}
	var upserts []model.Entity
	var deleteKeys []string

	for _, m := range matches {
		switch m.Classification {
		case identity.Unchanged:
			res.Unchanged++
			upserts = append(upserts, *m.New)
		case identity.Modified:
			res.Modified++
			upserts = append(upserts, *m.New)
		case identity.Added:
			res.Added++
			upserts = append(upserts, *m.New)
		case identity.Deleted:
			res.Deleted++
			deleteKeys = append(deleteKeys, m.Old.Key)
		}
	}

	if len(deleteKeys) > 0 {
		if err := r.store.Execute(ctx, graphstore.DeleteEntitiesByKeysScript(deleteKeys)); err != nil {
			return Result{}, fmt.Errorf("reindex: delete stale entities: %w", err)
		}
	}
	if len(upserts) > 0 {
		if err := r.store.Execute(ctx, graphstore.InsertEntitiesScript(upserts)); err != nil {
			return Result{}, fmt.Errorf("reindex: upsert entities: %w", err)
		}
	}

	fileSlot := pathkey.FileSlot(filePath)
	if err := r.store.Execute(ctx, graphstore.DeleteEdgesFromFileScript(fileSlot)); err != nil {
		return Result{}, fmt.Errorf("reindex: clear stale edges: %w", err)
	}

	if len(raw.Edges) > 0 {
		edges := resolveEdges(lang.Name, upserts, raw.Edges, filePath)
		if len(edges) > 0 {
			if err := r.store.Execute(ctx, graphstore.InsertEdgesScript(edges)); err != nil {
				return Result{}, fmt.Errorf("reindex: insert edges: %w", err)
			}
		}
		res.EdgesWritten = len(edges)
	}

	if err := r.store.Execute(ctx, graphstore.UpsertFileHashScript(filePath, fileHash, birth)); err != nil {
		return Result{}, fmt.Errorf("reindex: upsert file hash: %w", err)
	}

	return res, nil
}

func (r *Reindexer) lock(filePath string) {
	r.mu.Lock()
	ch, busy := r.inFlight[filePath]
	if !busy {
		r.inFlight[filePath] = make(chan struct{})
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	<-ch
	r.lock(filePath)
}

func (r *Reindexer) unlock(filePath string) {
	r.mu.Lock()
	ch := r.inFlight[filePath]
	delete(r.inFlight, filePath)
	r.mu.Unlock()
	close(ch)
}
