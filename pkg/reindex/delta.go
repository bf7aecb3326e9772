package reindex

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// GitDelta is the set of files git reports changed between two commits,
// split into the buckets ReindexFromGitDelta acts on.
type GitDelta struct {
	BaseSHA  string
	HeadSHA  string
	Added    []string
	Modified []string
	Deleted  []string
}

// emptyTreeSHA is git's fixed hash for the empty tree, used as the base
// when comparing against the start of history.
const emptyTreeSHA = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// DetectDelta runs `git diff --name-status` between baseSHA and headSHA
// inside repoRoot. An empty baseSHA compares against the empty tree, so
// every tracked file reports as Added.
func DetectDelta(repoRoot, baseSHA, headSHA string) (GitDelta, error) {
	if headSHA == "" {
		headSHA = "HEAD"
	}
	if baseSHA == "" {
		baseSHA = emptyTreeSHA
	}

	cmd := exec.Command("git", "diff", "--name-status", "-M", baseSHA, headSHA)
	cmd.Dir = repoRoot
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return GitDelta{}, fmt.Errorf("reindex: git diff: %s", string(exitErr.Stderr))
		}
		return GitDelta{}, fmt.Errorf("reindex: git diff: %w", err)
	}

	delta := GitDelta{BaseSHA: baseSHA, HeadSHA: headSHA}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		status, paths := parts[0], parts[1:]

		switch status[0] {
		case 'A':
			delta.Added = append(delta.Added, paths[0])
		case 'M':
			delta.Modified = append(delta.Modified, paths[0])
		case 'D':
			delta.Deleted = append(delta.Deleted, paths[0])
		case 'R':
			// Rename: treated as delete of the old path plus add of the new,
			// same v1 simplification the teacher's delta detector uses.
			if len(paths) >= 2 {
				delta.Deleted = append(delta.Deleted, paths[0])
				delta.Added = append(delta.Added, paths[1])
			}
		case 'C':
			if len(paths) >= 2 {
				delta.Added = append(delta.Added, paths[1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return GitDelta{}, fmt.Errorf("reindex: parse git diff: %w", err)
	}

	sort.Strings(delta.Added)
	sort.Strings(delta.Modified)
	sort.Strings(delta.Deleted)
	return delta, nil
}

// DeltaResult summarizes one ReindexFromGitDelta call.
type DeltaResult struct {
	Delta       GitDelta
	Reindexed   []Result
	Deleted     []string
	FailedPaths map[string]error
}

// ReindexFromGitDelta detects the changed files between base and head and
// feeds each added/modified one through ReindexFile, skipping files whose
// extension maps to no registered language. Deleted files are removed
// outright via DeleteEntitiesByKeysScript-equivalent edge/entity cleanup.
// This is additive to the per-file contract of ReindexFile — it does not
// change per-file semantics, only batches the trigger.
func (r *Reindexer) ReindexFromGitDelta(ctx context.Context, repoRoot, baseSHA, headSHA string) (DeltaResult, error) {
	delta, err := DetectDelta(repoRoot, baseSHA, headSHA)
	if err != nil {
		return DeltaResult{}, err
	}

	out := DeltaResult{Delta: delta, FailedPaths: make(map[string]error)}

	for _, rel := range append(append([]string{}, delta.Added...), delta.Modified...) {
		normalized := pathkey.Normalize(rel)
		lang, ok := langreg.ByExtension(extOf(normalized))
		if !ok {
			continue
		}
		full := filepath.Join(repoRoot, rel)
		res, err := r.ReindexFile(ctx, full, normalized, lang)
		if err != nil {
			out.FailedPaths[rel] = err
			continue
		}
		out.Reindexed = append(out.Reindexed, res)
	}

	for _, rel := range delta.Deleted {
		normalized := pathkey.Normalize(rel)
		old, err := r.store.QueryEntitiesForFile(ctx, normalized)
		if err != nil {
			out.FailedPaths[rel] = err
			continue
		}
		keys := make([]string, len(old))
		for i, e := range old {
			keys[i] = e.Key
		}
		if len(keys) > 0 {
			if err := r.store.Execute(ctx, graphstore.DeleteEntitiesByKeysScript(keys)); err != nil {
				out.FailedPaths[rel] = err
				continue
			}
		}
		fileSlot := pathkey.FileSlot(normalized)
		if err := r.store.Execute(ctx, graphstore.DeleteEdgesFromFileScript(fileSlot)); err != nil {
			out.FailedPaths[rel] = err
			continue
		}
		out.Deleted = append(out.Deleted, normalized)
	}

	return out, nil
}

func extOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}
