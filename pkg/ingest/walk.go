// Package ingest is the Ingestion Pipeline: directory walk, parallel
// per-file parsing with thread-local parser pools, cross-file call
// resolution, checkpointing, and the sequential batch commit to the graph
// store.
package ingest

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// defaultExcludeDirs mirrors the directories every ingest run skips
// regardless of user-supplied excludes — build artifacts and VCS metadata
// that never contain project source.
var defaultExcludeDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "dist": true, "build": true,
	"target": true, ".venv": true, "__pycache__": true, ".parseltongue": true,
}

// FileInfo is one file discovered during the walk, already matched (or
// not) against the language registry.
type FileInfo struct {
	Path         string // normalized, repo-relative
	FullPath     string
	Size         int64
	Language     langreg.Language
	IsUnsupported bool
	Extension    string
}

// WalkResult is everything WalkRepository found.
type WalkResult struct {
	Files        []FileInfo
	IgnoredFiles []FileInfo // extension maps to no known language
}

// WalkRepository walks root, classifying every regular file by extension
// via the language registry and skipping defaultExcludeDirs plus any
// caller-supplied glob patterns (matched against the repo-relative path as
// matchesAnyGlob describes).
func WalkRepository(root string, excludeGlobs []string) (WalkResult, error) {
	var result WalkResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		relPath = pathkey.Normalize(relPath)

		if d.IsDir() {
			if relPath != "" && (defaultExcludeDirs[d.Name()] || matchesAnyGlob(relPath, excludeGlobs)) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAnyGlob(relPath, excludeGlobs) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		ext := filepath.Ext(relPath)
		lang, ok := langreg.ByExtension(ext)
		fi := FileInfo{Path: relPath, FullPath: path, Size: info.Size(), Extension: ext}
		if !ok {
			fi.IsUnsupported = true
			result.IgnoredFiles = append(result.IgnoredFiles, fi)
			return nil
		}
		fi.Language = lang
		result.Files = append(result.Files, fi)
		return nil
	})

	return result, err
}

// matchesAnyGlob reports whether path matches any of patterns, using the
// subset of glob syntax the exclude list needs: "dir/**" (directory and
// everything under it, at any depth) and "*.ext" (extension match), falling
// back to filepath.Match against the whole path and then against each
// path segment.
func matchesAnyGlob(path string, patterns []string) bool {
	for _, p := range patterns {
		if matchesGlob(path, p) {
			return true
		}
	}
	return false
}

func matchesGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		parts := strings.Split(path, "/")
		for i := range parts {
			sub := strings.Join(parts[i:], "/")
			if sub == prefix || strings.HasPrefix(sub, prefix+"/") {
				return true
			}
		}
		return false
	}

	if strings.HasPrefix(pattern, "*.") && !strings.Contains(pattern, "/") {
		return strings.HasSuffix(path, pattern[1:])
	}

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	// Unanchored match against any path segment, mirroring the teacher's
	// "pattern without ** can match anywhere in the path" convenience rule.
	for _, seg := range strings.Split(path, "/") {
		if ok, err := filepath.Match(pattern, seg); err == nil && ok {
			return true
		}
	}
	return false
}
