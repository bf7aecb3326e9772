package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, contents string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestWalkRepository_ClassifiesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "notes.txt", "not code\n")

	result, err := WalkRepository(root, nil)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "main.go", result.Files[0].Path)
	assert.Equal(t, "go", result.Files[0].Language.Name)

	require.Len(t, result.IgnoredFiles, 1)
	assert.Equal(t, "notes.txt", result.IgnoredFiles[0].Path)
}

func TestWalkRepository_SkipsDefaultExcludeDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "vendor/dep.go", "package dep\n")
	writeFile(t, root, "src/app.go", "package app\n")

	result, err := WalkRepository(root, nil)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/app.go", result.Files[0].Path)
}

func TestWalkRepository_HonorsExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "gen/models.go", "package gen\n")
	writeFile(t, root, "src/app.go", "package app\n")
	writeFile(t, root, "src/app_test.go", "package app\n")

	result, err := WalkRepository(root, []string{"gen/**", "*_test.go"})
	require.NoError(t, err)

	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"src/app.go"}, paths)
}

func TestMatchesGlob_DirectoryAnyDepth(t *testing.T) {
	assert.True(t, matchesGlob("build/sub/out.go", "build/**"))
	assert.True(t, matchesGlob("build", "build/**"))
	assert.False(t, matchesGlob("rebuild/out.go", "build/**"))
}

func TestMatchesGlob_ExtensionPattern(t *testing.T) {
	assert.True(t, matchesGlob("pkg/model/model.pb.go", "*.pb.go"))
	assert.False(t, matchesGlob("pkg/model/model.go", "*.pb.go"))
}
