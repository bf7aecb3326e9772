package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesProjectFile(t *testing.T) {
	root := t.TempDir()

	p, err := Init(root)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ProjectID)
	assert.Equal(t, root, p.Root)
	assert.Equal(t, "rocksdb", p.Engine)

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, p.ProjectID, loaded.ProjectID)
}

func TestInit_IsIdempotent(t *testing.T) {
	root := t.TempDir()

	first, err := Init(root)
	require.NoError(t, err)

	second, err := Init(root)
	require.NoError(t, err)

	assert.Equal(t, first.ProjectID, second.ProjectID)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root)
	assert.Error(t, err)
}

func TestAbsDBPath_JoinsRelativeToRoot(t *testing.T) {
	p := &Project{Root: "/repo", DBPath: ".parseltongue/db"}
	assert.Equal(t, "/repo/.parseltongue/db", p.AbsDBPath())
}

func TestAbsDBPath_PassesThroughAbsolute(t *testing.T) {
	p := &Project{Root: "/repo", DBPath: "/var/lib/parseltongue/db"}
	assert.Equal(t, "/var/lib/parseltongue/db", p.AbsDBPath())
}
