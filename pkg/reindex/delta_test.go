package reindex

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, root, rel, contents string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestDetectDelta_AddedModifiedDeleted(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "test")

	writeFile(t, dir, "keep.go", "package keep\n")
	writeFile(t, dir, "remove.go", "package remove\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "base")

	baseOut, err := exec.Command("git", "-C", dir, "rev-parse", "HEAD").Output()
	require.NoError(t, err)
	base := string(baseOut[:len(baseOut)-1])

	writeFile(t, dir, "keep.go", "package keep\n\nfunc Changed() {}\n")
	writeFile(t, dir, "new.go", "package new\n")
	require.NoError(t, exec.Command("git", "-C", dir, "rm", "-q", "remove.go").Run())
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "head")

	delta, err := DetectDelta(dir, base, "HEAD")
	require.NoError(t, err)

	require.Equal(t, []string{"new.go"}, delta.Added)
	require.Equal(t, []string{"keep.go"}, delta.Modified)
	require.Equal(t, []string{"remove.go"}, delta.Deleted)
}
