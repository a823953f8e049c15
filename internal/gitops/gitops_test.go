package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	err := Init(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestSnapshot(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "accounts.txt"), []byte("1001\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("untracked"), 0o644))

	hash, err := Snapshot(dir, "deposit: ACC1001", testAuthor, filepath.Join("data", "accounts.txt"))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify commit message.
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "deposit: ACC1001")

	// Verify author.
	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Test Author <test@example.com>")

	// Only the named path was committed.
	files := exec.Command("git", "ls-files")
	files.Dir = dir
	out, err = files.Output()
	require.NoError(t, err)
	assert.Equal(t, "data/accounts.txt\n", string(out))
}

func TestSnapshot_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.txt"), []byte("1001\n"), 0o644))

	first, err := Snapshot(dir, "first", testAuthor, "accounts.txt")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := Snapshot(dir, "second", testAuthor, "accounts.txt")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestSnapshot_LeavesOtherStagedFilesAlone(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.txt"), []byte("1001\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("draft"), 0o644))

	add := exec.Command("git", "add", "notes.txt")
	add.Dir = dir
	require.NoError(t, add.Run())

	hash, err := Snapshot(dir, "open: ACC1001", testAuthor, "accounts.txt")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	tree := exec.Command("git", "ls-tree", "-r", "--name-only", "HEAD")
	tree.Dir = dir
	out, err := tree.Output()
	require.NoError(t, err)
	assert.Equal(t, "accounts.txt\n", string(out))

	staged := exec.Command("git", "diff", "--cached", "--name-only")
	staged.Dir = dir
	out, err = staged.Output()
	require.NoError(t, err)
	assert.Equal(t, "notes.txt\n", string(out), "notes.txt is still staged")

	// Unchanged ledger with other work staged is a no-op.
	again, err := Snapshot(dir, "open: ACC1001", testAuthor, "accounts.txt")
	require.NoError(t, err)
	assert.Empty(t, again)
}
