package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// newFixtureRepo initializes a real repository with one commit on main and
// returns its path together with the commit hash. Serving this directory
// over HTTP mimics a web server that exposes its metadata directory.
func newFixtureRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err, "failed to initialize fixture repo")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# fixture\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "notes.md"), []byte("notes\n"), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	err = w.AddGlob(".")
	require.NoError(t, err, "failed to stage fixture files")

	hash, err := w.Commit("Initial salvage fixture commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to commit fixture files")

	return dir, hash.String()
}

// advertisePack plants a pack pair inside the fixture's metadata directory
// and lists it in the objects/info/packs manifest, the layout a repacked
// repository has. The bytes are placeholders; only transfer is under test.
func advertisePack(t *testing.T, gitDir string) string {
	t.Helper()

	const packHash = "4a9c1e2b6d8f0a3c5e7b9d1f2a4c6e8b0d2f4a6c"
	packName := "pack-" + packHash + ".pack"

	packDir := filepath.Join(gitDir, "objects", "pack")
	require.NoError(t, os.MkdirAll(packDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, packName), []byte("PACK fixture bytes"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "pack-"+packHash+".idx"), []byte("IDX fixture bytes"), 0o600))

	infoDir := filepath.Join(gitDir, "objects", "info")
	require.NoError(t, os.MkdirAll(infoDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(infoDir, "packs"), []byte("P "+packHash+" "+packName+"\n"), 0o600))

	return packName
}
