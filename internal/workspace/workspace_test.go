package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_Ensure_CreatesRootAndMetadataDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "salvaged")
	m := NewManager(root)

	require.NoError(t, m.Ensure())

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	info, err = os.Stat(filepath.Join(root, ".git"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestManager_Ensure_Idempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "salvaged")
	m := NewManager(root)

	require.NoError(t, m.Ensure())
	marker := filepath.Join(m.GitDir(), "HEAD")
	require.NoError(t, os.WriteFile(marker, []byte("ref: refs/heads/main\n"), 0o600))

	require.NoError(t, m.Ensure())

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	require.Equal(t, "ref: refs/heads/main\n", string(data))
}

func TestManager_Ensure_EmptyRoot_ReturnsError(t *testing.T) {
	require.Error(t, NewManager("").Ensure())
}

func TestManager_GitDir_BelowRoot(t *testing.T) {
	m := NewManager(filepath.Join("some", "out"))
	require.Equal(t, filepath.Join("some", "out", ".git"), m.GitDir())
}
