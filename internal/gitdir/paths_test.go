package gitdir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapPaths_CatalogShape(t *testing.T) {
	paths := BootstrapPaths()
	require.Len(t, paths, 8)
	require.Equal(t, HeadPath, paths[0])
	require.Contains(t, paths, PacksManifestPath)
	require.Contains(t, paths, ".git/refs/heads/master")
	require.Contains(t, paths, ".git/refs/heads/main")
	for _, p := range paths {
		require.True(t, strings.HasPrefix(p, Prefix+"/"), "path %q", p)
	}
}

func TestProbePaths_LeadingCatalogSubset(t *testing.T) {
	probe := ProbePaths()
	require.Len(t, probe, 3)
	require.Equal(t, BootstrapPaths()[:3], probe)
}

func TestBootstrapPaths_ReturnsCopy(t *testing.T) {
	first := BootstrapPaths()
	first[0] = "mutated"
	require.Equal(t, HeadPath, BootstrapPaths()[0])
}

func TestObjectPath_SplitsHashAfterTwoChars(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef01234567"
	path := ObjectPath(hash)
	require.Equal(t, ".git/objects/01/23456789abcdef0123456789abcdef01234567", path)
}

func TestObjectPath_RoundTripsToHash(t *testing.T) {
	hash := "fedcba9876543210fedcba9876543210fedcba98"
	path := ObjectPath(hash)

	rest := strings.TrimPrefix(path, ".git/objects/")
	dir, file, found := strings.Cut(rest, "/")
	require.True(t, found)
	require.Len(t, dir, 2)
	require.Len(t, file, 38)
	require.Equal(t, hash, dir+file)
}

func TestIndexPathFor_SwapsSuffix(t *testing.T) {
	require.Equal(t, ".git/objects/pack/repo.idx", IndexPathFor(".git/objects/pack/repo.pack"))
	require.Equal(t, ".git/objects/pack/pack-abc.idx", IndexPathFor(PackDataPath("pack-abc.pack")))
}
