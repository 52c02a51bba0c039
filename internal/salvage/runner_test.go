package salvage

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"git.home.luguber.info/inful/gitsalvage/internal/config"
	"git.home.luguber.info/inful/gitsalvage/internal/gitdir"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"github.com/stretchr/testify/require"
)

type requestLog struct {
	mu    sync.Mutex
	heads []string
	gets  []string
}

func (l *requestLog) record(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Method == http.MethodHead {
		l.heads = append(l.heads, r.URL.Path)
	} else {
		l.gets = append(l.gets, r.URL.Path)
	}
}

func (l *requestLog) headCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.heads)
}

func (l *requestLog) getCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.gets)
}

// newExposedServer serves the given relative paths the way a misconfigured
// web server would expose a repository metadata directory.
func newExposedServer(t *testing.T, files map[string]string) (*httptest.Server, *requestLog) {
	t.Helper()
	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.record(r)
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, log
}

// exposedRepoFiles builds a consistent fake repository: a symbolic HEAD, the
// branch it points at, one loose object and one advertised pack pair. The
// master ref is deliberately absent so one bootstrap download fails.
func exposedRepoFiles(commitHash, packHash string) map[string]string {
	packName := "pack-" + packHash + ".pack"
	files := map[string]string{
		".git/HEAD":               "ref: refs/heads/main\n",
		".git/config":             "[core]\n\trepositoryformatversion = 0\n",
		".git/description":        "Unnamed repository\n",
		".git/info/exclude":       "# exclude patterns\n",
		".git/objects/info/packs": "P " + packHash + " " + packName + "\n",
		".git/refs/heads/main":    commitHash + "\n",
		".git/index":              "DIRC fake index",
	}
	files[gitdir.ObjectPath(commitHash)] = "object-bytes"
	files[gitdir.PackDataPath(packName)] = "pack-bytes"
	files[gitdir.IndexPathFor(gitdir.PackDataPath(packName))] = "idx-bytes"
	return files
}

type runRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes []metrics.RunOutcomeLabel
}

func (r *runRecorder) IncRunOutcome(o metrics.RunOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	snapshot := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		snapshot[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return snapshot
}

func TestRunner_Run_FullPipeline_DownloadsEverything(t *testing.T) {
	commitHash := strings.Repeat("a", 40)
	packHash := strings.Repeat("b", 40)
	srv, log := newExposedServer(t, exposedRepoFiles(commitHash, packHash))

	out := t.TempDir()
	recorder := &runRecorder{}
	runner := NewRunner(config.NewTarget(srv.URL, out, 4), nil, srv.Client(), recorder)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, runner.State())
	require.Equal(t, StateDone, report.FinalState)
	require.Equal(t, gitdir.HeadPath, report.ProbeHit)
	require.Equal(t, commitHash, report.ResolvedRef)

	// 7 of 8 bootstrap files exist, plus one object and a pack pair.
	require.Equal(t, 10, report.FilesFetched)
	require.Equal(t, 1, report.FilesFailed)
	require.Len(t, report.Outcomes, 11)
	require.False(t, report.End.IsZero())

	// One probe hit on the first catalog path, one GET per attempted file.
	require.Equal(t, 1, log.headCount())
	require.Equal(t, 11, log.getCount())

	packPath := gitdir.PackDataPath("pack-" + packHash + ".pack")
	for _, rel := range []string{
		".git/HEAD",
		".git/refs/heads/main",
		gitdir.ObjectPath(commitHash),
		packPath,
		gitdir.IndexPathFor(packPath),
	} {
		_, statErr := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, statErr, rel)
	}
	objectData, readErr := os.ReadFile(filepath.Join(out, filepath.FromSlash(gitdir.ObjectPath(commitHash))))
	require.NoError(t, readErr)
	require.Equal(t, "object-bytes", string(objectData))

	for _, phase := range []string{PhaseProbe, PhaseBase, PhaseResolve, PhaseObjects, PhasePacks} {
		require.Contains(t, report.PhaseDurations, phase)
	}
	require.Equal(t, []metrics.RunOutcomeLabel{metrics.OutcomeComplete}, recorder.outcomes)
}

func TestRunner_Run_NoRepositoryExposed_AbortsBeforeAnyDownload(t *testing.T) {
	srv, log := newExposedServer(t, map[string]string{})

	out := t.TempDir()
	recorder := &runRecorder{}
	runner := NewRunner(config.NewTarget(srv.URL, out, 4), nil, srv.Client(), recorder)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateAborted, runner.State())
	require.Equal(t, StateAborted, report.FinalState)
	require.Empty(t, report.ProbeHit)
	require.Zero(t, report.FilesFetched)
	require.Empty(t, report.Outcomes)

	// All three probe paths were tried, nothing was ever downloaded.
	require.Equal(t, 3, log.headCount())
	require.Zero(t, log.getCount())
	require.Equal(t, []metrics.RunOutcomeLabel{metrics.OutcomeAborted}, recorder.outcomes)

	// The output tree is still prepared before probing.
	info, statErr := os.Stat(filepath.Join(out, ".git"))
	require.NoError(t, statErr)
	require.True(t, info.IsDir())
}

func TestRunner_Run_MissingPointer_SkipsObjectsButFetchesPacks(t *testing.T) {
	packHash := strings.Repeat("c", 40)
	packName := "pack-" + packHash + ".pack"
	files := map[string]string{
		".git/config":             "[core]\n",
		".git/objects/info/packs": "P " + packHash + " " + packName + "\n",
	}
	files[gitdir.PackDataPath(packName)] = "pack-bytes"
	files[gitdir.IndexPathFor(gitdir.PackDataPath(packName))] = "idx-bytes"
	srv, _ := newExposedServer(t, files)

	out := t.TempDir()
	runner := NewRunner(config.NewTarget(srv.URL, out, 4), nil, srv.Client(), nil)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, report.FinalState)
	require.Equal(t, ".git/config", report.ProbeHit)
	require.Empty(t, report.ResolvedRef)

	require.NotContains(t, report.PhaseDurations, PhaseObjects)
	for _, phase := range []string{PhaseProbe, PhaseBase, PhaseResolve, PhasePacks} {
		require.Contains(t, report.PhaseDurations, phase)
	}

	_, statErr := os.Stat(filepath.Join(out, filepath.FromSlash(gitdir.PackDataPath(packName))))
	require.NoError(t, statErr)
}

func TestRunner_Run_SecondRun_ProducesIdenticalTree(t *testing.T) {
	commitHash := strings.Repeat("d", 40)
	packHash := strings.Repeat("e", 40)
	srv, _ := newExposedServer(t, exposedRepoFiles(commitHash, packHash))

	out := t.TempDir()
	target := config.NewTarget(srv.URL, out, 4)

	first, err := NewRunner(target, nil, srv.Client(), nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, first.FinalState)
	before := snapshotTree(t, out)

	second, err := NewRunner(target, nil, srv.Client(), nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, second.FinalState)
	after := snapshotTree(t, out)

	require.Equal(t, before, after)
}

func TestRunner_Run_UnusableOutputDir_ReturnsError(t *testing.T) {
	srv, log := newExposedServer(t, map[string]string{})

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	runner := NewRunner(config.NewTarget(srv.URL, blocker, 4), nil, srv.Client(), nil)
	report, err := runner.Run(context.Background())
	require.Error(t, err)
	require.Nil(t, report)
	require.Zero(t, log.headCount())
}

func TestRunner_Run_ExtraPaths_AreDownloadedWithBaseFiles(t *testing.T) {
	commitHash := strings.Repeat("f", 40)
	packHash := strings.Repeat("0", 40)
	files := exposedRepoFiles(commitHash, packHash)
	files[".git/COMMIT_EDITMSG"] = "last commit message\n"
	srv, _ := newExposedServer(t, files)

	out := t.TempDir()
	settings := config.DefaultSettings()
	settings.ExtraPaths = []string{".git/COMMIT_EDITMSG"}
	runner := NewRunner(config.NewTarget(srv.URL, out, 4), settings, srv.Client(), nil)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, report.FinalState)

	data, readErr := os.ReadFile(filepath.Join(out, ".git", "COMMIT_EDITMSG"))
	require.NoError(t, readErr)
	require.Equal(t, "last commit message\n", string(data))
}
