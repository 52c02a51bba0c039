package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"git.home.luguber.info/inful/gitsalvage/internal/observability"
	"git.home.luguber.info/inful/gitsalvage/internal/transport"
)

// Fetcher retrieves single files and persists hits below the output root.
// It is the only component that writes repository files, and it never
// returns a Go error: every attempt becomes an Outcome.
type Fetcher struct {
	client   *transport.Client
	root     string
	recorder metrics.Recorder
}

// NewFetcher creates a Fetcher writing below outputRoot. A nil recorder
// falls back to the noop implementation.
func NewFetcher(client *transport.Client, outputRoot string, recorder metrics.Recorder) *Fetcher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Fetcher{client: client, root: outputRoot, recorder: recorder}
}

// Recorder exposes the metrics recorder for components built on the Fetcher.
func (f *Fetcher) Recorder() metrics.Recorder {
	return f.recorder
}

// LocalPath returns where a relative path lands below the output root.
func (f *Fetcher) LocalPath(relPath string) string {
	return filepath.Join(f.root, filepath.FromSlash(relPath))
}

// Fetch downloads one relative path. A 2xx answer persists the full body
// (parent directories created on demand, existing files overwritten);
// anything else is absorbed into a non-success Outcome.
func (f *Fetcher) Fetch(ctx context.Context, kind metrics.FetchKind, relPath string) Outcome {
	start := time.Now()
	out := f.fetch(ctx, relPath)
	f.recorder.ObserveFetchDuration(kind, time.Since(start), out.Success())
	f.recorder.IncFetchResult(kind, out.Success())

	switch out.Result {
	case ResultFetched:
		observability.DebugContext(ctx, "Fetched file", logfields.Path(relPath), logfields.Status(out.StatusCode))
	case ResultHTTPError:
		observability.DebugContext(ctx, "Fetch missed", logfields.Path(relPath), logfields.Status(out.StatusCode))
	case ResultError:
		observability.DebugContext(ctx, "Fetch failed", logfields.Path(relPath), logfields.Error(out.Err))
	}
	return out
}

func (f *Fetcher) fetch(ctx context.Context, relPath string) Outcome {
	resp, err := f.client.Get(ctx, relPath)
	if err != nil {
		return Outcome{Path: relPath, Result: ResultError, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if !transport.Success(resp.StatusCode) {
		return Outcome{Path: relPath, Result: ResultHTTPError, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Path: relPath, Result: ResultError, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body of %s: %w", relPath, err)}
	}

	localPath := f.LocalPath(relPath)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o750); err != nil {
		return Outcome{Path: relPath, Result: ResultError, StatusCode: resp.StatusCode, Err: fmt.Errorf("ensure parent of %s: %w", relPath, err)}
	}
	if err := os.WriteFile(localPath, body, 0o600); err != nil {
		return Outcome{Path: relPath, Result: ResultError, StatusCode: resp.StatusCode, Err: fmt.Errorf("write %s: %w", relPath, err)}
	}
	return Outcome{Path: relPath, Result: ResultFetched, StatusCode: resp.StatusCode}
}
