// Package packs fetches the pack and index files a downloaded manifest
// advertises.
package packs

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/gitsalvage/internal/fetch"
	"git.home.luguber.info/inful/gitsalvage/internal/gitdir"
	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"git.home.luguber.info/inful/gitsalvage/internal/observability"
)

// Fetcher downloads advertised pack/index pairs sequentially, in manifest
// order.
type Fetcher struct {
	files *fetch.Fetcher
}

// NewFetcher creates a pack Fetcher on the shared file fetcher.
func NewFetcher(files *fetch.Fetcher) *Fetcher {
	return &Fetcher{files: files}
}

// FetchAdvertised reads the locally downloaded pack manifest and fetches
// each advertised pack followed by its derived index. A manifest that was
// never downloaded makes the whole phase a no-op. Per-file misses are
// absorbed into outcomes; only a local read problem is an error.
func (f *Fetcher) FetchAdvertised(ctx context.Context) ([]fetch.Outcome, error) {
	data, err := os.ReadFile(f.files.LocalPath(gitdir.PacksManifestPath))
	if err != nil {
		if os.IsNotExist(err) {
			observability.DebugContext(ctx, "No pack manifest downloaded, nothing to fetch")
			return nil, nil
		}
		return nil, fmt.Errorf("read pack manifest: %w", err)
	}

	entries := gitdir.ParsePackManifest(string(data))
	if len(entries) == 0 {
		observability.DebugContext(ctx, "Pack manifest advertises no packs")
		return nil, nil
	}
	observability.InfoContext(ctx, "Fetching advertised packs", logfields.Count(len(entries)))

	outcomes := make([]fetch.Outcome, 0, len(entries)*2)
	for _, entry := range entries {
		packPath := gitdir.PackDataPath(entry.Name)
		outcomes = append(outcomes, f.files.Fetch(ctx, metrics.FetchPack, packPath))
		outcomes = append(outcomes, f.files.Fetch(ctx, metrics.FetchPack, gitdir.IndexPathFor(packPath)))
	}
	return outcomes, nil
}
