package fetch

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/gitsalvage/internal/gitdir"
	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"git.home.luguber.info/inful/gitsalvage/internal/observability"
)

// Pool downloads loose objects with bounded concurrency. It is the only
// concurrent component of the pipeline.
type Pool struct {
	fetcher *Fetcher
	threads int
}

// NewPool creates a Pool running at most threads downloads at once.
func NewPool(fetcher *Fetcher, threads int) *Pool {
	if threads < 1 {
		threads = 1
	}
	return &Pool{fetcher: fetcher, threads: threads}
}

// FetchObjects downloads the loose object files for the given hashes and
// returns one Outcome per issued fetch. Hashes that fail validation are
// dropped before any path is derived, and duplicates collapse to a single
// fetch so no two workers ever write the same file. The call blocks until
// every worker has finished.
func (p *Pool) FetchObjects(ctx context.Context, hashes []string) []Outcome {
	paths := make([]string, 0, len(hashes))
	seen := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		if !gitdir.ValidHash(h) {
			observability.DebugContext(ctx, "Skipping malformed object hash", logfields.Hash(h))
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		paths = append(paths, gitdir.ObjectPath(h))
	}
	if len(paths) == 0 {
		return nil
	}

	concurrency := p.threads
	if concurrency > len(paths) {
		concurrency = len(paths)
	}
	p.fetcher.Recorder().SetObjectConcurrency(concurrency)

	tasks := make(chan string)
	outcomes := make([]Outcome, 0, len(paths))
	var wg sync.WaitGroup
	var mu sync.Mutex
	worker := func() {
		defer wg.Done()
		for path := range tasks {
			out := p.fetcher.Fetch(ctx, metrics.FetchObject, path)
			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
		}
	}
	wg.Add(concurrency)
	for range concurrency {
		go worker()
	}
	for _, path := range paths {
		tasks <- path
	}
	close(tasks)
	wg.Wait()

	observability.DebugContext(ctx, "Object downloads finished",
		logfields.Count(len(outcomes)),
		logfields.Threads(concurrency))
	return outcomes
}
