// Package probe decides whether a target is worth salvaging at all.
package probe

import (
	"context"

	"git.home.luguber.info/inful/gitsalvage/internal/gitdir"
	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
	"git.home.luguber.info/inful/gitsalvage/internal/observability"
	"git.home.luguber.info/inful/gitsalvage/internal/transport"
)

// Prober checks for an exposed metadata directory with header-only
// requests. Nothing is downloaded during probing.
type Prober struct {
	client *transport.Client
}

// NewProber creates a Prober on the shared transport client.
func NewProber(client *transport.Client) *Prober {
	return &Prober{client: client}
}

// Detect issues one HEAD request per probe path, in catalog order, and
// stops at the first 2xx answer. Request failures count as misses. When
// every probe misses, ok is false and the caller aborts before any
// download happens.
func (p *Prober) Detect(ctx context.Context) (hitPath string, ok bool) {
	for _, relPath := range gitdir.ProbePaths() {
		resp, err := p.client.Head(ctx, relPath)
		if err != nil {
			observability.DebugContext(ctx, "Probe request failed", logfields.Path(relPath), logfields.Error(err))
			continue
		}
		_ = resp.Body.Close()
		if transport.Success(resp.StatusCode) {
			observability.InfoContext(ctx, "Exposed metadata directory found", logfields.Path(relPath), logfields.Status(resp.StatusCode))
			return relPath, true
		}
		observability.DebugContext(ctx, "Probe missed", logfields.Path(relPath), logfields.Status(resp.StatusCode))
	}
	return "", false
}
