// Package resolve turns the downloaded branch pointer into the content
// hash it names.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/gitsalvage/internal/fetch"
	"git.home.luguber.info/inful/gitsalvage/internal/gitdir"
	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"git.home.luguber.info/inful/gitsalvage/internal/observability"
)

// ErrNoPointer signals that no pointer content was available: the HEAD
// file was never downloaded, or its secondary reference could not be
// obtained. Grammar failures surface as gitdir.ErrBadPointer instead.
var ErrNoPointer = errors.New("pointer file not available")

// Resolver resolves the local HEAD pointer to a content hash, following at
// most one level of symbolic indirection.
type Resolver struct {
	fetcher *fetch.Fetcher
}

// NewResolver creates a Resolver reading through the given Fetcher's
// output root.
func NewResolver(fetcher *fetch.Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Head resolves the downloaded HEAD pointer. Direct hash content returns
// as-is. Symbolic content resolves against the local copy of the secondary
// reference when one exists; otherwise the secondary path is fetched
// exactly once and read back. The secondary content is trimmed but not
// shape-validated here; the object pool validates every hash before
// fetching anything.
func (r *Resolver) Head(ctx context.Context) (string, error) {
	data, err := os.ReadFile(r.fetcher.LocalPath(gitdir.HeadPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("read %s: %w", gitdir.HeadPath, ErrNoPointer)
		}
		return "", fmt.Errorf("read %s: %w", gitdir.HeadPath, err)
	}

	ptr, err := gitdir.ParsePointer(string(data))
	if err != nil {
		return "", err
	}
	if !ptr.Symbolic() {
		observability.DebugContext(ctx, "Pointer carries hash directly", logfields.Hash(ptr.Hash))
		return ptr.Hash, nil
	}

	refRel := gitdir.Prefix + "/" + ptr.Ref
	refLocal := r.fetcher.LocalPath(refRel)
	if refData, refErr := os.ReadFile(refLocal); refErr == nil {
		observability.DebugContext(ctx, "Resolved symbolic reference locally", logfields.Path(refRel))
		return strings.TrimSpace(string(refData)), nil
	}

	// The secondary reference was not among the bootstrap downloads.
	// One fetch, then a single re-read; no retries.
	r.fetcher.Fetch(ctx, metrics.FetchRef, refRel)

	refData, err := os.ReadFile(refLocal)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("secondary reference %s: %w", ptr.Ref, ErrNoPointer)
		}
		return "", fmt.Errorf("read secondary reference %s: %w", ptr.Ref, err)
	}
	observability.DebugContext(ctx, "Resolved symbolic reference after fetch", logfields.Path(refRel))
	return strings.TrimSpace(string(refData)), nil
}
