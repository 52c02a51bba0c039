package gitdir

import (
	"fmt"
	"strings"
)

// Pointer is the parsed content of a branch pointer file. Exactly one of
// Hash and Ref is set: Hash for the direct form, Ref for the symbolic form.
type Pointer struct {
	Hash string // direct content hash
	Ref  string // relative path of the secondary reference, e.g. "refs/heads/main"
}

// Symbolic reports whether the pointer names a secondary reference file
// instead of carrying the hash directly.
func (p Pointer) Symbolic() bool { return p.Ref != "" }

// ErrBadPointer signals pointer content matching neither the direct nor the
// symbolic grammar.
var ErrBadPointer = fmt.Errorf("pointer content is neither a hash nor a ref line")

// ParsePointer interprets pointer file content. Symbolic lines look like
// "ref: refs/heads/main"; anything else must be a bare content hash.
// Surrounding whitespace is insignificant in both forms.
func ParsePointer(content string) (Pointer, error) {
	line := strings.TrimSpace(content)
	if strings.HasPrefix(line, "ref:") {
		ref := strings.TrimSpace(strings.TrimPrefix(line, "ref:"))
		if ref == "" {
			return Pointer{}, fmt.Errorf("parse pointer %q: %w", line, ErrBadPointer)
		}
		return Pointer{Ref: ref}, nil
	}
	if ValidHash(line) {
		return Pointer{Hash: line}, nil
	}
	return Pointer{}, fmt.Errorf("parse pointer %q: %w", line, ErrBadPointer)
}
