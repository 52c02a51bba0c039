package gitdir

import "regexp"

// hashRe matches a full content hash: exactly forty lowercase hex characters.
// Uppercase, short, long, and non-hex forms are all rejected.
var hashRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ValidHash reports whether s is a well-formed content hash. This is the
// single gate in front of object fetches; no object path may be derived
// from a string that fails it.
func ValidHash(s string) bool {
	return hashRe.MatchString(s)
}
