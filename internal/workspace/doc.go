// Package workspace manages the output tree a salvage run reconstructs
// into: the output root and the .git metadata directory below it.
//
// The tree is the deliverable of a run, so creation is idempotent and
// nothing is ever cleaned up. A repeated run against the same directory
// overwrites files in place.
package workspace
