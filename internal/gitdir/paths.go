package gitdir

import "strings"

// Prefix is the metadata directory every relative path in the catalog starts with.
const Prefix = ".git"

// Well-known relative paths referenced by name elsewhere in the pipeline.
const (
	HeadPath          = ".git/HEAD"
	PacksManifestPath = ".git/objects/info/packs"
)

// bootstrapPaths is the ordered catalog of files worth grabbing before any
// content inspection happens. Order matters: the leading entries double as
// the exposure probe subset, and downloads happen in catalog order.
// Both refs/heads/master and refs/heads/main stay listed so either
// default-branch vintage is covered; the miss is absorbed downstream.
var bootstrapPaths = []string{
	HeadPath,
	".git/config",
	".git/description",
	".git/info/exclude",
	PacksManifestPath,
	".git/refs/heads/master",
	".git/refs/heads/main",
	".git/index",
}

// probeCount is how many leading catalog entries the exposure probe checks.
const probeCount = 3

// BootstrapPaths returns the ordered bootstrap catalog. Callers get a copy
// so the catalog itself stays immutable.
func BootstrapPaths() []string {
	out := make([]string, len(bootstrapPaths))
	copy(out, bootstrapPaths)
	return out
}

// ProbePaths returns the leading catalog entries used to detect exposure.
func ProbePaths() []string {
	out := make([]string, probeCount)
	copy(out, bootstrapPaths[:probeCount])
	return out
}

// ObjectPath derives the loose object location for a content hash:
// the first two hex characters name the fan-out directory, the remaining
// thirty-eight name the file. The hash must already be validated.
func ObjectPath(hash string) string {
	return ".git/objects/" + hash[:2] + "/" + hash[2:]
}

// PackDataPath returns the relative location of a named pack file.
func PackDataPath(name string) string {
	return ".git/objects/pack/" + name
}

// IndexPathFor derives the companion index location for a pack path by
// suffix substitution (.pack becomes .idx).
func IndexPathFor(packPath string) string {
	return strings.TrimSuffix(packPath, ".pack") + ".idx"
}
