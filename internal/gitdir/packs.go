package gitdir

import "regexp"

// packLineRe matches manifest entries of the form "P <hash> <name>.pack".
// Lines that do not match are ignored rather than treated as errors; real
// manifests carry trailing blank lines and occasionally other markers.
var packLineRe = regexp.MustCompile(`P ([0-9a-f]{40}) (.+\.pack)`)

// PackEntry is one advertised pack from the objects/info/packs manifest.
type PackEntry struct {
	Hash string // pack content hash as advertised
	Name string // pack file name, always ending in .pack
}

// ParsePackManifest extracts advertised packs from manifest content,
// preserving manifest order. Unparseable lines are skipped; an empty or
// entirely malformed manifest yields no entries.
func ParsePackManifest(content string) []PackEntry {
	matches := packLineRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	entries := make([]PackEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, PackEntry{Hash: m[1], Name: m[2]})
	}
	return entries
}
