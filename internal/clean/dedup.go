package clean

import "joblens-engine/internal/dataset"

// DedupByLink drops records whose link URL was already seen, keeping the
// first occurrence in encounter order. This catches listings that differ
// only in whitespace or casing elsewhere but point at the same posting.
// Records without a link are never collapsed into each other.
func DedupByLink(records []dataset.Record) []dataset.Record {
	out := make([]dataset.Record, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		link := r.Link()
		if link != "" {
			if seen[link] {
				continue
			}
			seen[link] = true
		}
		out = append(out, r)
	}
	return out
}
