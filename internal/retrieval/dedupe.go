package retrieval

import (
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/chamorro"
)

// dedupeKeyLength is the number of normalized runes of chunk text that feed
// the duplicate key. Long enough that distinct facts from the same source
// never collide, short enough to catch the same chunk indexed twice by an
// ingestion re-run.
const dedupeKeyLength = 120

// selectTop collapses near-duplicate candidates and truncates to finalK.
// Candidates must already be in final rank order; the first instance of each
// duplicate group is kept, which is the highest-scoring one. Distinct chunks
// from the same source survive, since a source may legitimately contribute
// multiple facts. The result is never padded: a deduplicated pool smaller
// than finalK returns as-is.
func selectTop(ranked []Candidate, finalK int) []Candidate {
	if finalK <= 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ranked))
	selected := make([]Candidate, 0, finalK)
	for _, c := range ranked {
		key := dedupeKey(c.Chunk.Text, c.Chunk.Source)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		selected = append(selected, c)
		if len(selected) == finalK {
			break
		}
	}
	return selected
}

// dedupeKey combines a normalized text prefix with the source identifier.
func dedupeKey(text, source string) string {
	normalized := chamorro.Normalize(text)
	runes := []rune(normalized)
	if len(runes) > dedupeKeyLength {
		normalized = string(runes[:dedupeKeyLength])
	}
	return normalized + "|" + source
}
