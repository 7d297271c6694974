package retrieval

import (
	"sort"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/classifier"
)

// rerank computes each candidate's final score and re-sorts the slice in
// descending order. It is a pure, side-effect-free transform.
//
// The final score blends raw similarity with a deterministic metadata boost:
//
//	final = similarity + priority*multiplier(context, source_type) + bilingual bonus
//
// so a lower-similarity chunk from a trusted source can outrank a closer hit
// from a low-trust one. Ties break by higher static priority, then higher raw
// similarity, then original retrieval order.
func rerank(candidates []Candidate, intent classifier.Intent, cardType CardType, weights Weights) []Candidate {
	context := contextKey(intent, cardType)

	for i := range candidates {
		candidates[i].retrievalRank = i
		candidates[i].FinalScore = float64(candidates[i].Similarity) + priorityWeight(candidates[i], context, weights)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.Chunk.Priority != b.Chunk.Priority {
			return a.Chunk.Priority > b.Chunk.Priority
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.retrievalRank < b.retrievalRank
	})

	return candidates
}

// priorityWeight is the metadata-driven part of the final score.
func priorityWeight(c Candidate, context string, weights Weights) float64 {
	weight := float64(c.Chunk.Priority) * weights.multiplier(context, c.Chunk.SourceType)
	if c.Chunk.Bilingual {
		weight += weights.bilingualBonus(c.Chunk.SourceType)
	}
	return weight
}
