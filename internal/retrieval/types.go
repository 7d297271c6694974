package retrieval

import (
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/classifier"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
)

// CardType is an explicit override of query intent used by content-generation
// callers (flashcard/quiz generators) that know their content shape up front.
type CardType string

const (
	CardTypeNone     CardType = ""
	CardTypeWords    CardType = "words"
	CardTypePhrases  CardType = "phrases"
	CardTypeNumbers  CardType = "numbers"
	CardTypeCultural CardType = "cultural"
)

// Request represents one retrieval call.
type Request struct {
	// Query is the raw user question.
	Query string `json:"query"`
	// FinalK optionally overrides the configured result count.
	FinalK int `json:"k,omitempty"`
	// CardType overrides intent-based weighting for non-chat callers.
	CardType CardType `json:"card_type,omitempty"`
}

// Candidate is an ephemeral per-query ranking unit: a chunk plus its raw
// similarity and post-boost final score. Never persisted.
type Candidate struct {
	Chunk      storage.Chunk
	Similarity float32
	FinalScore float64

	// retrievalRank preserves the original similarity order as the last
	// tie-break, keeping ranking reproducible for identical inputs.
	retrievalRank int
}

// Citation is a human-readable source attribution. Page is nil for
// non-paginated sources.
type Citation struct {
	DisplayName string `json:"name"`
	Page        *int   `json:"page,omitempty"`
}

// Result is the outcome of one retrieval call.
type Result struct {
	// ContextText is the assembled grounding block, empty when retrieval
	// was skipped or nothing matched.
	ContextText string `json:"context_text"`
	// Citations lists sources in final rank order, deduplicated by display
	// name.
	Citations []Citation `json:"citations"`
	// Engaged is false when the classifier chose to skip retrieval or the
	// pipeline degraded; an empty context with Engaged=false is not a
	// failure.
	Engaged bool `json:"engaged"`
	// DeferredToWeb signals the caller to separately invoke the web search
	// fallback.
	DeferredToWeb bool `json:"deferred_to_web"`
	// Intent is the classifier's decision, exposed for callers and logs.
	Intent classifier.Intent `json:"intent"`
}
