package retrieval

import (
	"context"
	"log/slog"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/classifier"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/contextutil"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/llm"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore"
)

const (
	defaultFinalK = 5
	maxFinalK     = 20

	defaultOverFetchFactor = 4
)

// Engine selects the most relevant, highest-quality corpus fragments to
// ground a tutoring answer.
type Engine interface {
	// Retrieve runs classify → embed → search → rerank → dedupe/select →
	// assemble for one query. It never fails a conversation: transport
	// errors degrade to an ungrounded result instead of returning an error.
	Retrieve(ctx context.Context, req Request) (Result, error)
}

// retrievalEngine implements the Engine interface. Every stage is a pure
// function or a read-only store query, so concurrent calls interleave safely
// without locking.
type retrievalEngine struct {
	classifier      *classifier.Classifier
	embedder        llm.Embedder
	vectorStore     vectorstore.VectorStore
	collection      string
	chunkRepo       storage.ChunkStore
	weights         Weights
	finalK          int
	overFetchFactor int
	logger          *slog.Logger
}

// Options tune the engine beyond its required collaborators.
type Options struct {
	// FinalK is the default result count when the request leaves it unset.
	FinalK int
	// OverFetchFactor is the candidate over-fetch multiple (3–5× leaves
	// headroom for priority boosts to promote lower-similarity chunks).
	OverFetchFactor int
	// Weights overrides DefaultWeights when non-nil.
	Weights *Weights
}

// NewEngine creates a retrieval engine.
func NewEngine(
	cls *classifier.Classifier,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
	opts Options,
) Engine {
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	finalK := opts.FinalK
	if finalK <= 0 {
		finalK = defaultFinalK
	}
	overFetch := opts.OverFetchFactor
	if overFetch <= 1 {
		overFetch = defaultOverFetchFactor
	}

	return &retrievalEngine{
		classifier:      cls,
		embedder:        embedder,
		vectorStore:     vectorStore,
		collection:      collection,
		chunkRepo:       chunkRepo,
		weights:         weights,
		finalK:          finalK,
		overFetchFactor: overFetch,
		logger:          slog.Default(),
	}
}

// Retrieve answers one retrieval request.
func (e *retrievalEngine) Retrieve(ctx context.Context, req Request) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	decision := e.classifier.Classify(req.Query)
	logger.InfoContext(ctx, "query classified",
		"intent", decision.Intent,
		"engagement", decision.Engagement,
		"card_type", req.CardType,
	)

	switch decision.Engagement {
	case classifier.EngageSkip:
		// Small talk: an empty context is a valid answer state, not a
		// failure.
		return Result{Citations: []Citation{}, Intent: decision.Intent}, nil
	case classifier.EngageDeferWeb:
		return Result{Citations: []Citation{}, DeferredToWeb: true, Intent: decision.Intent}, nil
	}

	finalK := clampFinalK(req.FinalK, e.finalK)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{req.Query})
	if err != nil || len(embeddings) == 0 {
		// Degrade instead of failing the conversation: the caller proceeds
		// ungrounded or web-grounded.
		logger.ErrorContext(ctx, "failed to embed query, degrading to no-context result", "error", err)
		return Result{Citations: []Citation{}, DeferredToWeb: true, Intent: decision.Intent}, nil
	}
	queryVector := embeddings[0]

	var filter *vectorstore.Filter
	if types := sourceTypeFilter(req.CardType); len(types) > 0 {
		filter = &vectorstore.Filter{SourceTypes: types}
	}

	overFetchK := finalK * e.overFetchFactor
	hits, err := e.vectorStore.Search(ctx, e.collection, queryVector, overFetchK, filter)
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed, degrading to no-context result", "error", err)
		return Result{Citations: []Citation{}, DeferredToWeb: true, Intent: decision.Intent}, nil
	}

	logger.DebugContext(ctx, "vector search completed",
		"over_fetch_k", overFetchK,
		"hits", len(hits),
	)

	candidates := e.hydrate(ctx, hits)
	if len(candidates) == 0 {
		logger.InfoContext(ctx, "no candidates after hydration")
		return Result{Citations: []Citation{}, Engaged: true, Intent: decision.Intent}, nil
	}

	ranked := rerank(candidates, decision.Intent, req.CardType, e.weights)
	selected := selectTop(ranked, finalK)
	contextText, citations := assemble(ctx, selected)

	logger.InfoContext(ctx, "retrieval completed",
		"candidates", len(candidates),
		"selected", len(selected),
		"citations", len(citations),
		"context_length", len(contextText),
	)

	return Result{
		ContextText: contextText,
		Citations:   citations,
		Engaged:     true,
		Intent:      decision.Intent,
	}, nil
}

// hydrate resolves vector hits into full chunks from the relational store.
// Hits whose chunk record is missing are skipped with a warning; a stale
// index entry must not abort the whole retrieval.
func (e *retrievalEngine) hydrate(ctx context.Context, hits []vectorstore.SearchResult) []Candidate {
	logger := contextutil.LoggerFromContext(ctx)

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		chunk, err := e.chunkRepo.GetByID(ctx, hit.PointID)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch chunk for vector hit",
				"chunk_id", hit.PointID, "error", err)
			continue
		}
		candidates = append(candidates, Candidate{
			Chunk:      *chunk,
			Similarity: hit.Score,
		})
	}
	return candidates
}

// clampFinalK applies the default and a hard ceiling to a requested K.
func clampFinalK(requested, configured int) int {
	k := requested
	if k <= 0 {
		k = configured
	}
	if k > maxFinalK {
		k = maxFinalK
	}
	return k
}
