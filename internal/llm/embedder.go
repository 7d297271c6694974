// Package llm contains the embedding clients used to vectorize corpus chunks
// and user queries. Answer generation is owned by downstream callers; this
// service only produces grounding context, so no chat client lives here.
package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/llm Embedder

import "context"

// Embedder converts free text into fixed-dimension vectors. The corpus and
// all query embeddings must come from the same model: Dimension is used at
// startup to validate the vector collection.
type Embedder interface {
	// EmbedTexts returns one vector per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed output dimension of the model.
	Dimension() int
}
