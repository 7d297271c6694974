package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a single nearest-neighbor hit.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// Filter restricts a similarity search by exact metadata matching.
// A nil filter or an empty SourceTypes list matches everything.
type Filter struct {
	// SourceTypes limits hits to points whose source_type payload field is
	// one of the listed values. Used by card-type callers that only want
	// dictionary or lesson material.
	SourceTypes []string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search, returning up to k results sorted
	// by similarity descending.
	Search(ctx context.Context, collection string, query []float32, k int, filter *Filter) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
}
