// Package websearch provides the live web search fallback used when the
// classifier signals that the corpus cannot cover a query (weather, current
// events). The retrieval engine only owns the decision to recommend it;
// callers invoke the adapter themselves.
package websearch

import "context"

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher is the fallback search contract.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
