package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/contextutil"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore"
)

// pointCounter is implemented by both vector store backends; the health
// check degrades gracefully when a store implementation lacks it.
type pointCounter interface {
	CollectionPoints(ctx context.Context, collection string) (int, error)
}

// HealthHandler reports reachability of the chunk store and vector index.
type HealthHandler struct {
	chunkRepo          storage.ChunkStore
	vectorStore        vectorstore.VectorStore
	collection         string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(chunkRepo storage.ChunkStore, vectorStore vectorstore.VectorStore, collection string) *HealthHandler {
	return &HealthHandler{
		chunkRepo:          chunkRepo,
		vectorStore:        vectorStore,
		collection:         collection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "healthy" or "degraded".
	Status string `json:"status"`

	Timestamp string `json:"timestamp"`

	Checks map[string]string `json:"checks"`

	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP returns 200 when all checks pass, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if count, err := h.chunkRepo.Count(checkCtx); err != nil {
		checks["chunk_store"] = "unreachable"
		issues = append(issues, "chunk store: "+err.Error())
	} else {
		checks["chunk_store"] = "ok (" + strconv.Itoa(count) + " chunks)"
	}

	if counter, ok := h.vectorStore.(pointCounter); ok {
		if points, err := counter.CollectionPoints(checkCtx, h.collection); err != nil {
			checks["vector_store"] = "unreachable"
			issues = append(issues, "vector store: "+err.Error())
		} else {
			checks["vector_store"] = "ok (" + strconv.Itoa(points) + " points)"
		}
	} else {
		checks["vector_store"] = "unknown"
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	status := http.StatusOK
	if len(issues) > 0 {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		logger.WarnContext(ctx, "health check degraded", "issues", issues)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
