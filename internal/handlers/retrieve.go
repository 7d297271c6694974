package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/contextutil"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/retrieval"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/websearch"
)

// RetrieveHandler handles HTTP requests for retrieval calls. When the engine
// recommends the web fallback, the handler invokes the web search adapter on
// the engine's behalf and includes its results in the response.
type RetrieveHandler struct {
	engine   retrieval.Engine
	searcher websearch.Searcher
}

// NewRetrieveHandler creates a new RetrieveHandler. searcher may be nil to
// disable the web fallback.
func NewRetrieveHandler(engine retrieval.Engine, searcher websearch.Searcher) *RetrieveHandler {
	return &RetrieveHandler{
		engine:   engine,
		searcher: searcher,
	}
}

// RetrieveRequest is the HTTP request payload, mirroring retrieval.Request
// for HTTP layer separation.
type RetrieveRequest struct {
	Query    string `json:"query"`
	K        int    `json:"k,omitempty"`
	CardType string `json:"card_type,omitempty"`
}

// RetrieveResponse is the HTTP response payload.
type RetrieveResponse struct {
	ContextText   string               `json:"context_text"`
	Citations     []retrieval.Citation `json:"citations"`
	Engaged       bool                 `json:"engaged"`
	DeferredToWeb bool                 `json:"deferred_to_web"`
	Intent        string               `json:"intent"`
	// WebResults is populated when retrieval deferred to the web fallback.
	WebResults []websearch.Result `json:"web_results,omitempty"`
}

// ServeHTTP handles one retrieval request.
func (h *RetrieveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.engine.Retrieve(ctx, retrieval.Request{
		Query:    req.Query,
		FinalK:   req.K,
		CardType: retrieval.CardType(req.CardType),
	})
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		writeError(w, http.StatusInternalServerError, "retrieval failed")
		return
	}

	resp := RetrieveResponse{
		ContextText:   result.ContextText,
		Citations:     result.Citations,
		Engaged:       result.Engaged,
		DeferredToWeb: result.DeferredToWeb,
		Intent:        string(result.Intent),
	}

	if result.DeferredToWeb && h.searcher != nil {
		webResults, err := h.searcher.Search(ctx, req.Query)
		if err != nil {
			// The fallback failing must not fail the call; the caller still
			// gets a usable (ungrounded) response.
			logger.WarnContext(ctx, "web search fallback failed", "error", err)
		} else {
			resp.WebResults = webResults
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
