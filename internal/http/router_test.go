package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/handlers"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/retrieval"
	storage_mocks "github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage/mocks"
	vectorstore_mocks "github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore/mocks"
)

type stubEngine struct{}

func (stubEngine) Retrieve(context.Context, retrieval.Request) (retrieval.Result, error) {
	return retrieval.Result{Citations: []retrieval.Citation{}}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	chunks := storage_mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().Count(gomock.Any()).Return(0, nil).AnyTimes()
	store := vectorstore_mocks.NewMockVectorStore(ctrl)

	return NewRouter(&Deps{
		RetrieveHandler: handlers.NewRetrieveHandler(stubEngine{}, nil),
		HealthHandler:   handlers.NewHealthHandler(chunks, store, "corpus"),
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"retrieve", http.MethodPost, "/api/retrieve", `{"query": "håfa"}`, http.StatusOK},
		{"health", http.MethodGet, "/api/health", "", http.StatusOK},
		{"retrieve wrong method", http.MethodGet, "/api/retrieve", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterAttachesRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on routed responses")
	}
}
