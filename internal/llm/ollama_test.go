package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOllamaClient_Defaults(t *testing.T) {
	client := NewOllamaClient("", "", 768)
	if client.BaseURL != "http://localhost:11434" {
		t.Errorf("NewOllamaClient() BaseURL = %v, want http://localhost:11434", client.BaseURL)
	}
	if client.Model != "nomic-embed-text" {
		t.Errorf("NewOllamaClient() Model = %v, want nomic-embed-text", client.Model)
	}
	if client.Dimension() != 768 {
		t.Errorf("Dimension() = %v, want 768", client.Dimension())
	}
}

func TestOllamaClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantErr      bool
		wantCount    int
	}{
		{
			name:         "sequential embedding",
			texts:        []string{"Håfa adai", "Kao guaha"},
			expectedSize: 384,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/api/embeddings" {
					t.Errorf("expected /api/embeddings, got %s", r.URL.Path)
				}

				var req ollamaEmbedRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Prompt == "" {
					t.Error("expected non-empty prompt")
				}

				resp := ollamaEmbedResponse{Embedding: make([]float32, 384)}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr:   false,
			wantCount: 2,
		},
		{
			name:         "empty input",
			texts:        []string{},
			expectedSize: 384,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				// Should not be called
			},
			wantErr: true,
		},
		{
			name:         "wrong embedding size",
			texts:        []string{"Håfa"},
			expectedSize: 384,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := ollamaEmbedResponse{Embedding: make([]float32, 128)}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:         "server error",
			texts:        []string{"Håfa"},
			expectedSize: 384,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewOllamaClient(server.URL, "test-model", tt.expectedSize)
			got, err := client.EmbedTexts(context.Background(), tt.texts)

			if (err != nil) != tt.wantErr {
				t.Errorf("EmbedTexts() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.wantCount {
				t.Errorf("EmbedTexts() returned %d embeddings, want %d", len(got), tt.wantCount)
			}
		})
	}
}
