package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/classifier"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/config"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/handlers"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/http"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/llm"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/retrieval"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/websearch"
)

// collectionEnsurer is implemented by both vector store backends. The
// dimension check at startup is the hard fail-fast against a corpus/query
// embedding mismatch.
type collectionEnsurer interface {
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	var (
		vectorStore vectorstore.VectorStore
		collection  string
	)
	switch cfg.VectorBackend {
	case config.VectorBackendPgvector:
		store, err := vectorstore.NewPgvectorStore(ctx, cfg.PostgresURL, cfg.VectorSize)
		if err != nil {
			log.Fatalf("Failed to create pgvector store: %v", err)
		}
		defer store.Close()
		vectorStore = store
		collection = cfg.PostgresTable
	default:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		vectorStore = store
		collection = cfg.QdrantCollection
	}

	if err := vectorStore.(collectionEnsurer).EnsureCollection(ctx, collection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure vector collection: %v", err)
	}
	slog.Info("Vector store initialized", "backend", cfg.VectorBackend, "collection", collection, "vector_size", cfg.VectorSize)

	var embedder llm.Embedder
	if cfg.EmbeddingProvider == config.EmbeddingProviderOllama {
		embedder = llm.NewOllamaClient(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.VectorSize)
	} else {
		embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.VectorSize)
	}

	weights := retrieval.DefaultWeights()
	if cfg.RankingConfigPath != "" {
		weights, err = retrieval.LoadWeights(cfg.RankingConfigPath)
		if err != nil {
			log.Fatalf("Failed to load ranking config: %v", err)
		}
		slog.Info("Ranking config loaded", "path", cfg.RankingConfigPath)
	}

	engine := retrieval.NewEngine(
		classifier.New(classifier.DefaultTable()),
		embedder,
		vectorStore,
		collection,
		chunkRepo,
		retrieval.Options{
			FinalK:          cfg.FinalK,
			OverFetchFactor: cfg.OverFetchFactor,
			Weights:         &weights,
		},
	)

	searcher := websearch.NewDuckDuckGo(cfg.WebSearchRateLimit)

	router := http.NewRouter(&http.Deps{
		RetrieveHandler: handlers.NewRetrieveHandler(engine, searcher),
		HealthHandler:   handlers.NewHealthHandler(chunkRepo, vectorStore, collection),
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
