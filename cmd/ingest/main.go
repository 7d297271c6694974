package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/config"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/ingest"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/llm"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore"
)

type collectionEnsurer interface {
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}

func main() {
	dir := flag.String("dir", "", "corpus directory to import (.md and .json files)")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -dir <corpus-directory>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Quiet logs so the progress bar stays readable.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

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

	var embedder llm.Embedder
	if cfg.EmbeddingProvider == config.EmbeddingProviderOllama {
		embedder = llm.NewOllamaClient(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.VectorSize)
	} else {
		embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.VectorSize)
	}

	pipeline := ingest.NewPipeline(embedder, vectorStore, collection, storage.NewChunkRepo(db))

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("importing corpus"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
	)

	stats, err := pipeline.IngestDir(ctx, *dir, func(string) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	fmt.Println()

	if err != nil {
		color.Red("Import failed: %v", err)
		os.Exit(1)
	}

	color.Green("Import complete")
	fmt.Printf("  files:     %d\n", stats.Files)
	fmt.Printf("  chunks:    %d\n", stats.Chunks)
	fmt.Printf("  bilingual: %d\n", stats.Bilingual)
	if stats.Skipped > 0 {
		color.Yellow("  skipped:   %d (no usable text)", stats.Skipped)
	}
}
