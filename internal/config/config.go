package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported embedding providers and vector backends.
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderOllama = "ollama"

	VectorBackendQdrant   = "qdrant"
	VectorBackendPgvector = "pgvector"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel  slog.Level
	LogFormat string

	EmbeddingProvider string
	EmbeddingBaseURL  string
	EmbeddingModel    string
	EmbeddingAPIKey   string
	// VectorSize is the embedding dimension. It must match the collection's
	// dimension exactly; the mismatch check at startup is a hard failure (a
	// wrong dimension silently corrupts every similarity ranking at query
	// time).
	VectorSize int

	VectorBackend    string
	QdrantURL        string
	QdrantCollection string
	PostgresURL      string
	PostgresTable    string

	DBPath string

	APIPort string

	// FinalK is the default number of chunks returned by a retrieval call.
	FinalK int
	// OverFetchFactor controls how many candidates are fetched from the
	// vector index relative to FinalK, leaving headroom for priority
	// reranking to promote lower-similarity chunks.
	OverFetchFactor int

	// RankingConfigPath optionally points at a YAML file overriding the
	// built-in ranking multipliers.
	RankingConfigPath string

	WebSearchRateLimit float64
}

// Load reads configuration from environment variables and returns a Config.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be
// loaded automatically; variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a project-root .env (next to go.mod), bounded depth.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingProviderOpenAI)),
		EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", "dummy-key"),
		VectorBackend:     strings.ToLower(getEnv("VECTOR_BACKEND", VectorBackendQdrant)),
		QdrantURL:         getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:  getEnv("QDRANT_COLLECTION", "chamoru_corpus"),
		PostgresURL:       getEnv("POSTGRES_URL", ""),
		PostgresTable:     getEnv("POSTGRES_TABLE", "chamoru_corpus"),
		DBPath:            getEnv("DB_PATH", "./data/hafagpt.db"),
		APIPort:           getEnv("API_PORT", "9000"),
		RankingConfigPath: getEnv("RANKING_CONFIG_PATH", ""),
	}

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	// VECTOR_SIZE must match the output dimension of the embedding model.
	// For granite-embedding-278m-multilingual this is 768; if the model
	// changes, the vector collection must be recreated.
	vectorSizeStr := getEnv("VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	cfg.FinalK, err = getEnvInt("RETRIEVAL_FINAL_K", 5)
	if err != nil {
		return nil, err
	}
	cfg.OverFetchFactor, err = getEnvInt("RETRIEVAL_OVERFETCH_FACTOR", 4)
	if err != nil {
		return nil, err
	}
	if cfg.OverFetchFactor < 2 {
		return nil, fmt.Errorf("RETRIEVAL_OVERFETCH_FACTOR must be at least 2")
	}

	rateStr := getEnv("WEB_SEARCH_RATE_LIMIT", "1")
	cfg.WebSearchRateLimit, err = strconv.ParseFloat(rateStr, 64)
	if err != nil || cfg.WebSearchRateLimit <= 0 {
		return nil, fmt.Errorf("WEB_SEARCH_RATE_LIMIT must be a positive number")
	}

	switch cfg.EmbeddingProvider {
	case EmbeddingProviderOpenAI, EmbeddingProviderOllama:
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be %q or %q, got %q",
			EmbeddingProviderOpenAI, EmbeddingProviderOllama, cfg.EmbeddingProvider)
	}

	switch cfg.VectorBackend {
	case VectorBackendQdrant:
	case VectorBackendPgvector:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("POSTGRES_URL is required when VECTOR_BACKEND=pgvector")
		}
	default:
		return nil, fmt.Errorf("VECTOR_BACKEND must be %q or %q, got %q",
			VectorBackendQdrant, VectorBackendPgvector, cfg.VectorBackend)
	}

	// Create the data directory for the SQLite file if needed.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets a positive integer environment variable or returns a default.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}
