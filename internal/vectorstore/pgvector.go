package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/contextutil"
)

// PgvectorStore implements VectorStore on Postgres with the pgvector
// extension. The collection argument of the VectorStore methods maps to the
// table name, so a single database can host several corpora.
type PgvectorStore struct {
	pool       *pgxpool.Pool
	vectorSize int
}

// NewPgvectorStore connects to Postgres and ensures the pgvector extension
// is available.
func NewPgvectorStore(ctx context.Context, connString string, vectorSize int) (*PgvectorStore, error) {
	if vectorSize <= 0 {
		return nil, fmt.Errorf("vector size must be greater than 0")
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create vector extension: %w", err)
	}

	return &PgvectorStore{pool: pool, vectorSize: vectorSize}, nil
}

// Close releases the connection pool.
func (s *PgvectorStore) Close() {
	s.pool.Close()
}

// EnsureCollection creates the backing table and index if needed, and fails
// hard when an existing table carries a different vector dimension.
func (s *PgvectorStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	if vectorSize != s.vectorSize {
		return fmt.Errorf("vector size mismatch: store configured for %d, requested %d", s.vectorSize, vectorSize)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source_type TEXT NOT NULL DEFAULT '',
			embedding vector(%d),
			meta JSONB
		)`, collection, vectorSize)
	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	// Existing table with a different dimension: the CREATE above is a
	// no-op, so check the declared dimension explicitly.
	var declared int
	err := s.pool.QueryRow(ctx,
		`SELECT atttypmod FROM pg_attribute
		 WHERE attrelid = $1::regclass AND attname = 'embedding'`,
		collection,
	).Scan(&declared)
	if err != nil {
		return fmt.Errorf("failed to read embedding column type: %w", err)
	}
	if declared != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, declared)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`, collection, collection)
	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Upsert inserts or updates points in the collection table.
func (s *PgvectorStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source_type, embedding, meta)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			source_type = EXCLUDED.source_type,
			embedding = EXCLUDED.embedding,
			meta = EXCLUDED.meta`, collection)

	for _, point := range points {
		sourceType, _ := point.Meta["source_type"].(string)

		meta, err := json.Marshal(point.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal point meta: %w", err)
		}

		if _, err := tx.Exec(ctx, stmt, point.ID, sourceType, pgvector.NewVector(point.Vec), meta); err != nil {
			return fmt.Errorf("failed to upsert point %s: %w", point.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search performs a cosine-similarity search with an optional source-type
// filter.
func (s *PgvectorStore) Search(ctx context.Context, collection string, query []float32, k int, filter *Filter) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	var (
		rowsQuery string
		args      []any
	)
	if filter != nil && len(filter.SourceTypes) > 0 {
		rowsQuery = fmt.Sprintf(`
			SELECT id, 1 - (embedding <=> $1) AS score, meta
			FROM %s
			WHERE source_type = ANY($2)
			ORDER BY embedding <=> $1
			LIMIT $3`, collection)
		args = []any{pgvector.NewVector(query), filter.SourceTypes, k}
	} else {
		rowsQuery = fmt.Sprintf(`
			SELECT id, 1 - (embedding <=> $1) AS score, meta
			FROM %s
			ORDER BY embedding <=> $1
			LIMIT $2`, collection)
		args = []any{pgvector.NewVector(query), k}
	}

	rows, err := s.pool.Query(ctx, rowsQuery, args...)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			id      string
			score   float64
			rawMeta []byte
		)
		if err := rows.Scan(&id, &score, &rawMeta); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}

		meta := make(map[string]any)
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal point meta: %w", err)
			}
		}

		results = append(results, SearchResult{
			PointID: id,
			Score:   float32(score),
			Meta:    meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	logger.DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Delete removes points by their IDs.
func (s *PgvectorStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", collection)
	if _, err := s.pool.Exec(ctx, stmt, ids); err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// CollectionPoints returns the number of points in a collection. Used by the
// health endpoint.
func (s *PgvectorStore) CollectionPoints(ctx context.Context, collection string) (int, error) {
	var count int
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", collection)
	if err := s.pool.QueryRow(ctx, stmt).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return count, nil
}
