package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// Insert inserts a single chunk. chunk.ID must be set (UUID) before
	// calling.
	Insert(ctx context.Context, chunk *Chunk) error
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Chunk, error)
	// ListIDsBySource returns all chunk IDs for a given source. Used to
	// remove stale vector points before re-ingesting a source.
	ListIDsBySource(ctx context.Context, source string) ([]string, error)
	// DeleteBySource deletes all chunks for a given source.
	DeleteBySource(ctx context.Context, source string) error
	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)
}

// ChunkRepo provides SQLite-backed chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk into the database.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *Chunk) error {
	var page sql.NullInt64
	if chunk.Page != nil {
		page = sql.NullInt64{Int64: int64(*chunk.Page), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chunks (id, text, source, source_type, priority, page, bilingual) VALUES (?, ?, ?, ?, ?, ?, ?)",
		chunk.ID, chunk.Text, chunk.Source, chunk.SourceType, chunk.Priority, page, chunk.Bilingual,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*Chunk, error) {
	var (
		chunk Chunk
		page  sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, text, source, source_type, priority, page, bilingual FROM chunks WHERE id = ?",
		id,
	).Scan(&chunk.ID, &chunk.Text, &chunk.Source, &chunk.SourceType, &chunk.Priority, &page, &chunk.Bilingual)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	if page.Valid {
		p := int(page.Int64)
		chunk.Page = &p
	}

	return &chunk, nil
}

// ListIDsBySource returns all chunk IDs for a given source.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListIDsBySource(ctx context.Context, source string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE source = ?",
		source,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// DeleteBySource deletes all chunks for a given source.
// Used when re-ingesting a source to remove old chunks first.
func (r *ChunkRepo) DeleteBySource(ctx context.Context, source string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by source: %w", err)
	}
	return nil
}

// Count returns the total number of stored chunks.
func (r *ChunkRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
