package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/chamorro"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/contextutil"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/llm"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/vectorstore"
)

// embedBatchSize bounds how many chunk texts go to the embedder per call.
const embedBatchSize = 16

// Stats summarizes one ingestion run.
type Stats struct {
	Files     int
	Chunks    int
	Bilingual int
	Skipped   int
}

// Pipeline imports corpus files: chunk, assign metadata, embed, persist.
// The retrieval path never writes; all corpus lifecycle goes through here.
type Pipeline struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunkRepo   storage.ChunkStore
	chunker     *MarkdownChunker
	logger      *slog.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
) *Pipeline {
	return &Pipeline{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunkRepo:   chunkRepo,
		chunker:     NewMarkdownChunker(),
		logger:      slog.Default(),
	}
}

// IngestDir walks a corpus directory and imports every .md and .json file.
// onFile, when non-nil, is called after each file (for progress reporting).
func (p *Pipeline) IngestDir(ctx context.Context, dir string, onFile func(path string)) (Stats, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".json":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to walk corpus directory: %w", err)
	}

	var total Stats
	for _, path := range paths {
		stats, err := p.IngestFile(ctx, path)
		if err != nil {
			return total, fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		total.Files++
		total.Chunks += stats.Chunks
		total.Bilingual += stats.Bilingual
		total.Skipped += stats.Skipped
		if onFile != nil {
			onFile(path)
		}
	}
	return total, nil
}

// IngestFile imports one corpus file. Existing chunks for the same sources
// are replaced so re-running an import never duplicates content.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (Stats, error) {
	var (
		records []Record
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		records, err = LoadRecords(path)
	} else {
		records, err = recordsFromMarkdown(path, p.chunker)
	}
	if err != nil {
		return Stats{}, err
	}

	return p.ingestRecords(ctx, records)
}

func (p *Pipeline) ingestRecords(ctx context.Context, records []Record) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var stats Stats

	chunks := make([]*storage.Chunk, 0, len(records))
	for _, r := range records {
		for _, text := range SplitText(r.Text) {
			priority := PriorityFor(r.SourceType)
			if r.Priority != nil {
				priority = *r.Priority
			}
			chunk := &storage.Chunk{
				ID:         uuid.NewString(),
				Text:       text,
				Source:     r.Source,
				SourceType: r.SourceType,
				Priority:   priority,
				Page:       r.Page,
				Bilingual:  chamorro.ContainsMarkers(text),
			}
			chunks = append(chunks, chunk)
			if chunk.Bilingual {
				stats.Bilingual++
			}
		}
	}
	if len(chunks) == 0 {
		stats.Skipped++
		return stats, nil
	}

	// Replace any previous import of these sources.
	replaced := make(map[string]struct{})
	for _, chunk := range chunks {
		if _, done := replaced[chunk.Source]; done {
			continue
		}
		replaced[chunk.Source] = struct{}{}

		staleIDs, err := p.chunkRepo.ListIDsBySource(ctx, chunk.Source)
		if err != nil {
			return stats, err
		}
		if len(staleIDs) == 0 {
			continue
		}
		if err := p.vectorStore.Delete(ctx, p.collection, staleIDs); err != nil {
			return stats, err
		}
		if err := p.chunkRepo.DeleteBySource(ctx, chunk.Source); err != nil {
			return stats, err
		}
		logger.InfoContext(ctx, "replaced stale chunks", "source", chunk.Source, "count", len(staleIDs))
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return stats, fmt.Errorf("failed to embed batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return stats, fmt.Errorf("expected %d vectors, got %d", len(batch), len(vectors))
		}

		points := make([]vectorstore.Point, len(batch))
		for i, chunk := range batch {
			if err := p.chunkRepo.Insert(ctx, chunk); err != nil {
				return stats, err
			}
			points[i] = vectorstore.Point{
				ID:  chunk.ID,
				Vec: vectors[i],
				Meta: map[string]any{
					"source":      chunk.Source,
					"source_type": chunk.SourceType,
				},
			}
		}

		if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
			return stats, err
		}
		stats.Chunks += len(batch)
	}

	return stats, nil
}
