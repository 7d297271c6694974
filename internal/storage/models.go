package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Source type tags describing the provenance class of a chunk. They drive
// both priority boosting and citation display names, and are set once at
// ingestion time.
const (
	SourceTypeLesson       = "lesson"
	SourceTypeStory        = "story"
	SourceTypeDictionary   = "dictionary"
	SourceTypeEncyclopedia = "encyclopedia"
	SourceTypeBlog         = "blog"
	SourceTypeNews         = "news"
	SourceTypeDocument     = "document"
	SourceTypeArchive      = "archive"
	SourceTypeWeb          = "web"
)

// Chunk is an immutable unit of retrievable corpus text plus the static
// metadata assigned at ingestion. The retrieval path never mutates chunks;
// lifecycle belongs to the ingest CLI.
type Chunk struct {
	ID         string // UUID (same as the vector point ID)
	Text       string
	Source     string // Origin URL or file path
	SourceType string // One of the SourceType* constants
	// Priority is the static source-level trust score. Curated bilingual
	// lesson content sits above 100; low-trust archival material goes
	// negative.
	Priority int
	// Page is set only for chunks from paginated documents.
	Page *int
	// Bilingual marks chunks that contain CHamoru text rather than only
	// English explanation, detected lexically at ingestion.
	Bilingual bool
}
