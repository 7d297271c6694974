package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
)

// Record is one unit of importable corpus text, the schema the crawlers and
// exporters write. Chunking, priority assignment and bilingual detection
// happen here, not in the producers.
type Record struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	SourceType string `json:"source_type"`
	// Priority optionally overrides the source-type default.
	Priority *int `json:"priority,omitempty"`
	// Page is set for records exported from paginated documents.
	Page *int `json:"page,omitempty"`
}

// LoadRecords reads a JSON corpus export: either a top-level array of
// records or one record object.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		var single Record
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse records file %s: %w", path, err)
		}
		records = []Record{single}
	}

	for i, r := range records {
		if strings.TrimSpace(r.Text) == "" {
			return nil, fmt.Errorf("record %d in %s has empty text", i, path)
		}
		if r.Source == "" {
			return nil, fmt.Errorf("record %d in %s has empty source", i, path)
		}
	}
	return records, nil
}

// recordsFromMarkdown builds records for a markdown corpus file. The source
// type is inferred from the directory the file sits in.
func recordsFromMarkdown(path string, chunker *MarkdownChunker) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file: %w", err)
	}

	sourceType := SourceTypeFromPath(path)
	texts := chunker.Chunk(content)

	records := make([]Record, 0, len(texts))
	for _, t := range texts {
		records = append(records, Record{
			Text:       t,
			Source:     path,
			SourceType: sourceType,
		})
	}
	return records, nil
}

// SourceTypeFromPath infers a source type from the path's directory names.
// Corpus exports are laid out by provenance (lessons/, stories/, ...), so
// the directory is the authoritative signal for file-based imports.
func SourceTypeFromPath(path string) string {
	lower := strings.ToLower(filepath.ToSlash(path))
	switch {
	case strings.Contains(lower, "/lessons/") || strings.Contains(lower, "lesson"):
		return storage.SourceTypeLesson
	case strings.Contains(lower, "/stories/") || strings.Contains(lower, "story"):
		return storage.SourceTypeStory
	case strings.Contains(lower, "dictionary"):
		return storage.SourceTypeDictionary
	case strings.Contains(lower, "encyclopedia") || strings.Contains(lower, "guampedia"):
		return storage.SourceTypeEncyclopedia
	case strings.Contains(lower, "blog"):
		return storage.SourceTypeBlog
	case strings.Contains(lower, "news"):
		return storage.SourceTypeNews
	case strings.Contains(lower, "archive"):
		return storage.SourceTypeArchive
	case strings.HasSuffix(lower, ".pdf"):
		return storage.SourceTypeDocument
	default:
		return storage.SourceTypeWeb
	}
}
