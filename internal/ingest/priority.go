package ingest

import "github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"

// defaultPriorities is the editorial trust score per source type, assigned
// once at ingestion and read-only afterwards. Curated bilingual lesson
// content sits at the top; scraped archival material is actively penalized
// so it only surfaces when nothing better matches.
var defaultPriorities = map[string]int{
	storage.SourceTypeLesson:       120,
	storage.SourceTypeStory:        80,
	storage.SourceTypeDictionary:   60,
	storage.SourceTypeBlog:         50,
	storage.SourceTypeEncyclopedia: 40,
	storage.SourceTypeDocument:     20,
	storage.SourceTypeNews:         10,
	storage.SourceTypeWeb:          0,
	storage.SourceTypeArchive:      -50,
}

// PriorityFor returns the ingestion priority for a source type. Unknown
// source types get the neutral web score.
func PriorityFor(sourceType string) int {
	if p, ok := defaultPriorities[sourceType]; ok {
		return p
	}
	return defaultPriorities[storage.SourceTypeWeb]
}
