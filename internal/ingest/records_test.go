package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecordsArray(t *testing.T) {
	path := writeTempFile(t, "export.json", `[
		{"text": "Håfa adai means hello", "source": "dictionary.example.com", "source_type": "dictionary"},
		{"text": "Lesson one content", "source": "lessons/1", "source_type": "lesson", "priority": 150, "page": 3}
	]`)

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "dictionary", records[0].SourceType)
	require.Nil(t, records[0].Priority)
	require.Nil(t, records[0].Page)

	require.NotNil(t, records[1].Priority)
	require.Equal(t, 150, *records[1].Priority)
	require.NotNil(t, records[1].Page)
	require.Equal(t, 3, *records[1].Page)
}

func TestLoadRecordsSingleObject(t *testing.T) {
	path := writeTempFile(t, "single.json", `{"text": "one record", "source": "s", "source_type": "web"}`)

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "one record", records[0].Text)
}

func TestLoadRecordsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty text", `[{"text": "  ", "source": "s", "source_type": "web"}]`},
		{"missing source", `[{"text": "hello", "source_type": "web"}]`},
		{"invalid json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "bad.json", tt.content)
			_, err := LoadRecords(path)
			require.Error(t, err)
		})
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestSourceTypeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"corpus/lessons/beginner-1.md", storage.SourceTypeLesson},
		{"corpus/stories/legend-of-sirena.md", storage.SourceTypeStory},
		{"exports/dictionary-a-m.json", storage.SourceTypeDictionary},
		{"crawl/guampedia/latte-stones.md", storage.SourceTypeEncyclopedia},
		{"crawl/blog-posts/entry.md", storage.SourceTypeBlog},
		{"crawl/news/2024-08-12.json", storage.SourceTypeNews},
		{"archive/forum-dump.json", storage.SourceTypeArchive},
		{"docs/reference-grammar.pdf", storage.SourceTypeDocument},
		{"random/notes.md", storage.SourceTypeWeb},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, SourceTypeFromPath(tt.path))
		})
	}
}
