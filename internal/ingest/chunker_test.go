package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("Håfa adai, this fits in one chunk.")
	require.Len(t, chunks, 1)
	require.Equal(t, "Håfa adai, this fits in one chunk.", chunks[0])
}

func TestSplitTextEmptyInput(t *testing.T) {
	require.Nil(t, SplitText(""))
	require.Nil(t, SplitText("   \n\t  "))
}

func TestSplitTextBoundsAndOverlap(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("Håfa adai todu hamyo, manhoben yan manåmko'. ", 200))
	chunks := SplitText(content)

	require.Greater(t, len(chunks), 2, "long input must produce multiple chunks")

	for i, chunk := range chunks {
		n := len([]rune(chunk))
		require.LessOrEqual(t, n, maxChunkRunes, "chunk %d exceeds size limit", i)
		require.GreaterOrEqual(t, n, minChunkRunes, "chunk %d below minimum size", i)
	}

	// Consecutive chunks share an overlap window so boundary-straddling facts
	// stay retrievable.
	for i := 0; i < len(chunks)-1; i++ {
		tail := []rune(chunks[i])
		tail = tail[len(tail)-50:]
		require.Contains(t, chunks[i+1], strings.TrimSpace(string(tail)),
			"chunk %d does not carry the tail of chunk %d", i+1, i)
	}
}

func TestSplitTextPrefersSentenceBoundaries(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("This is a complete sentence about CHamoru grammar. ", 100))
	chunks := SplitText(content)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks[:len(chunks)-1] {
		require.True(t, strings.HasSuffix(chunk, "."),
			"chunk %d should end at a sentence boundary, got %q", i, chunk[len(chunk)-20:])
	}
}

func TestMarkdownChunkerKeepsHeadingsWithSections(t *testing.T) {
	md := []byte(`# Greetings

Håfa adai is the standard CHamoru greeting used throughout the Marianas.

# Numbers

Hacha, hugua, tulu are the first three numbers in the traditional counting system.
`)

	chunks := NewMarkdownChunker().Chunk(md)
	require.NotEmpty(t, chunks)

	joined := strings.Join(chunks, "\n")
	require.Contains(t, joined, "Greetings")
	require.Contains(t, joined, "Håfa adai is the standard CHamoru greeting")
	require.Contains(t, joined, "Numbers")
	require.Contains(t, joined, "Hacha, hugua, tulu")
}

func TestMarkdownChunkerEmptyInput(t *testing.T) {
	require.Nil(t, NewMarkdownChunker().Chunk(nil))
	require.Nil(t, NewMarkdownChunker().Chunk([]byte("")))
}
