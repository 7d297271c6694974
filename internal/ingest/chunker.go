package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	// maxChunkRunes targets roughly 350 tokens per chunk for the embedding
	// model's context window.
	maxChunkRunes = 1400
	// overlapRunes is carried from the tail of one chunk into the next so
	// facts straddling a boundary stay retrievable.
	overlapRunes = 150
	// minChunkRunes drops fragments too small to be a useful retrieval unit.
	minChunkRunes = 40
)

// MarkdownChunker splits markdown corpus files into embeddable chunks using
// goldmark AST parsing, keeping section boundaries where possible.
type MarkdownChunker struct {
	parser goldmark.Markdown
}

// NewMarkdownChunker creates a new markdown chunker.
func NewMarkdownChunker() *MarkdownChunker {
	return &MarkdownChunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Chunk parses markdown content and returns chunk texts in document order.
// Headings are kept inline with their section text so a chunk carries its
// own topic.
func (c *MarkdownChunker) Chunk(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	reader := text.NewReader(content)
	doc := c.parser.Parser().Parse(reader)

	var sections []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sections = append(sections, s)
		}
		current.Reset()
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			flush()
			current.WriteString(extractText(heading, content))
			current.WriteString("\n")
			continue
		}
		if t := extractText(node, content); t != "" {
			current.WriteString(t)
			current.WriteString("\n")
		}
	}
	flush()

	return SplitText(strings.Join(sections, "\n\n"))
}

// extractText collects the raw text content of an AST node.
func extractText(node ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(content))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.AutoLink:
			b.Write(t.URL(content))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// SplitText splits plain text into rune-bounded chunks with overlap. It is
// used directly for non-markdown sources and as the final pass of the
// markdown chunker. Split points prefer sentence or word boundaries near the
// size limit.
func SplitText(content string) []string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= maxChunkRunes {
		return []string{string(runes)}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxChunkRunes
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = splitPoint(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(chunk)) >= minChunkRunes {
			chunks = append(chunks, chunk)
		} else if len(chunks) > 0 && chunk != "" {
			chunks[len(chunks)-1] = chunks[len(chunks)-1] + " " + chunk
		}

		if end == len(runes) {
			break
		}
		start = end - overlapRunes
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// splitPoint walks backwards from the hard limit looking for a sentence end,
// then any whitespace, before giving up and cutting mid-word.
func splitPoint(runes []rune, start, limit int) int {
	// Don't search back further than half a chunk.
	floor := start + maxChunkRunes/2

	for i := limit - 1; i > floor; i-- {
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' || runes[i] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i > floor; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return limit
}
