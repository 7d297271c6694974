package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/contextutil"
)

// assemble renders the selected chunks into one grounding block and a
// parallel citation list. The block carries just enough structure (index and
// source name per fragment) for a downstream generator to tell fragments
// apart; it produces no prose of its own.
//
// Citations follow final rank order and are source-level: duplicate display
// names collapse into one entry (first occurrence wins) even though their
// chunks all remain in the context text.
func assemble(ctx context.Context, selected []Candidate) (string, []Citation) {
	if len(selected) == 0 {
		return "", []Citation{}
	}

	logger := contextutil.LoggerFromContext(ctx)

	var b strings.Builder
	citations := make([]Citation, 0, len(selected))
	seenNames := make(map[string]struct{}, len(selected))

	for i, c := range selected {
		name, generic := displayName(c.Chunk)
		if generic {
			logger.WarnContext(ctx, "chunk resolved to generic display name",
				"chunk_id", c.Chunk.ID,
				"source", c.Chunk.Source,
				"source_type", c.Chunk.SourceType,
			)
		}

		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, name))
		b.WriteString(c.Chunk.Text)
		b.WriteString("\n")

		if _, dup := seenNames[name]; dup {
			continue
		}
		seenNames[name] = struct{}{}
		citations = append(citations, Citation{
			DisplayName: name,
			Page:        c.Chunk.Page,
		})
	}

	return b.String(), citations
}
