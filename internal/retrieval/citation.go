package retrieval

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
)

// nameRule maps a chunk to a human-readable source name. Rules are evaluated
// in order; the first match wins. The final rule matches everything, so the
// mapping is total and unrecognized metadata never crashes a retrieval call.
type nameRule struct {
	match func(storage.Chunk) bool
	name  func(storage.Chunk) string
}

// displayNameRules is evaluated most-specific first: source type, then known
// URL/filename patterns, then a generic label built from the cleaned
// filename.
var displayNameRules = []nameRule{
	{
		match: func(c storage.Chunk) bool { return c.SourceType == storage.SourceTypeLesson },
		name:  lessonName,
	},
	{
		match: func(c storage.Chunk) bool { return c.SourceType == storage.SourceTypeStory },
		name:  func(storage.Chunk) string { return "CHamoru stories" },
	},
	{
		match: func(c storage.Chunk) bool { return c.SourceType == storage.SourceTypeDictionary },
		name:  func(storage.Chunk) string { return "CHamoru-English dictionary" },
	},
	{
		match: func(c storage.Chunk) bool { return sourceContains(c, "guampedia") },
		name:  func(storage.Chunk) string { return "Guampedia" },
	},
	{
		match: func(c storage.Chunk) bool { return c.SourceType == storage.SourceTypeEncyclopedia },
		name:  func(storage.Chunk) string { return "encyclopedia article" },
	},
	{
		match: func(c storage.Chunk) bool { return c.SourceType == storage.SourceTypeNews },
		name:  hostName("news article"),
	},
	{
		match: func(c storage.Chunk) bool { return c.SourceType == storage.SourceTypeBlog },
		name:  hostName("language blog"),
	},
	{
		match: func(c storage.Chunk) bool { return sourceContains(c, "chamoru.info") },
		name:  func(storage.Chunk) string { return "Chamoru.info" },
	},
	{
		match: func(c storage.Chunk) bool {
			return c.SourceType == storage.SourceTypeDocument || strings.HasSuffix(strings.ToLower(c.Source), ".pdf")
		},
		name: func(c storage.Chunk) string {
			return fmt.Sprintf("reference document (%s)", cleanFilename(c.Source))
		},
	},
	{
		match: func(c storage.Chunk) bool { return strings.Contains(c.Source, "://") },
		name:  hostName("online resource"),
	},
	{
		// Total fallback: every chunk resolves to some display name.
		match: func(storage.Chunk) bool { return true },
		name: func(c storage.Chunk) string {
			if name := cleanFilename(c.Source); name != "" {
				return fmt.Sprintf("reference document (%s)", name)
			}
			return "online resource"
		},
	},
}

// lessonName derives a lesson sub-category from the source URL path.
func lessonName(c storage.Chunk) string {
	lower := strings.ToLower(c.Source)
	switch {
	case strings.Contains(lower, "beginner"):
		return "beginner lessons"
	case strings.Contains(lower, "intermediate"):
		return "intermediate lessons"
	case strings.Contains(lower, "advanced"):
		return "advanced lessons"
	case strings.Contains(lower, "stories"):
		return "stories"
	default:
		return "CHamoru lessons"
	}
}

// hostName builds a "<label> (<host>)" name, falling back to the bare label
// when the source is not a URL.
func hostName(label string) func(storage.Chunk) string {
	return func(c storage.Chunk) string {
		u, err := url.Parse(c.Source)
		if err != nil || u.Host == "" {
			return label
		}
		return fmt.Sprintf("%s (%s)", label, strings.TrimPrefix(u.Host, "www."))
	}
}

func sourceContains(c storage.Chunk, fragment string) bool {
	return strings.Contains(strings.ToLower(c.Source), fragment)
}

// cleanFilename turns a path or URL into a readable document name.
func cleanFilename(source string) string {
	base := path.Base(strings.TrimSuffix(source, "/"))
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// displayName resolves a chunk to its citation name. The rule table is
// total, so this never fails; chunks that only hit the generic fallback are
// logged upstream as a data-quality warning for ingestion maintainers.
func displayName(c storage.Chunk) (name string, generic bool) {
	for i, rule := range displayNameRules {
		if rule.match(c) {
			return rule.name(c), i >= len(displayNameRules)-2
		}
	}
	// Unreachable: the last rule matches everything.
	return "online resource", true
}
