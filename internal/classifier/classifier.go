// Package classifier decides what kind of answer a query needs before any
// network call is made. Classification is purely lexical and deterministic:
// the query is normalized and scanned against per-intent keyword tables, so
// identical queries always produce identical decisions.
package classifier

import (
	"strings"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/chamorro"
)

// Intent is the classifier's categorical guess at what kind of answer the
// query needs.
type Intent string

const (
	IntentWordLookup  Intent = "word_lookup"
	IntentPhrase      Intent = "phrase_or_conversation"
	IntentNumber      Intent = "number"
	IntentGrammar     Intent = "grammar_or_lesson"
	IntentCultural    Intent = "cultural_or_historical"
	IntentRealTime    Intent = "real_time_info"
	IntentGenericChat Intent = "generic_chat"
)

// Engagement is the retrieval-engagement decision for a query.
type Engagement string

const (
	// EngageFull runs the complete retrieval pipeline.
	EngageFull Engagement = "full"
	// EngageSkip skips retrieval entirely (small talk with no CHamoru
	// content does not benefit from corpus context).
	EngageSkip Engagement = "skip"
	// EngageDeferWeb recommends the live web search fallback instead of the
	// corpus (weather, current events).
	EngageDeferWeb Engagement = "defer_web"
)

// Decision is the classifier output for one query.
type Decision struct {
	Intent     Intent
	Engagement Engagement
}

// Classifier scores queries against an immutable keyword table.
type Classifier struct {
	table Table
}

// New creates a Classifier from the given keyword table. Pass DefaultTable()
// for the production configuration.
func New(table Table) *Classifier {
	return &Classifier{table: table}
}

// Classify inspects the raw user query and returns an intent plus a
// retrieval-engagement decision. It is a pure function of the query text and
// the keyword table; absence of any signal is a valid state that defaults to
// generic chat with full retrieval.
func (c *Classifier) Classify(query string) Decision {
	normalized := " " + chamorro.Normalize(query) + " "

	scores := make(map[Intent]int, len(c.table.Sets))
	for _, set := range c.table.Sets {
		hits := 0
		for _, phrase := range set.phrasesNormalized {
			hits += strings.Count(normalized, " "+phrase+" ")
		}
		if hits > 0 {
			scores[set.Intent] += hits * set.Weight
		}
	}

	intent := IntentGenericChat
	best := 0
	// Precedence order resolves ties deterministically; grammar/lesson
	// outranks dictionary lookup, matching the system's pedagogical bias.
	for _, candidate := range c.table.Precedence {
		if score := scores[candidate]; score > best {
			best = score
			intent = candidate
		}
	}

	return Decision{
		Intent:     intent,
		Engagement: engagementFor(intent, query),
	}
}

func engagementFor(intent Intent, query string) Engagement {
	switch intent {
	case IntentRealTime:
		return EngageDeferWeb
	case IntentGenericChat:
		if !chamorro.ContainsMarkers(query) {
			return EngageSkip
		}
		return EngageFull
	default:
		return EngageFull
	}
}
