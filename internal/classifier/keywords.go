package classifier

import "github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/chamorro"

// KeywordSet binds one intent to its trigger phrases. Weight lets strong
// signals (explicit "translate", "weather") outrank incidental word overlap.
type KeywordSet struct {
	Intent  Intent
	Weight  int
	Phrases []string

	phrasesNormalized []string
}

// Table is the immutable classifier configuration: keyword sets plus the
// fixed precedence order used to break score ties.
type Table struct {
	Sets       []KeywordSet
	Precedence []Intent
}

// NewTable normalizes all phrases up front so Classify never re-normalizes
// static configuration per query.
func NewTable(sets []KeywordSet, precedence []Intent) Table {
	for i := range sets {
		if sets[i].Weight <= 0 {
			sets[i].Weight = 1
		}
		sets[i].phrasesNormalized = make([]string, 0, len(sets[i].Phrases))
		for _, p := range sets[i].Phrases {
			if n := chamorro.Normalize(p); n != "" {
				sets[i].phrasesNormalized = append(sets[i].phrasesNormalized, n)
			}
		}
	}
	return Table{Sets: sets, Precedence: precedence}
}

// DefaultTable returns the production keyword configuration.
func DefaultTable() Table {
	return NewTable(
		[]KeywordSet{
			{
				Intent: IntentRealTime,
				Weight: 3,
				Phrases: []string{
					"weather", "forecast", "today", "tonight", "right now",
					"current events", "news today", "latest news", "typhoon",
					"score", "schedule", "open now",
				},
			},
			{
				Intent: IntentGrammar,
				Weight: 2,
				Phrases: []string{
					"grammar", "conjugate", "conjugation", "verb", "tense",
					"pronoun", "plural", "prefix", "suffix", "infix",
					"sentence structure", "word order", "lesson", "teach me",
					"practice", "exercise",
				},
			},
			{
				Intent: IntentWordLookup,
				Weight: 2,
				Phrases: []string{
					"what does", "mean", "meaning", "translate", "translation",
					"word for", "definition", "define", "dictionary",
				},
			},
			{
				Intent: IntentPhrase,
				Weight: 2,
				Phrases: []string{
					"how do i say", "how do you say", "how to say", "phrase",
					"greet", "greeting", "introduce", "conversation",
					"thank you in", "say hello", "respond to",
				},
			},
			{
				Intent: IntentNumber,
				Weight: 2,
				Phrases: []string{
					"number", "numbers", "count", "counting", "how many",
					"ordinal", "cardinal",
				},
			},
			{
				Intent: IntentCultural,
				Weight: 1,
				Phrases: []string{
					"history", "historical", "culture", "cultural",
					"tradition", "ancient", "legend", "chamorro people",
					"chamoru people", "guam", "marianas", "saipan",
					"spanish era", "latte stone", "fiesta", "inafa maolek",
					"respect", "matrilineal",
				},
			},
		},
		[]Intent{
			IntentRealTime,
			IntentGrammar,
			IntentWordLookup,
			IntentPhrase,
			IntentNumber,
			IntentCultural,
		},
	)
}
