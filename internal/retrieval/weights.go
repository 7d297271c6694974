package retrieval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/classifier"
	"github.com/Shimizu-Technology/HafaGPT-API-sub001/internal/storage"
)

// Weights is the immutable ranking configuration: contextual multipliers
// applied to static chunk priority, plus bilingual bonuses. The numeric
// values are tuned knobs, not derived constants, which is why they live in
// configuration rather than code; tests assert relative ordering only.
type Weights struct {
	// Contexts maps a weighting context ("words", "phrases", "numbers",
	// "cultural", "grammar") to per-source-type priority multipliers.
	// Missing entries default to 1.0.
	Contexts map[string]map[string]float64 `yaml:"contexts"`

	// BilingualBonus is a fixed additive bonus per source type for chunks
	// that contain CHamoru text. DefaultBilingualBonus applies to source
	// types without an entry.
	BilingualBonus        map[string]float64 `yaml:"bilingual_bonus"`
	DefaultBilingualBonus float64            `yaml:"default_bilingual_bonus"`
}

// DefaultWeights returns the production ranking configuration.
func DefaultWeights() Weights {
	return Weights{
		Contexts: map[string]map[string]float64{
			// Simple definitions: favor the dictionary, penalize verbose
			// lesson prose.
			"words": {
				storage.SourceTypeDictionary: 2.0,
				storage.SourceTypeLesson:     0.7,
			},
			// Conversational needs: bare definitions are nearly useless.
			"phrases": {
				storage.SourceTypeLesson:     2.2,
				storage.SourceTypeStory:      2.0,
				storage.SourceTypeBlog:       2.0,
				storage.SourceTypeDictionary: 0.5,
			},
			"numbers": {
				storage.SourceTypeLesson: 2.0,
				storage.SourceTypeBlog:   1.8,
			},
			"cultural": {
				storage.SourceTypeEncyclopedia: 2.2,
				storage.SourceTypeStory:        2.0,
				storage.SourceTypeNews:         1.8,
				storage.SourceTypeDictionary:   0.3,
			},
			// Static priority already favors lesson content.
			"grammar": {},
		},
		BilingualBonus: map[string]float64{
			storage.SourceTypeLesson:     15,
			storage.SourceTypeDictionary: 12,
			storage.SourceTypeStory:      10,
			storage.SourceTypeBlog:       8,
		},
		DefaultBilingualBonus: 5,
	}
}

// LoadWeights reads a YAML ranking configuration file. Sections omitted from
// the file keep their defaults.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("failed to read ranking config: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("failed to parse ranking config: %w", err)
	}
	return w, nil
}

// contextKey resolves the weighting context for a query. An explicit card
// type supersedes intent-based weighting; unmatched intents map to "" which
// leaves static priority untouched.
func contextKey(intent classifier.Intent, cardType CardType) string {
	switch cardType {
	case CardTypeWords:
		return "words"
	case CardTypePhrases:
		return "phrases"
	case CardTypeNumbers:
		return "numbers"
	case CardTypeCultural:
		return "cultural"
	}

	switch intent {
	case classifier.IntentWordLookup:
		return "words"
	case classifier.IntentPhrase:
		return "phrases"
	case classifier.IntentNumber:
		return "numbers"
	case classifier.IntentCultural:
		return "cultural"
	case classifier.IntentGrammar:
		return "grammar"
	}
	return ""
}

// multiplier returns the priority multiplier for a source type in the given
// weighting context.
func (w Weights) multiplier(context, sourceType string) float64 {
	if context == "" {
		return 1.0
	}
	ctx, ok := w.Contexts[context]
	if !ok {
		return 1.0
	}
	m, ok := ctx[sourceType]
	if !ok {
		return 1.0
	}
	return m
}

// bilingualBonus returns the additive bonus for a bilingual chunk of the
// given source type.
func (w Weights) bilingualBonus(sourceType string) float64 {
	if bonus, ok := w.BilingualBonus[sourceType]; ok {
		return bonus
	}
	return w.DefaultBilingualBonus
}

// sourceTypeFilter returns the source-type restriction implied by a card
// type, or nil when the whole corpus should be searched. Content generators
// in card mode want a narrow slice of the corpus, not just reweighting.
func sourceTypeFilter(cardType CardType) []string {
	switch cardType {
	case CardTypeWords:
		return []string{storage.SourceTypeDictionary, storage.SourceTypeLesson}
	case CardTypeNumbers:
		return []string{storage.SourceTypeLesson, storage.SourceTypeBlog}
	default:
		return nil
	}
}
