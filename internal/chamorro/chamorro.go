// Package chamorro provides lexical helpers for detecting and normalizing
// CHamoru text. Both the query classifier and the ingestion pipeline rely on
// the same marker-word list so that "contains CHamoru" means the same thing
// at index time and at query time.
package chamorro

import (
	"strings"
	"unicode"
)

// markerWords is a small curated list of high-frequency CHamoru tokens.
// Matching is done on normalized text, so entries are written without
// diacritics or glottal stops.
var markerWords = map[string]struct{}{
	"hafa":    {},
	"adai":    {},
	"guahu":   {},
	"hagu":    {},
	"guiya":   {},
	"hita":    {},
	"hamyo":   {},
	"siha":    {},
	"maolek":  {},
	"taimanu": {},
	"manana":  {},
	"guaha":   {},
	"taya":    {},
	"hunggan": {},
	"ahe":     {},
	"lao":     {},
	"yan":     {},
	"ginen":   {},
	"magos":   {},
	"chamoru": {},
	"chamorro": {},
	"biba":    {},
	"adios":   {},
	"asaina":  {},
	"saina":   {},
	"pulan":   {},
	"tasi":    {},
	"latte":   {},
	"hacha":   {},
	"hugua":   {},
	"tulu":    {},
	"fatfat":  {},
	"lima":    {},
	"gunum":   {},
	"fiti":    {},
	"gualu":   {},
	"sigua":   {},
	"manot":   {},
}

// diacriticFold maps the CHamoru orthography's accented runes to their plain
// ASCII forms. The glota (') is dropped entirely.
var diacriticFold = map[rune]rune{
	'å': 'a', 'Å': 'a',
	'á': 'a', 'Á': 'a',
	'é': 'e', 'É': 'e',
	'í': 'i', 'Í': 'i',
	'ó': 'o', 'Ó': 'o',
	'ú': 'u', 'Ú': 'u',
	'ñ': 'n', 'Ñ': 'n',
}

// Normalize lowercases text, folds CHamoru diacritics and removes glottal
// stop marks, leaving only letters, digits and single spaces.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range strings.ToLower(text) {
		if folded, ok := diacriticFold[r]; ok {
			r = folded
		}
		switch {
		case r == '\'' || r == '’' || r == 'ʼ':
			// glota: drop without splitting the token ("yu'os" -> "yuos")
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize returns the normalized word tokens of text.
func Tokenize(text string) []string {
	clean := Normalize(text)
	if clean == "" {
		return nil
	}
	return strings.Fields(clean)
}

// ContainsMarkers reports whether any token of text matches the CHamoru
// marker-word list.
func ContainsMarkers(text string) bool {
	for _, token := range Tokenize(text) {
		if _, ok := markerWords[token]; ok {
			return true
		}
	}
	return false
}
