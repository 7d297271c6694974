package chamorro

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Håfa Adai", "hafa adai"},
		{"folds diacritics", "Hagåtña mañana", "hagatna manana"},
		{"drops glota without splitting", "Yu'os ma'åse", "yuos maase"},
		{"drops curly glota", "Yu’os", "yuos"},
		{"collapses punctuation runs", "hello,   world!!", "hello world"},
		{"keeps digits", "lesson 3", "lesson 3"},
		{"trims edges", "  håfa  ", "hafa"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Håfa adai, che'lu!")
	want := []string{"hafa", "adai", "chelu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	if tokens := Tokenize("   "); tokens != nil {
		t.Errorf("expected nil tokens for blank input, got %v", tokens)
	}
}

func TestContainsMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain greeting", "Håfa adai!", true},
		{"accented form matches folded entry", "tåya' guaha", true},
		{"embedded in english sentence", "what does maolek mean", true},
		{"english only", "lol thanks!", false},
		{"substring is not a token", "leadership", false},
		{"number word", "hacha hugua tulu", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsMarkers(tt.input); got != tt.want {
				t.Errorf("ContainsMarkers(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
