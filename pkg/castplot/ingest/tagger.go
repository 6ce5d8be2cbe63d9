package ingest

import "strings"

// Character names a tagged character and the substrings that identify it.
type Character struct {
	Label   string
	Markers []string
}

// Tagger flags sentences that mention configured characters.
type Tagger struct {
	chars []Character // markers lowercase, empties dropped
}

// NewTagger creates a tagger for the given characters. Marker matching is
// case-insensitive. Order is preserved and drives sample order downstream.
func NewTagger(chars []Character) *Tagger {
	normalized := make([]Character, 0, len(chars))
	for _, c := range chars {
		markers := make([]string, 0, len(c.Markers))
		for _, m := range c.Markers {
			if m == "" {
				continue
			}
			markers = append(markers, strings.ToLower(m))
		}
		normalized = append(normalized, Character{Label: c.Label, Markers: markers})
	}
	return &Tagger{chars: normalized}
}

// Labels returns the character labels in configured order.
func (t *Tagger) Labels() []string {
	labels := make([]string, len(t.chars))
	for i, c := range t.chars {
		labels[i] = c.Label
	}
	return labels
}

// Mentions returns, for every configured character, whether text contains
// one of its markers.
func (t *Tagger) Mentions(text string) map[string]bool {
	lower := strings.ToLower(text)
	out := make(map[string]bool, len(t.chars))
	for _, c := range t.chars {
		out[c.Label] = containsAny(lower, c.Markers...)
	}
	return out
}

// Tag turns normalised sentences into records.
func (t *Tagger) Tag(sentences []string) []Record {
	records := make([]Record, len(sentences))
	for i, s := range sentences {
		records[i] = Record{
			Index:    i,
			Text:     s,
			Mentions: t.Mentions(s),
			Words:    WordCount(s),
		}
	}
	return records
}

// WordCount counts the pieces of text split on single spaces. Consecutive,
// leading and trailing spaces produce empty pieces, and those are counted.
func WordCount(text string) int {
	return strings.Count(text, " ") + 1
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
