package ingest

// Record is one sentence after splitting, tagging and measuring.
type Record struct {
	Index    int             // position after the preamble drop
	Text     string          // lower-cased, newline-normalised
	Mentions map[string]bool // character label → mentioned
	Words    int             // space-separated tokens, empties included
}

// Mentioned reports whether the record mentions the character with the given label.
func (r Record) Mentioned(label string) bool {
	return r.Mentions[label]
}
