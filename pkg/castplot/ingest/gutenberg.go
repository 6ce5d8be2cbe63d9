package ingest

import "strings"

const (
	gutenbergStart = "*** start of"
	gutenbergEnd   = "*** end of"
)

// GutenbergBody returns the text between the "*** START OF ..." and
// "*** END OF ..." lines of a Project Gutenberg ebook. Missing markers leave
// the corresponding end of the text untouched.
func GutenbergBody(text string) string {
	// ASCII lowering keeps byte offsets aligned with text
	lower := asciiLower(text)

	if i := strings.Index(lower, gutenbergStart); i >= 0 {
		rest := i + len(gutenbergStart)
		if nl := strings.IndexByte(lower[rest:], '\n'); nl >= 0 {
			rest += nl + 1
		} else {
			rest = len(text)
		}
		text = text[rest:]
		lower = lower[rest:]
	}

	if i := strings.Index(lower, gutenbergEnd); i >= 0 {
		text = text[:i]
	}
	return text
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
