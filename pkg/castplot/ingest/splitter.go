package ingest

import (
	"regexp"
	"strings"
)

// DefaultSkip is the number of leading segments dropped as front matter.
// It fits the Project Gutenberg edition of The Adventures of Sherlock Holmes
// and nothing else; use NewGutenbergSplitter for other books.
const DefaultSkip = 3

var (
	stopPattern = regexp.MustCompile(`\.|\?|!`)
	lineBreaks  = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
)

// Splitter breaks a document into normalised sentence segments.
type Splitter struct {
	skip      int
	gutenberg bool
}

// NewSplitter creates a splitter that drops the first skip segments.
// Negative values are treated as zero.
func NewSplitter(skip int) *Splitter {
	if skip < 0 {
		skip = 0
	}
	return &Splitter{skip: skip}
}

// NewGutenbergSplitter creates a splitter that cuts the document down to the
// text between the Project Gutenberg start and end markers instead of
// dropping a fixed number of segments.
func NewGutenbergSplitter() *Splitter {
	return &Splitter{gutenberg: true}
}

// Skip returns the number of leading segments this splitter drops.
func (s *Splitter) Skip() int {
	return s.skip
}

// Segments returns the raw terminator-split pieces of text, before
// normalisation and before any preamble handling.
func Segments(text string) []string {
	return stopPattern.Split(text, -1)
}

// Split returns the normalised sentences of text.
// len(result) == max(len(Segments(body)) - skip, 0)
func (s *Splitter) Split(text string) []string {
	if s.gutenberg {
		text = GutenbergBody(text)
	}

	segments := Segments(text)
	if s.skip >= len(segments) {
		return []string{}
	}
	segments = segments[s.skip:]

	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = Normalize(seg)
	}
	return out
}

// Normalize lower-cases a segment and turns every line break (CRLF, CR or
// LF) into a single space. Runs of whitespace are left alone.
func Normalize(segment string) string {
	return lineBreaks.Replace(strings.ToLower(segment))
}
