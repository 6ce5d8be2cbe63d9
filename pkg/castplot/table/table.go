// Package table exposes sentence records as named columns for filtering and
// aggregation.
package table

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/castplot/pkg/castplot/ingest"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
)

// Fixed column names; every character label adds a boolean column.
const (
	ColumnText     = "text"
	ColumnNumWords = "num_words"
)

// Table is an ordered collection of sentence records.
type Table struct {
	labels  []string
	records []ingest.Record
}

// New creates a table over records, with one flag column per label.
func New(labels []string, records []ingest.Record) *Table {
	return &Table{
		labels:  append([]string(nil), labels...),
		records: records,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Labels returns the character labels in column order.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Columns returns the column names: text, one per label, num_words.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.labels)+2)
	cols = append(cols, ColumnText)
	cols = append(cols, t.labels...)
	return append(cols, ColumnNumWords)
}

// Records returns the rows.
func (t *Table) Records() []ingest.Record {
	return t.records
}

// Text returns the text column.
func (t *Table) Text() []string {
	out := make([]string, len(t.records))
	for i, r := range t.records {
		out[i] = r.Text
	}
	return out
}

// NumWords returns the word-count column.
func (t *Table) NumWords() []float64 {
	out := make([]float64, len(t.records))
	for i, r := range t.records {
		out[i] = float64(r.Words)
	}
	return out
}

// Flag returns the boolean column for label.
func (t *Table) Flag(label string) ([]bool, error) {
	if !t.hasLabel(label) {
		return nil, fmt.Errorf("%w: unknown column %q", internalerr.ErrInvalidInput, label)
	}
	out := make([]bool, len(t.records))
	for i, r := range t.records {
		out[i] = r.Mentioned(label)
	}
	return out, nil
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(ingest.Record) bool) *Table {
	var rows []ingest.Record
	for _, r := range t.records {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return &Table{labels: t.labels, records: rows}
}

// Where returns the rows whose flag for label is true.
func (t *Table) Where(label string) *Table {
	return t.Filter(func(r ingest.Record) bool { return r.Mentioned(label) })
}

// Sample is the word counts of every sentence mentioning one character.
type Sample struct {
	Label  string
	Values []float64
}

// Sample returns the word counts of rows flagged for label. Rows flagged for
// several labels appear in each of their samples.
func (t *Table) Sample(label string) Sample {
	return Sample{Label: label, Values: t.Where(label).NumWords()}
}

// Samples returns one sample per label, in label order.
func (t *Table) Samples() []Sample {
	out := make([]Sample, len(t.labels))
	for i, label := range t.labels {
		out[i] = t.Sample(label)
	}
	return out
}

func (t *Table) hasLabel(label string) bool {
	for _, l := range t.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Summary describes one sample.
type Summary struct {
	Label  string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64 // n-1 denominator, 0 below two values
}

// Summarize describes a sample. An empty sample yields a zero summary.
func Summarize(s Sample) Summary {
	sum := Summary{Label: s.Label, Count: len(s.Values)}
	if sum.Count == 0 {
		return sum
	}

	sorted := append([]float64(nil), s.Values...)
	sort.Float64s(sorted)

	sum.Min = floats.Min(sorted)
	sum.Max = floats.Max(sorted)
	sum.Median = Median(sorted)
	if sum.Count < 2 {
		sum.Mean = sorted[0]
		return sum
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(sorted, nil)
	return sum
}

// Summaries describes every label's sample, in label order.
func (t *Table) Summaries() []Summary {
	samples := t.Samples()
	out := make([]Summary, len(samples))
	for i, s := range samples {
		out[i] = Summarize(s)
	}
	return out
}

// Median returns the middle of sorted values, averaging the two middle
// values of an even-length slice. sorted must be ascending and non-empty.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
