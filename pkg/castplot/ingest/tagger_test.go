package ingest

import (
	"strings"
	"testing"
)

func holmesWatson() []Character {
	return []Character{
		{Label: "Sherlock", Markers: []string{"sherlock", "holmes"}},
		{Label: "Watson", Markers: []string{"john", "watson"}},
	}
}

func TestTaggerMentions(t *testing.T) {
	tagger := NewTagger(holmesWatson())

	tests := []struct {
		text     string
		sherlock bool
		watson   bool
	}{
		{text: "sherlock holmes smiled", sherlock: true},
		{text: " watson frowned", watson: true},
		{text: "holmes and watson", sherlock: true, watson: true},
		{text: " it rained", sherlock: false, watson: false},
		{text: "JOHN shouted", watson: true},
		{text: "holmesian deduction", sherlock: true}, // substring, not word, match
	}

	for _, tt := range tests {
		got := tagger.Mentions(tt.text)
		if got["Sherlock"] != tt.sherlock {
			t.Errorf("Mentions(%q)[Sherlock] = %v, want %v", tt.text, got["Sherlock"], tt.sherlock)
		}
		if got["Watson"] != tt.watson {
			t.Errorf("Mentions(%q)[Watson] = %v, want %v", tt.text, got["Watson"], tt.watson)
		}
	}
}

func TestTaggerMarkersCaseInsensitive(t *testing.T) {
	tagger := NewTagger([]Character{{Label: "Irene", Markers: []string{"Irene ADLER"}}})

	if !tagger.Mentions("the woman, irene adler")["Irene"] {
		t.Error("upper-case markers should match lower-cased text")
	}
}

func TestTaggerDropsEmptyMarkers(t *testing.T) {
	tagger := NewTagger([]Character{{Label: "Nobody", Markers: []string{""}}})

	if tagger.Mentions("anything at all")["Nobody"] {
		t.Error("an empty marker must not match every sentence")
	}
}

func TestTaggerLabelsKeepOrder(t *testing.T) {
	chars := []Character{
		{Label: "Watson", Markers: []string{"watson"}},
		{Label: "Sherlock", Markers: []string{"holmes"}},
		{Label: "Lestrade", Markers: []string{"lestrade"}},
	}
	labels := NewTagger(chars).Labels()
	if strings.Join(labels, ",") != "Watson,Sherlock,Lestrade" {
		t.Errorf("Labels() = %v, want configured order", labels)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 1},
		{text: "one", want: 1},
		{text: "sherlock holmes smiled", want: 3},
		{text: " watson frowned", want: 3},
		{text: "a  b", want: 3},
		{text: "trailing ", want: 2},
		{text: "tab\tseparated", want: 1},
	}

	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
		if got, split := WordCount(tt.text), len(strings.Split(tt.text, " ")); got != split {
			t.Errorf("WordCount(%q) = %d, strings.Split gives %d", tt.text, got, split)
		}
	}
}

func TestPipelineProcessExample(t *testing.T) {
	pipeline := NewPipeline(NewSplitter(0), NewTagger(holmesWatson()))

	records := pipeline.Process("Sherlock Holmes smiled. Watson frowned! It rained.")

	want := []Record{
		{Index: 0, Text: "sherlock holmes smiled", Mentions: map[string]bool{"Sherlock": true, "Watson": false}, Words: 3},
		{Index: 1, Text: " watson frowned", Mentions: map[string]bool{"Sherlock": false, "Watson": true}, Words: 3},
		{Index: 2, Text: " it rained", Mentions: map[string]bool{"Sherlock": false, "Watson": false}, Words: 3},
		{Index: 3, Text: "", Mentions: map[string]bool{"Sherlock": false, "Watson": false}, Words: 1},
	}

	if len(records) != len(want) {
		t.Fatalf("Process() returned %d records, want %d", len(records), len(want))
	}
	for i, w := range want {
		got := records[i]
		if got.Index != w.Index || got.Text != w.Text || got.Words != w.Words {
			t.Errorf("record %d = {%d %q %d}, want {%d %q %d}", i, got.Index, got.Text, got.Words, w.Index, w.Text, w.Words)
		}
		for label, flag := range w.Mentions {
			if got.Mentioned(label) != flag {
				t.Errorf("record %d Mentioned(%s) = %v, want %v", i, label, got.Mentioned(label), flag)
			}
		}
	}
}

func TestPipelineLabels(t *testing.T) {
	pipeline := NewPipeline(NewSplitter(0), NewTagger(holmesWatson()))
	if got := pipeline.Labels(); len(got) != 2 || got[0] != "Sherlock" {
		t.Errorf("Labels() = %v", got)
	}
}
