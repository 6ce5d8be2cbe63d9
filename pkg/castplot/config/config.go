package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/castplot/pkg/castplot/ingest"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
)

// Preamble modes
const (
	PreambleSkip      = "skip"
	PreambleGutenberg = "gutenberg"
)

// Config holds everything a pipeline run needs.
type Config struct {
	CachePath  string      `yaml:"cache_path"`
	SourceURL  string      `yaml:"source_url"`
	Characters []Character `yaml:"characters"`
	Preamble   Preamble    `yaml:"preamble"`
	Plot       Plot        `yaml:"plot"`
	Store      Store       `yaml:"store"`
}

// Character maps a label to the substrings that identify it
type Character struct {
	Label   string   `yaml:"label"`
	Markers []string `yaml:"markers"`
}

// Preamble selects how front matter is removed before tagging
type Preamble struct {
	Mode string `yaml:"mode"`
	Skip int    `yaml:"skip"`
}

// Plot holds the violin plot options
type Plot struct {
	Output      string  `yaml:"output"`
	Title       string  `yaml:"title"`
	XLabel      string  `yaml:"x_label"`
	YLabel      string  `yaml:"y_label"`
	WidthIn     float64 `yaml:"width_in"`
	HeightIn    float64 `yaml:"height_in"`
	Points      int     `yaml:"points"`
	ViolinWidth float64 `yaml:"violin_width"`
	ShowExtrema bool    `yaml:"show_extrema"`
	ShowMedians bool    `yaml:"show_medians"`
	Open        bool    `yaml:"open"`
}

// Store configures the optional run database. An empty path disables it.
type Store struct {
	Path string `yaml:"path"`
}

// Default compares Sherlock Holmes and John Watson in The Adventures of
// Sherlock Holmes.
func Default() *Config {
	return &Config{
		CachePath: "sherlock-holmes.txt",
		SourceURL: "https://www.gutenberg.org/files/1661/1661-0.txt",
		Characters: []Character{
			{Label: "Sherlock", Markers: []string{"sherlock", "holmes"}},
			{Label: "Watson", Markers: []string{"john", "watson"}},
		},
		Preamble: Preamble{
			Mode: PreambleSkip,
			Skip: ingest.DefaultSkip,
		},
		Plot: Plot{
			Output:      "words-per-sentence.png",
			Title:       "Words per sentence",
			XLabel:      "Feature",
			YLabel:      "# Words",
			WidthIn:     8,
			HeightIn:    8,
			Points:      40,
			ViolinWidth: 0.5,
			ShowExtrema: true,
			ShowMedians: true,
		},
	}
}

// Validate returns every problem found in the configuration.
func (c *Config) Validate() []error {
	var errs = make([]error, 0)
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(c.CachePath) == "" {
		invalid("cache_path is empty")
	}

	if u, err := url.Parse(c.SourceURL); err != nil {
		invalid("source_url %q: %v", c.SourceURL, err)
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		invalid("source_url %q must be an http(s) URL", c.SourceURL)
	}

	if len(c.Characters) == 0 {
		invalid("no characters configured")
	}
	seen := make(map[string]struct{}, len(c.Characters))
	for i, ch := range c.Characters {
		label := strings.TrimSpace(ch.Label)
		if label == "" {
			invalid("characters[%d] has an empty label", i)
			continue
		}
		if _, dup := seen[label]; dup {
			invalid("duplicate character label %q", label)
		}
		seen[label] = struct{}{}

		if !hasMarker(ch.Markers) {
			invalid("character %q has no markers", label)
		}
	}

	switch c.Preamble.Mode {
	case PreambleSkip:
		if c.Preamble.Skip < 0 {
			invalid("preamble.skip must not be negative, got %d", c.Preamble.Skip)
		}
	case PreambleGutenberg:
	default:
		invalid("unknown preamble.mode %q", c.Preamble.Mode)
	}

	if c.Plot.Points < 2 {
		invalid("plot.points must be at least 2, got %d", c.Plot.Points)
	}
	if c.Plot.ViolinWidth <= 0 {
		invalid("plot.violin_width must be positive")
	}
	if c.Plot.WidthIn <= 0 || c.Plot.HeightIn <= 0 {
		invalid("plot size must be positive, got %gx%g", c.Plot.WidthIn, c.Plot.HeightIn)
	}
	switch strings.ToLower(filepath.Ext(c.Plot.Output)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
	default:
		invalid("plot.output %q: unsupported image format", c.Plot.Output)
	}

	return errs
}

func hasMarker(markers []string) bool {
	for _, m := range markers {
		if strings.TrimSpace(m) != "" {
			return true
		}
	}
	return false
}

// Cast returns the configured characters for the tagger.
func (c *Config) Cast() []ingest.Character {
	out := make([]ingest.Character, len(c.Characters))
	for i, ch := range c.Characters {
		out[i] = ingest.Character{
			Label:   strings.TrimSpace(ch.Label),
			Markers: ch.Markers,
		}
	}
	return out
}

// Labels returns the character labels in configured order.
func (c *Config) Labels() []string {
	labels := make([]string, len(c.Characters))
	for i, ch := range c.Characters {
		labels[i] = strings.TrimSpace(ch.Label)
	}
	return labels
}

// Splitter builds the sentence splitter for the configured preamble rule.
func (c *Config) Splitter() *ingest.Splitter {
	if c.Preamble.Mode == PreambleGutenberg {
		return ingest.NewGutenbergSplitter()
	}
	return ingest.NewSplitter(c.Preamble.Skip)
}

// Write stores the configuration as YAML at path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
