// Package chart renders word-count samples as a violin plot.
package chart

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/cognicore/castplot/pkg/castplot/table"
)

// Renderer draws samples somewhere visible.
type Renderer interface {
	Render(ctx context.Context, samples []table.Sample) error
}

// Options controls the violin figure.
type Options struct {
	Output      string // image path; the extension selects the format
	Title       string
	XLabel      string
	YLabel      string
	WidthIn     float64
	HeightIn    float64
	Points      int     // density evaluation points per violin
	ViolinWidth float64 // full violin width in x units
	ShowExtrema bool
	ShowMedians bool
	Open        bool // hand the image to the system viewer after saving
}

// DefaultOptions is an 8x8 inch figure with 40-point densities and
// half-unit violins.
func DefaultOptions() Options {
	return Options{
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
	}
}

// ViolinRenderer saves a violin plot of the samples, one violin per sample
// at x positions 1..n.
type ViolinRenderer struct {
	opts   Options
	log    *zap.SugaredLogger
	opener func(path string) error
}

// NewViolinRenderer creates a renderer. log may be nil.
func NewViolinRenderer(opts Options, log *zap.SugaredLogger) *ViolinRenderer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ViolinRenderer{opts: opts, log: log, opener: browser.OpenFile}
}

// SetOpener replaces the function used to show a saved image.
func (r *ViolinRenderer) SetOpener(open func(path string) error) {
	r.opener = open
}

// Build lays out the plot without saving it. Empty samples keep their slot
// and tick label but draw no violin.
func (r *ViolinRenderer) Build(samples []table.Sample) *plot.Plot {
	p := plot.New()
	p.Title.Text = r.opts.Title
	p.X.Label.Text = r.opts.XLabel
	p.Y.Label.Text = r.opts.YLabel

	ticks := make(plot.ConstantTicks, len(samples))
	for i, s := range samples {
		pos := float64(i + 1)
		v := NewViolin(pos, r.opts.ViolinWidth, r.opts.Points, s.Values)
		v.ShowExtrema = r.opts.ShowExtrema
		v.ShowMedian = r.opts.ShowMedians
		p.Add(v)
		ticks[i] = plot.Tick{Value: pos, Label: s.Label}

		if v.Empty() {
			r.log.Warnf("no sentences mention %s, drawing an empty slot", s.Label)
		}
	}
	p.X.Tick.Marker = ticks
	p.X.Min = 0.25
	p.X.Max = float64(len(samples)) + 0.75

	return p
}

// Render saves the plot to Options.Output and optionally opens it.
func (r *ViolinRenderer) Render(ctx context.Context, samples []table.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := r.Build(samples)
	if dir := filepath.Dir(r.opts.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create plot dir: %w", err)
		}
	}
	if err := p.Save(r.width(), r.height(), r.opts.Output); err != nil {
		return fmt.Errorf("save plot %s: %w", r.opts.Output, err)
	}
	r.log.Infof("plot written to %s", r.opts.Output)

	if r.opts.Open {
		if err := r.opener(r.opts.Output); err != nil {
			return fmt.Errorf("open plot %s: %w", r.opts.Output, err)
		}
	}
	return nil
}

// WriteTo renders the plot in the given format ("png", "svg", ...) to w.
func (r *ViolinRenderer) WriteTo(w io.Writer, format string, samples []table.Sample) error {
	p := r.Build(samples)
	wt, err := p.WriterTo(r.width(), r.height(), format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func (r *ViolinRenderer) width() vg.Length {
	return vg.Length(r.opts.WidthIn) * vg.Inch
}

func (r *ViolinRenderer) height() vg.Length {
	return vg.Length(r.opts.HeightIn) * vg.Inch
}
