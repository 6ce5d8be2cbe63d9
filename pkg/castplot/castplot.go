// Package castplot compares how long the sentences mentioning different
// characters of a book are.
package castplot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/castplot/pkg/castplot/chart"
	"github.com/cognicore/castplot/pkg/castplot/config"
	"github.com/cognicore/castplot/pkg/castplot/ingest"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
	"github.com/cognicore/castplot/pkg/castplot/source"
	"github.com/cognicore/castplot/pkg/castplot/store"
	"github.com/cognicore/castplot/pkg/castplot/store/sqlite"
	"github.com/cognicore/castplot/pkg/castplot/table"
)

// Castplot runs the fetch → split → tag → tabulate → plot pipeline
type Castplot struct {
	provider source.Provider
	pipeline *ingest.Pipeline
	renderer chart.Renderer
	store    store.Store
	log      *zap.SugaredLogger
	now      func() time.Time
}

// Options configures a Castplot instance. Renderer and Store are optional.
type Options struct {
	Provider source.Provider
	Pipeline *ingest.Pipeline
	Renderer chart.Renderer
	Store    store.Store
	Log      *zap.SugaredLogger
	Now      func() time.Time
}

// New creates a Castplot instance with the given dependencies
func New(opts Options) *Castplot {
	c := &Castplot{
		provider: opts.Provider,
		pipeline: opts.Pipeline,
		renderer: opts.Renderer,
		store:    opts.Store,
		log:      opts.Log,
		now:      opts.Now,
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Result is what one run produced.
type Result struct {
	RunID    string
	Document source.Document
	Table    *table.Table
	Samples  []table.Sample
}

// Summaries describes every character's sample.
func (r *Result) Summaries() []table.Summary {
	return r.Table.Summaries()
}

// Analyze acquires the document, tabulates its sentences and, when a store
// is configured, saves the run. It does not render.
func (c *Castplot) Analyze(ctx context.Context) (*Result, error) {
	if c.provider == nil || c.pipeline == nil {
		return nil, fmt.Errorf("%w: provider and pipeline are required", internalerr.ErrInvalidInput)
	}

	doc, err := c.provider.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire document: %w", err)
	}
	c.log.Debugf("document from %s: %d bytes", doc.Origin, len(doc.Text))

	now := c.now()
	records := c.pipeline.Process(doc.Text)
	tbl := table.New(c.pipeline.Labels(), records)
	res := &Result{
		RunID:    store.NewRunID(now),
		Document: doc,
		Table:    tbl,
		Samples:  tbl.Samples(),
	}
	c.log.Infof("%d sentences after preamble removal", tbl.Len())
	for _, s := range res.Samples {
		c.log.Infof("%s: %d sentences", s.Label, len(s.Values))
	}

	if c.store != nil {
		run := store.Run{
			ID:        res.RunID,
			SourceURL: doc.URL,
			CachePath: doc.Path,
			Labels:    tbl.Labels(),
			CreatedAt: now,
		}
		if err := c.store.SaveRun(ctx, run, records); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		c.log.Debugf("saved run %s", res.RunID)
	}

	return res, nil
}

// Run analyses the document and renders the samples.
func (c *Castplot) Run(ctx context.Context) (*Result, error) {
	res, err := c.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	if c.renderer == nil {
		return res, nil
	}
	if err := c.renderer.Render(ctx, res.Samples); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return res, nil
}

// Close releases the store, if any.
func (c *Castplot) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Open validates cfg and wires a Castplot from it: cached HTTP provider,
// configured splitter and tagger, violin renderer and, when store.path is
// set, a SQLite run store. The caller must Close the result.
func Open(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Castplot, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	opts := Options{
		Provider: &source.CachedProvider{
			CachePath: cfg.CachePath,
			URL:       cfg.SourceURL,
			Log:       log,
		},
		Pipeline: ingest.NewPipeline(cfg.Splitter(), ingest.NewTagger(cfg.Cast())),
		Renderer: chart.NewViolinRenderer(ChartOptions(cfg.Plot), log),
		Log:      log,
	}

	if cfg.Store.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
		}
		opts.Store = st
	}

	return New(opts), nil
}

// ChartOptions converts plot configuration into renderer options.
func ChartOptions(p config.Plot) chart.Options {
	return chart.Options{
		Output:      p.Output,
		Title:       p.Title,
		XLabel:      p.XLabel,
		YLabel:      p.YLabel,
		WidthIn:     p.WidthIn,
		HeightIn:    p.HeightIn,
		Points:      p.Points,
		ViolinWidth: p.ViolinWidth,
		ShowExtrema: p.ShowExtrema,
		ShowMedians: p.ShowMedians,
		Open:        p.Open,
	}
}
