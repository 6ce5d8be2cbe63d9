package ingest

// Pipeline orchestrates the sentence flow:
// text → split → normalise → tag → measure
type Pipeline struct {
	splitter *Splitter
	tagger   *Tagger
}

// NewPipeline creates an ingestion pipeline with the given components
func NewPipeline(splitter *Splitter, tagger *Tagger) *Pipeline {
	return &Pipeline{
		splitter: splitter,
		tagger:   tagger,
	}
}

// Labels returns the character labels the pipeline tags, in order.
func (p *Pipeline) Labels() []string {
	return p.tagger.Labels()
}

// Process runs a document through the full ingestion pipeline
func (p *Pipeline) Process(text string) []Record {
	return p.tagger.Tag(p.splitter.Split(text))
}
