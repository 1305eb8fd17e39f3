package exhibit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/crimson-sun/exhibit/internal/catalog"
	"github.com/crimson-sun/exhibit/internal/config"
	"github.com/crimson-sun/exhibit/internal/engine"
	"github.com/crimson-sun/exhibit/internal/engine/classifier"
	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
	"github.com/crimson-sun/exhibit/internal/pipeline"
)

// Exhibit classifies vendors and generates their booth content.
// Safe for concurrent use.
type Exhibit struct {
	engine   *engine.Engine
	cls      *classifier.Classifier
	taxonomy *taxonomy.Taxonomy
	workers  int
	seed     uint64
}

// New creates an Exhibit, loading and validating the taxonomy.
func New(opts ...Option) (*Exhibit, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.Config{
		Engine: config.EngineConfig{
			TaxonomyPath:  o.taxonomyPath,
			MatchMode:     o.matchMode,
			FactsMin:      o.factsMin,
			FactsMax:      o.factsMax,
			ItemsMin:      o.itemsMin,
			ItemsMax:      o.itemsMax,
			ClassifyItems: o.classifyItems,
		},
		Pipeline: config.PipelineConfig{Workers: o.workers, Seed: o.seed},
		Log:      config.LogConfig{Level: "info", Format: "text"},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("exhibit: %w", err)
	}

	parts, err := o.parsedParts()
	if err != nil {
		return nil, fmt.Errorf("exhibit: %w", err)
	}
	mode, err := classifier.ParseMatchMode(o.matchMode)
	if err != nil {
		return nil, fmt.Errorf("exhibit: %w", err)
	}

	var tax *taxonomy.Taxonomy
	if o.taxonomyPath != "" {
		tax, err = taxonomy.Load(o.taxonomyPath)
	} else {
		tax, err = taxonomy.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("exhibit: %w", err)
	}

	cls := classifier.New(tax, mode)
	eng := engine.New(tax, cls, engine.Options{
		FactsMin:      o.factsMin,
		FactsMax:      o.factsMax,
		ItemsMin:      o.itemsMin,
		ItemsMax:      o.itemsMax,
		Parts:         parts,
		ClassifyItems: o.classifyItems,
	})

	return &Exhibit{engine: eng, cls: cls, taxonomy: tax, workers: o.workers, seed: o.seed}, nil
}

// Classify returns the category for a vendor's name, description, and
// optional item names. It never fails.
func (x *Exhibit) Classify(name, description string, itemNames ...string) Classification {
	m := x.cls.Explain(name, description, itemNames...)
	return Classification{Category: string(m.Category), Keyword: m.Keyword}
}

// Enrich takes a vendor document (a JSON array of vendor objects) and
// returns the enriched document. Unknown fields are preserved.
func (x *Exhibit) Enrich(ctx context.Context, document []byte) ([]byte, Summary, error) {
	start := time.Now()
	recs, err := catalog.Decode(document)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("exhibit: %w", err)
	}
	out, sum, err := x.pipeline().Enrich(ctx, recs)
	if err != nil {
		return nil, summaryFromPipeline(sum), fmt.Errorf("exhibit: %w", err)
	}

	var b bytes.Buffer
	if err := catalog.Encode(&b, out); err != nil {
		return nil, summaryFromPipeline(sum), fmt.Errorf("exhibit: %w", err)
	}
	sum.Duration = time.Since(start)
	return b.Bytes(), summaryFromPipeline(sum), nil
}

// EnrichFile enriches the document at src and atomically writes it to dst,
// which may be the same path. Nothing is written on failure.
func (x *Exhibit) EnrichFile(ctx context.Context, src, dst string) (Summary, error) {
	sum, err := x.pipeline().Run(ctx, src, dst)
	if err != nil {
		return summaryFromPipeline(sum), fmt.Errorf("exhibit: %w", err)
	}
	return summaryFromPipeline(sum), nil
}

func (x *Exhibit) pipeline() *pipeline.Pipeline {
	return pipeline.New(x.engine, pipeline.WithWorkers(x.workers), pipeline.WithSeed(x.seed))
}
