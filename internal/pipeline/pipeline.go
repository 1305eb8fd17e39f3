package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/exhibit/internal/catalog"
	"github.com/crimson-sun/exhibit/internal/engine"
	"github.com/crimson-sun/exhibit/internal/model"
)

// Processor enriches one vendor. *engine.Engine satisfies it.
type Processor interface {
	Process(index int, rec model.VendorRecord, seed uint64) (model.VendorRecord, engine.Report, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many vendors are processed concurrently. Default: 1.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithSeed fixes the master seed. 0 (default) picks one from the clock.
func WithSeed(seed uint64) Option {
	return func(p *Pipeline) { p.seed = seed }
}

// Pipeline loads a vendor collection, enriches every record, and writes the
// result back as one document.
type Pipeline struct {
	proc    Processor
	workers int
	seed    uint64
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID            string                 `json:"run_id"`
	Seed             uint64                 `json:"seed"`
	Source           string                 `json:"source,omitempty"`
	Destination      string                 `json:"destination,omitempty"`
	Vendors          int                    `json:"vendors"`
	Categories       map[model.Category]int `json:"categories"`
	Fallbacks        map[model.PoolKind]int `json:"fallbacks"`
	MissingFarewells []string               `json:"missing_farewells,omitempty"` // vendor ids whose dialog has no end response
	Coordinates      int                    `json:"coordinates_assigned"`        // vendors that received placeholder coordinates
	Duration         time.Duration          `json:"duration_ns"`
}

// New creates a Pipeline around proc.
func New(proc Processor, opts ...Option) *Pipeline {
	p := &Pipeline{proc: proc, workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run enriches the collection at src and saves it to dst, which may be the
// same path. Nothing is written if loading, processing, or the context fails.
func (p *Pipeline) Run(ctx context.Context, src, dst string) (Summary, error) {
	start := time.Now()

	recs, err := catalog.Load(src)
	if err != nil {
		return Summary{}, fmt.Errorf("pipeline load: %w", err)
	}

	out, sum, err := p.Enrich(ctx, recs)
	if err != nil {
		return sum, err
	}
	sum.Source, sum.Destination = src, dst

	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("pipeline: %w", err)
	}
	if err := catalog.Save(dst, out); err != nil {
		return sum, fmt.Errorf("pipeline save: %w", err)
	}

	sum.Duration = time.Since(start)
	slog.Info("run complete",
		"run_id", sum.RunID,
		"vendors", sum.Vendors,
		"dst", dst,
		"missing_farewells", len(sum.MissingFarewells),
		"duration", sum.Duration,
	)
	return sum, nil
}

// Enrich processes recs in memory and returns the new records in input order.
// Per-vendor seeds are drawn from the master seed before any work starts,
// so output does not depend on the worker count.
func (p *Pipeline) Enrich(ctx context.Context, recs []model.VendorRecord) ([]model.VendorRecord, Summary, error) {
	seed := p.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sum := Summary{
		RunID:      newRunID(),
		Seed:       seed,
		Vendors:    len(recs),
		Categories: make(map[model.Category]int),
		Fallbacks:  make(map[model.PoolKind]int),
	}
	log := slog.With("run_id", sum.RunID)
	log.Debug("run started", "vendors", len(recs), "workers", p.workers, "seed", seed)

	seeds := engine.Seeds(engine.NewRand(seed), len(recs))
	out := make([]model.VendorRecord, len(recs))
	reports := make([]engine.Report, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range recs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, rep, err := p.proc.Process(i, recs[i], seeds[i])
			if err != nil {
				return err
			}
			out[i], reports[i] = rec, rep
			log.Debug("vendor enriched", "vendor", rec.ID, "category", rep.Category, "keyword", rep.Keyword)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, sum, fmt.Errorf("pipeline process: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, sum, fmt.Errorf("pipeline: %w", err)
	}

	for _, rep := range reports {
		sum.Categories[rep.Category]++
		for _, kind := range rep.Fallbacks {
			sum.Fallbacks[kind]++
		}
		if rep.FarewellMissing {
			sum.MissingFarewells = append(sum.MissingFarewells, rep.VendorID)
		}
		if rep.CoordinatesAssigned {
			sum.Coordinates++
		}
	}
	return out, sum, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
