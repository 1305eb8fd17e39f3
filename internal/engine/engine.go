package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/crimson-sun/exhibit/internal/engine/classifier"
	"github.com/crimson-sun/exhibit/internal/engine/selector"
	"github.com/crimson-sun/exhibit/internal/engine/synth"
	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
	"github.com/crimson-sun/exhibit/internal/model"
)

// Options bounds the content drawn for each vendor.
type Options struct {
	FactsMin, FactsMax int
	ItemsMin, ItemsMax int
	Parts              synth.Part
	// ClassifyItems feeds the vendor's current item names to the classifier.
	ClassifyItems bool
}

// DefaultOptions returns the standard draw bounds with every part enabled.
func DefaultOptions() Options {
	return Options{
		FactsMin: 2, FactsMax: 3,
		ItemsMin: 3, ItemsMax: 5,
		Parts: synth.AllParts,
	}
}

// Report describes what happened to one vendor.
type Report struct {
	Index     int
	VendorID  string
	Category  model.Category
	Keyword   string
	Fallbacks []model.PoolKind // pools drawn from general instead of Category
	// FarewellMissing is set when a farewell was drawn but the dialog had
	// no "end" response to carry it.
	FarewellMissing     bool
	CoordinatesAssigned bool
}

// Engine orchestrates the classify → select → synthesize steps.
type Engine struct {
	taxonomy   *taxonomy.Taxonomy
	classifier *classifier.Classifier
	opts       Options
}

// New creates an Engine with the provided components.
func New(tax *taxonomy.Taxonomy, cls *classifier.Classifier, opts Options) *Engine {
	if opts.Parts == 0 {
		opts.Parts = synth.AllParts
	}
	return &Engine{
		taxonomy:   tax,
		classifier: cls,
		opts:       opts,
	}
}

// Taxonomy returns the table the engine draws from.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.taxonomy
}

// Explain classifies rec and reports the matching rule.
func (e *Engine) Explain(rec model.VendorRecord) classifier.Match {
	if e.opts.ClassifyItems {
		return e.classifier.Explain(rec.Name, rec.Description, rec.ItemNames()...)
	}
	return e.classifier.Explain(rec.Name, rec.Description)
}

// NewRand returns a generator seeded from a single value.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Seeds draws n per-vendor seeds from master, in order.
func Seeds(master *rand.Rand, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}
	return seeds
}

// Process enriches a single vendor. index is its position in the collection
// and seed fixes every random draw made for it.
func (e *Engine) Process(index int, rec model.VendorRecord, seed uint64) (model.VendorRecord, Report, error) {
	match := e.Explain(rec)
	rep := Report{
		Index:    index,
		VendorID: rec.ID,
		Category: match.Category,
		Keyword:  match.Keyword,
	}

	sel := selector.New(e.taxonomy, NewRand(seed))
	content := synth.Content{Parts: e.opts.Parts}

	if content.Parts.Has(synth.PartItems) {
		items, s, err := sel.Items(match.Category, e.opts.ItemsMin, e.opts.ItemsMax)
		if err != nil {
			return rec, rep, fmt.Errorf("engine: vendor %q: %w", rec.ID, err)
		}
		content.Items = items
		rep.noteFallback(s)
	}
	if content.Parts.Has(synth.PartFacts) {
		facts, s, err := sel.Facts(match.Category, e.opts.FactsMin, e.opts.FactsMax)
		if err != nil {
			return rec, rep, fmt.Errorf("engine: vendor %q: %w", rec.ID, err)
		}
		content.Facts = facts
		rep.noteFallback(s)
	}
	if content.Parts.Has(synth.PartFarewell) {
		line, s, err := sel.Farewell(match.Category)
		if err != nil {
			return rec, rep, fmt.Errorf("engine: vendor %q: %w", rec.ID, err)
		}
		content.Farewell = line
		rep.noteFallback(s)
	}

	out, res := synth.Synthesize(index, rec, match.Category, content)
	rep.CoordinatesAssigned = res.CoordinatesAssigned
	if content.Farewell != "" && !res.FarewellApplied {
		rep.FarewellMissing = true
		slog.Warn("no farewell slot", "vendor", rec.ID, "category", match.Category)
	}
	return out, rep, nil
}

// ProcessBatch enriches recs in order, drawing one seed per vendor from master.
func (e *Engine) ProcessBatch(recs []model.VendorRecord, master *rand.Rand) ([]model.VendorRecord, []Report, error) {
	seeds := Seeds(master, len(recs))
	out := make([]model.VendorRecord, 0, len(recs))
	reports := make([]Report, 0, len(recs))
	for i, rec := range recs {
		r, rep, err := e.Process(i, rec, seeds[i])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, r)
		reports = append(reports, rep)
	}
	return out, reports, nil
}

func (r *Report) noteFallback(s selector.Selection) {
	if s.Fallback {
		r.Fallbacks = append(r.Fallbacks, s.Kind)
	}
}
