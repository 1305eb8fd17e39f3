// Package selector draws category-appropriate content fragments from the
// taxonomy pools.
//
// Draws are uniform in count and sampled without replacement, so a single
// selection never repeats a fragment. The random source is injected; callers
// that need reproducible output seed it themselves.
package selector

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
	"github.com/crimson-sun/exhibit/internal/model"
)

// ErrNoPool is returned when neither the category nor general has a pool of
// the requested kind. A validated taxonomy never produces it.
var ErrNoPool = errors.New("no pool")

// Selection records what was drawn and from where.
type Selection struct {
	Category model.Category // category asked for
	Source   model.Category // category whose pool was used
	Kind     model.PoolKind
	Indices  []int // positions in the source pool, in draw order
	Fallback bool  // true when Source is general because Category had no pool
}

// Selector draws fragments for one goroutine. It is not safe for concurrent
// use because the random source is not.
type Selector struct {
	tax *taxonomy.Taxonomy
	rng *rand.Rand
}

// New creates a Selector over tax drawing from rng.
func New(tax *taxonomy.Taxonomy, rng *rand.Rand) *Selector {
	return &Selector{tax: tax, rng: rng}
}

// Select draws between kMin and kMax distinct fragments (inclusive) from the
// category's pool of the given kind, clamped to the pool size. Farewell
// selections always draw exactly one.
func (s *Selector) Select(c model.Category, kind model.PoolKind, kMin, kMax int) (Selection, error) {
	if kind == model.PoolFarewell {
		kMin, kMax = 1, 1
	}

	src, fallback, err := s.resolve(c, kind)
	if err != nil {
		return Selection{}, err
	}
	size, _ := s.tax.PoolSize(src, kind)

	n := drawCount(s.rng, kMin, kMax, size)
	perm := s.rng.Perm(size)
	return Selection{
		Category: c,
		Source:   src,
		Kind:     kind,
		Indices:  perm[:n],
		Fallback: fallback,
	}, nil
}

// Facts draws trivia facts for a category.
func (s *Selector) Facts(c model.Category, kMin, kMax int) ([]string, Selection, error) {
	sel, err := s.Select(c, model.PoolFact, kMin, kMax)
	if err != nil {
		return nil, sel, err
	}
	e, _ := s.tax.Entry(sel.Source)
	return pick(e.Facts, sel.Indices), sel, nil
}

// Items draws inventory templates for a category.
func (s *Selector) Items(c model.Category, kMin, kMax int) ([]model.ItemTemplate, Selection, error) {
	sel, err := s.Select(c, model.PoolItem, kMin, kMax)
	if err != nil {
		return nil, sel, err
	}
	e, _ := s.tax.Entry(sel.Source)
	return pick(e.Items, sel.Indices), sel, nil
}

// Farewell draws a single farewell line for a category.
func (s *Selector) Farewell(c model.Category) (string, Selection, error) {
	sel, err := s.Select(c, model.PoolFarewell, 1, 1)
	if err != nil {
		return "", sel, err
	}
	e, _ := s.tax.Entry(sel.Source)
	lines := pick(e.Farewells, sel.Indices)
	if len(lines) == 0 {
		return "", sel, fmt.Errorf("selector: %s/%s: %w", sel.Source, model.PoolFarewell, ErrNoPool)
	}
	return lines[0], sel, nil
}

// resolve picks the pool to draw from. An unknown category is an invariant
// violation and is logged at warn; a known category without the pool kind
// is routine and logged at debug.
func (s *Selector) resolve(c model.Category, kind model.PoolKind) (model.Category, bool, error) {
	if n, declared := s.tax.PoolSize(c, kind); declared && n > 0 {
		return c, false, nil
	}

	if !s.tax.Has(c) {
		slog.Warn("pool fallback", "category", c, "kind", kind, "reason", "unknown category")
	} else {
		slog.Debug("pool fallback", "category", c, "kind", kind, "reason", "no pool")
	}

	if n, _ := s.tax.PoolSize(model.General, kind); n > 0 {
		return model.General, c != model.General, nil
	}
	return "", false, fmt.Errorf("selector: %s/%s: %w", c, kind, ErrNoPool)
}

func drawCount(rng *rand.Rand, kMin, kMax, size int) int {
	if kMin < 0 {
		kMin = 0
	}
	if kMax < kMin {
		kMax = kMin
	}
	kMin, kMax = min(kMin, size), min(kMax, size)
	return kMin + rng.IntN(kMax-kMin+1)
}

func pick[T any](pool []T, indices []int) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = pool[idx]
	}
	return out
}
