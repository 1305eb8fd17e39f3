package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/exhibit/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is returned when a taxonomy violates its structural invariants.
var ErrInvalid = errors.New("invalid taxonomy")

// Taxonomy is an immutable, ordered table of categories. Order is
// classification precedence; the last entry is always general.
type Taxonomy struct {
	entries []model.TaxonomyEntry
	index   map[model.Category]int
}

type document struct {
	Version    string        `yaml:"version"`
	Categories []categoryDoc `yaml:"categories"`
}

type categoryDoc struct {
	Name      string               `yaml:"name"`
	Keywords  []string             `yaml:"keywords"`
	Facts     []string             `yaml:"facts"`
	Items     []model.ItemTemplate `yaml:"items"`
	Farewells []string             `yaml:"farewells"`
}

// Default returns the built-in taxonomy.
func Default() (*Taxonomy, error) {
	return Parse(defaultYAML)
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return t, nil
}

// Parse decodes a YAML taxonomy document. Unknown keys are rejected.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("taxonomy: decode: %w", err)
	}
	if doc.Version != "1" {
		return nil, fmt.Errorf("%w: unsupported version %q (expected: 1)", ErrInvalid, doc.Version)
	}

	entries := make([]model.TaxonomyEntry, len(doc.Categories))
	for i, c := range doc.Categories {
		entries[i] = model.TaxonomyEntry{
			Category:  model.Category(c.Name),
			Keywords:  c.Keywords,
			Facts:     c.Facts,
			Items:     c.Items,
			Farewells: c.Farewells,
		}
	}
	return New(entries)
}

// New validates the entries and builds a Taxonomy. Keywords are NFC-normalized
// and lower-cased, the same form the classifier matches against.
// The entries are copied; later changes to the argument have no effect.
func New(entries []model.TaxonomyEntry) (*Taxonomy, error) {
	if err := validate(entries); err != nil {
		return nil, err
	}

	t := &Taxonomy{
		entries: make([]model.TaxonomyEntry, len(entries)),
		index:   make(map[model.Category]int, len(entries)),
	}
	for i, e := range entries {
		kws := make([]string, len(e.Keywords))
		for j, kw := range e.Keywords {
			kws[j] = strings.ToLower(norm.NFC.String(strings.TrimSpace(kw)))
		}
		t.entries[i] = model.TaxonomyEntry{
			Category:  e.Category,
			Keywords:  kws,
			Facts:     slices.Clone(e.Facts),
			Items:     slices.Clone(e.Items),
			Farewells: slices.Clone(e.Farewells),
		}
		t.index[e.Category] = i
	}
	return t, nil
}

func validate(entries []model.TaxonomyEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalid)
	}

	var errs []error
	seen := make(map[model.Category]bool, len(entries))
	for i, e := range entries {
		if e.Category == "" {
			errs = append(errs, fmt.Errorf("category %d has no name", i+1))
			continue
		}
		if seen[e.Category] {
			errs = append(errs, fmt.Errorf("duplicate category %q", e.Category))
		}
		seen[e.Category] = true

		for _, kind := range model.PoolKinds {
			if n, declared := e.PoolSize(kind); declared && n == 0 {
				errs = append(errs, fmt.Errorf("category %q declares an empty %s pool", e.Category, kind))
			}
		}
		for _, it := range e.Items {
			if it.Value < 0 {
				errs = append(errs, fmt.Errorf("category %q: item %q has negative value", e.Category, it.Name))
			}
		}
		for _, kw := range e.Keywords {
			if strings.TrimSpace(kw) == "" {
				errs = append(errs, fmt.Errorf("category %q has a blank keyword", e.Category))
			}
		}

		if e.Category == model.General {
			if i != len(entries)-1 {
				errs = append(errs, fmt.Errorf("category %q must be last", model.General))
			}
			if len(e.Keywords) > 0 {
				errs = append(errs, fmt.Errorf("category %q must not have keywords", model.General))
			}
			for _, kind := range model.PoolKinds {
				if n, _ := e.PoolSize(kind); n == 0 {
					errs = append(errs, fmt.Errorf("category %q needs a %s pool", model.General, kind))
				}
			}
		} else if len(e.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("category %q has no keywords and can never match", e.Category))
		}
	}
	if !seen[model.General] {
		errs = append(errs, fmt.Errorf("category %q is missing", model.General))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Entries returns a copy of all entries in precedence order.
func (t *Taxonomy) Entries() []model.TaxonomyEntry {
	out := make([]model.TaxonomyEntry, len(t.entries))
	for i := range t.entries {
		out[i] = cloneEntry(t.entries[i])
	}
	return out
}

// Entry returns a copy of the entry for a category.
func (t *Taxonomy) Entry(c model.Category) (model.TaxonomyEntry, bool) {
	i, ok := t.index[c]
	if !ok {
		return model.TaxonomyEntry{}, false
	}
	return cloneEntry(t.entries[i]), true
}

// Has reports whether the category is part of the taxonomy.
func (t *Taxonomy) Has(c model.Category) bool {
	_, ok := t.index[c]
	return ok
}

// Categories returns category names in precedence order.
func (t *Taxonomy) Categories() []model.Category {
	out := make([]model.Category, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Category
	}
	return out
}

// PoolSize returns the size of a category's pool of the given kind and
// whether the category declares that pool.
func (t *Taxonomy) PoolSize(c model.Category, kind model.PoolKind) (int, bool) {
	i, ok := t.index[c]
	if !ok {
		return 0, false
	}
	return t.entries[i].PoolSize(kind)
}

func cloneEntry(e model.TaxonomyEntry) model.TaxonomyEntry {
	return model.TaxonomyEntry{
		Category:  e.Category,
		Keywords:  slices.Clone(e.Keywords),
		Facts:     slices.Clone(e.Facts),
		Items:     slices.Clone(e.Items),
		Farewells: slices.Clone(e.Farewells),
	}
}
