package exhibit

import "github.com/crimson-sun/exhibit/internal/model"

// Category describes one taxonomy category in precedence order.
// A pool size of -1 means the category has no pool of that kind and
// draws from general's.
type Category struct {
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	Facts     int      `json:"facts"`
	Items     int      `json:"items"`
	Farewells int      `json:"farewells"`
}

// Taxonomy returns the categories in the order they are tested. This is
// read-only; consumers can inspect the taxonomy but not modify it.
func (x *Exhibit) Taxonomy() []Category {
	entries := x.taxonomy.Entries()
	categories := make([]Category, len(entries))
	for i, e := range entries {
		categories[i] = Category{
			Name:      string(e.Category),
			Keywords:  append([]string{}, e.Keywords...),
			Facts:     poolSize(e, model.PoolFact),
			Items:     poolSize(e, model.PoolItem),
			Farewells: poolSize(e, model.PoolFarewell),
		}
	}
	return categories
}

func poolSize(e model.TaxonomyEntry, kind model.PoolKind) int {
	n, declared := e.PoolSize(kind)
	if !declared {
		return -1
	}
	return n
}
