package model

// Category is a taxonomy tag driving which content pools a vendor draws from.
type Category string

// Categories known to the built-in taxonomy.
const (
	Commodore   Category = "commodore"
	Amiga       Category = "amiga"
	Atari       Category = "atari"
	Apple       Category = "apple"
	IBMPC       Category = "ibm_pc"
	Gaming      Category = "gaming"
	Calculator  Category = "calculator"
	Homebrew    Category = "homebrew"
	Japanese    Category = "japanese"
	Networking  Category = "networking"
	Portable    Category = "portable"
	Historical  Category = "historical"
	Robotics    Category = "robotics"
	Club        Category = "club"
	Electronics Category = "electronics"
	General     Category = "general" // universal fallback
)

// PoolKind names one of the content pools a category may carry.
type PoolKind string

const (
	PoolFact     PoolKind = "fact"
	PoolItem     PoolKind = "item"
	PoolFarewell PoolKind = "farewell"
)

// PoolKinds lists every pool kind in a stable order.
var PoolKinds = []PoolKind{PoolFact, PoolItem, PoolFarewell}

// ItemTemplate is an item fragment before it is bound to a vendor.
type ItemTemplate struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Value       int    `yaml:"value" json:"value"`
}

// TaxonomyEntry is one category with its classification keywords and
// content pools. A nil pool means the category has none of that kind.
type TaxonomyEntry struct {
	Category  Category       `json:"category"`
	Keywords  []string       `json:"keywords"`
	Facts     []string       `json:"facts,omitempty"`
	Items     []ItemTemplate `json:"items,omitempty"`
	Farewells []string       `json:"farewells,omitempty"`
}

// PoolSize returns the number of fragments in the entry's pool of the given
// kind, and whether the pool is declared at all.
func (e TaxonomyEntry) PoolSize(kind PoolKind) (int, bool) {
	switch kind {
	case PoolFact:
		return len(e.Facts), e.Facts != nil
	case PoolItem:
		return len(e.Items), e.Items != nil
	case PoolFarewell:
		return len(e.Farewells), e.Farewells != nil
	default:
		return 0, false
	}
}
