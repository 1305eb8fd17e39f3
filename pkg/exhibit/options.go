package exhibit

import "github.com/crimson-sun/exhibit/internal/engine/synth"

type options struct {
	taxonomyPath  string
	matchMode     string
	seed          uint64
	workers       int
	parts         []string
	factsMin      int
	factsMax      int
	itemsMin      int
	itemsMax      int
	classifyItems bool
}

// Option configures an Exhibit instance.
type Option func(*options)

// WithTaxonomyPath loads categories, keywords, and content pools from a YAML
// file instead of the built-in taxonomy.
func WithTaxonomyPath(path string) Option {
	return func(o *options) {
		o.taxonomyPath = path
	}
}

// WithMatchMode sets keyword matching: "substring" (default) or "word".
func WithMatchMode(mode string) Option {
	return func(o *options) {
		o.matchMode = mode
	}
}

// WithSeed fixes the master random seed. 0 (default) picks one per run.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWorkers sets how many vendors are enriched concurrently. Default: 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithParts limits generation to the named parts: "items", "facts",
// "farewell". No parts means all of them.
func WithParts(parts ...string) Option {
	return func(o *options) {
		o.parts = parts
	}
}

// WithFactsRange sets how many facts each vendor receives. Default: 2..3.
func WithFactsRange(lo, hi int) Option {
	return func(o *options) {
		o.factsMin, o.factsMax = lo, hi
	}
}

// WithItemsRange sets how many items each vendor receives. Default: 3..5.
func WithItemsRange(lo, hi int) Option {
	return func(o *options) {
		o.itemsMin, o.itemsMax = lo, hi
	}
}

// WithItemClassification includes the vendor's current item names in the
// classification text.
func WithItemClassification(on bool) Option {
	return func(o *options) {
		o.classifyItems = on
	}
}

func defaultOptions() options {
	return options{
		matchMode: "substring",
		workers:   1,
		factsMin:  2,
		factsMax:  3,
		itemsMin:  3,
		itemsMax:  5,
	}
}

func (o options) parsedParts() (synth.Part, error) {
	return synth.ParseParts(o.parts)
}
