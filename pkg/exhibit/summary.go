package exhibit

import (
	"time"

	"github.com/crimson-sun/exhibit/internal/pipeline"
)

// Classification is the category a vendor receives and the keyword that
// decided it. Keyword is empty for the general fallback.
type Classification struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword,omitempty"`
}

// Summary reports the outcome of an enrichment run.
// This is the stable public type; the internal run report may evolve
// independently.
type Summary struct {
	RunID               string         `json:"run_id"`
	Seed                uint64         `json:"seed"`
	Vendors             int            `json:"vendors"`
	Categories          map[string]int `json:"categories"`
	Fallbacks           map[string]int `json:"fallbacks,omitempty"` // draws served from the general pool, by pool kind
	MissingFarewells    []string       `json:"missing_farewells,omitempty"`
	CoordinatesAssigned int            `json:"coordinates_assigned"`
	Duration            time.Duration  `json:"duration_ns"`
}

func summaryFromPipeline(s pipeline.Summary) Summary {
	out := Summary{
		RunID:               s.RunID,
		Seed:                s.Seed,
		Vendors:             s.Vendors,
		Categories:          make(map[string]int, len(s.Categories)),
		MissingFarewells:    append([]string(nil), s.MissingFarewells...),
		CoordinatesAssigned: s.Coordinates,
		Duration:            s.Duration,
	}
	for c, n := range s.Categories {
		out.Categories[string(c)] = n
	}
	if len(s.Fallbacks) > 0 {
		out.Fallbacks = make(map[string]int, len(s.Fallbacks))
		for k, n := range s.Fallbacks {
			out.Fallbacks[string(k)] = n
		}
	}
	return out
}
