package output

import "github.com/crimson-sun/exhibit/internal/model"

// FormatClassification returns a copy of c with fields stripped for the
// report. Without explain the matched keyword is dropped (omitted from JSON
// via omitempty).
func FormatClassification(c model.Classification, explain bool) model.Classification {
	if !explain {
		c.Keyword = ""
	}
	return c
}
