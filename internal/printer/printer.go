// Package printer renders human-facing CLI output with color.
// Machine-readable output goes through internal/output instead.
package printer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
	"github.com/crimson-sun/exhibit/internal/model"
	"github.com/crimson-sun/exhibit/internal/pipeline"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// Printer writes to an output and an error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a Printer. Nil writers default to stdout and stderr.
func New(out, err io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	return &Printer{out: out, err: err}
}

// Success prints a success message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(p.out, msg)
}

// Info prints an informational message in the default color.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Warning prints a warning in yellow to the error stream.
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠") {
		msg = "⚠ " + msg
	}
	yellow.Fprint(p.err, msg)
}

// Error prints a titled error with an explanation and suggestions to the
// error stream and returns a plain error carrying the title.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	red.Fprintf(p.err, "%s\n\n", title)
	fmt.Fprintf(p.err, "%s\n", explanation)

	if len(suggestions) > 0 {
		fmt.Fprintln(p.err)
		if len(suggestions) == 1 {
			fmt.Fprintf(p.err, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(p.err, "Either:\n")
			for i, s := range suggestions {
				fmt.Fprintf(p.err, "  %d. %s\n", i+1, s)
			}
		}
	}
	return fmt.Errorf("%s", title)
}

// Summary prints the outcome of an enrichment run.
func (p *Printer) Summary(sum pipeline.Summary) {
	p.Success("Enriched %d vendors → %s\n", sum.Vendors, sum.Destination)
	fmt.Fprintf(p.out, "  run %s  seed %d  %s\n", faint.Sprint(sum.RunID), sum.Seed, sum.Duration.Round(1e6))

	cats := make([]model.Category, 0, len(sum.Categories))
	for c := range sum.Categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if sum.Categories[cats[i]] != sum.Categories[cats[j]] {
			return sum.Categories[cats[i]] > sum.Categories[cats[j]]
		}
		return cats[i] < cats[j]
	})
	for _, c := range cats {
		fmt.Fprintf(p.out, "  %-12s %s\n", cyan.Sprint(c), fmt.Sprint(sum.Categories[c]))
	}

	if sum.Coordinates > 0 {
		fmt.Fprintf(p.out, "  placed %d vendors on the booth grid\n", sum.Coordinates)
	}
	for _, kind := range model.PoolKinds {
		if n := sum.Fallbacks[kind]; n > 0 {
			fmt.Fprintf(p.out, "  %d %s draws fell back to general\n", n, kind)
		}
	}
	if n := len(sum.MissingFarewells); n > 0 {
		p.Warning("%d vendors have no farewell slot: %s\n", n, strings.Join(sum.MissingFarewells, ", "))
	}
}

// Classification prints one vendor's category as a text row.
func (p *Printer) Classification(c model.Classification, explain bool) {
	line := fmt.Sprintf("%-8s %-32s %s", c.VendorID, truncate(c.Name, 32), cyan.Sprint(c.Category))
	if explain {
		if c.Keyword != "" {
			line += faint.Sprintf("  (matched %q)", c.Keyword)
		} else {
			line += faint.Sprint("  (no keyword, fallback)")
		}
	}
	fmt.Fprintln(p.out, line)
}

// Taxonomy prints the categories in precedence order with pool sizes.
func (p *Printer) Taxonomy(tax *taxonomy.Taxonomy, showKeywords bool) {
	fmt.Fprintf(p.out, "%-3s %-12s %5s %5s %5s %8s\n", "#", "CATEGORY", "KW", "FACTS", "ITEMS", "FAREWELL")
	for i, e := range tax.Entries() {
		fmt.Fprintf(p.out, "%-3d %-12s %5d %5s %5s %8s\n",
			i+1, e.Category, len(e.Keywords),
			pool(e, model.PoolFact), pool(e, model.PoolItem), pool(e, model.PoolFarewell))
		if showKeywords && len(e.Keywords) > 0 {
			fmt.Fprintf(p.out, "    %s\n", faint.Sprint(strings.Join(e.Keywords, ", ")))
		}
	}
}

// pool renders a pool size, or "-" when the category borrows general's.
func pool(e model.TaxonomyEntry, kind model.PoolKind) string {
	n, declared := e.PoolSize(kind)
	if !declared {
		return "-"
	}
	return fmt.Sprint(n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
