package classifier

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
	"github.com/crimson-sun/exhibit/internal/model"
)

// MatchMode controls how a keyword is located in vendor text.
type MatchMode int

const (
	// Substring matches a keyword anywhere, including inside other words
	// ("mac" matches "machine"). This is the historical behaviour.
	Substring MatchMode = iota
	// Word requires a non-alphanumeric character or the text edge on both
	// sides of the keyword.
	Word
)

func (m MatchMode) String() string {
	if m == Word {
		return "word"
	}
	return "substring"
}

// ParseMatchMode converts "substring" or "word" to a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return Substring, nil
	case "word":
		return Word, nil
	default:
		return Substring, fmt.Errorf("unknown match mode %q (want substring or word)", s)
	}
}

// Rule is one step of the ordered cascade. Lower priority is tested first.
type Rule struct {
	Priority int
	Category model.Category
	Keywords []string
}

// Match describes why a category was chosen. Keyword is empty when no rule
// matched and the result is the general fallback.
type Match struct {
	Category model.Category
	Keyword  string
	Priority int
}

// Classifier maps vendor text to exactly one category.
type Classifier struct {
	rules []Rule
	mode  MatchMode
}

// New builds the rule cascade from the taxonomy's precedence order.
// Categories without keywords (general) produce no rule.
func New(tax *taxonomy.Taxonomy, mode MatchMode) *Classifier {
	var rules []Rule
	for i, e := range tax.Entries() {
		if len(e.Keywords) == 0 {
			continue
		}
		rules = append(rules, Rule{Priority: i, Category: e.Category, Keywords: e.Keywords})
	}
	return &Classifier{rules: rules, mode: mode}
}

// Rules returns a copy of the cascade in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Priority: r.Priority, Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Mode returns the keyword match mode.
func (c *Classifier) Mode() MatchMode {
	return c.mode
}

// Classify returns the first category whose keywords occur in the combined
// text, or general. It never fails and is deterministic for a given input.
func (c *Classifier) Classify(name, description string, itemNames ...string) model.Category {
	return c.Explain(name, description, itemNames...).Category
}

// Explain is Classify with the winning rule and keyword attached.
func (c *Classifier) Explain(name, description string, itemNames ...string) Match {
	parts := append([]string{name, description}, itemNames...)
	text := Normalize(parts...)

	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if c.contains(text, kw) {
				return Match{Category: r.Category, Keyword: kw, Priority: r.Priority}
			}
		}
	}
	return Match{Category: model.General, Priority: len(c.rules)}
}

func (c *Classifier) contains(text, kw string) bool {
	if c.mode == Substring {
		return strings.Contains(text, kw)
	}
	return containsWord(text, kw)
}

// Normalize joins the parts with spaces, applies NFC, and lower-cases.
func Normalize(parts ...string) string {
	return strings.ToLower(norm.NFC.String(strings.Join(parts, " ")))
}

func containsWord(text, kw string) bool {
	if kw == "" {
		return false
	}
	for off := 0; off <= len(text)-len(kw); {
		i := strings.Index(text[off:], kw)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(kw)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		off = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
