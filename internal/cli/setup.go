package cli

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/crimson-sun/exhibit/internal/config"
	"github.com/crimson-sun/exhibit/internal/engine"
	"github.com/crimson-sun/exhibit/internal/engine/classifier"
	"github.com/crimson-sun/exhibit/internal/engine/synth"
	"github.com/crimson-sun/exhibit/internal/engine/taxonomy"
)

// loadTaxonomy returns the override file's taxonomy, or the built-in one.
func loadTaxonomy(cfg config.Config) (*taxonomy.Taxonomy, error) {
	if cfg.Engine.TaxonomyPath == "" {
		return taxonomy.Default()
	}
	return taxonomy.Load(cfg.Engine.TaxonomyPath)
}

// buildEngine wires taxonomy, classifier, and draw bounds from cfg.
func buildEngine(cfg config.Config, parts synth.Part) (*engine.Engine, error) {
	tax, err := loadTaxonomy(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load taxonomy", err)
	}
	mode, err := classifier.ParseMatchMode(cfg.Engine.MatchMode)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "match mode", err)
	}
	return engine.New(tax, classifier.New(tax, mode), engine.Options{
		FactsMin:      cfg.Engine.FactsMin,
		FactsMax:      cfg.Engine.FactsMax,
		ItemsMin:      cfg.Engine.ItemsMin,
		ItemsMax:      cfg.Engine.ItemsMax,
		Parts:         parts,
		ClassifyItems: cfg.Engine.ClassifyItems,
	}), nil
}

// runError maps a load or run failure to an exit code: unreadable input is a
// command error, anything else a failure.
func runError(message string, err error) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return WrapExitError(ExitCommandError, message, err)
	}
	return WrapExitError(ExitFailure, message, err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
