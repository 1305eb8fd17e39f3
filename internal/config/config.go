package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all exhibit configuration.
type Config struct {
	Engine   EngineConfig
	Pipeline PipelineConfig
	Import   ImportConfig
	Log      LogConfig
}

// EngineConfig holds classification and content-draw settings.
type EngineConfig struct {
	TaxonomyPath  string // "" uses the built-in taxonomy
	MatchMode     string // "substring" or "word"
	FactsMin      int
	FactsMax      int
	ItemsMin      int
	ItemsMax      int
	ClassifyItems bool
}

// PipelineConfig holds batch run settings.
type PipelineConfig struct {
	Workers int
	Seed    uint64 // 0 picks a time-based seed
}

// ImportConfig holds tabular import settings.
type ImportConfig struct {
	Encoding string
	Event    string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Engine: EngineConfig{
			TaxonomyPath:  os.Getenv("EXHIBIT_TAXONOMY_PATH"),
			MatchMode:     getenv("EXHIBIT_MATCH_MODE", "substring"),
			FactsMin:      getenvInt("EXHIBIT_FACTS_MIN", 2),
			FactsMax:      getenvInt("EXHIBIT_FACTS_MAX", 3),
			ItemsMin:      getenvInt("EXHIBIT_ITEMS_MIN", 3),
			ItemsMax:      getenvInt("EXHIBIT_ITEMS_MAX", 5),
			ClassifyItems: getenvBool("EXHIBIT_CLASSIFY_ITEMS", false),
		},
		Pipeline: PipelineConfig{
			Workers: getenvInt("EXHIBIT_WORKERS", 1),
			Seed:    getenvUint("EXHIBIT_SEED", 0),
		},
		Import: ImportConfig{
			Encoding: getenv("EXHIBIT_IMPORT_ENCODING", "cp1252"),
			Event:    getenv("EXHIBIT_EVENT", "VCF Midwest"),
		},
		Log: LogConfig{
			Level:  getenv("EXHIBIT_LOG_LEVEL", "info"),
			Format: getenv("EXHIBIT_LOG_FORMAT", "text"),
		},
	}
}

// Validate checks for invalid configuration values.
// Returns all problems found, not just the first.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Engine.MatchMode) {
	case "substring", "word":
	default:
		errs = append(errs, fmt.Errorf("match mode %q must be substring or word", c.Engine.MatchMode))
	}
	if c.Engine.FactsMin < 0 || c.Engine.FactsMax < c.Engine.FactsMin {
		errs = append(errs, fmt.Errorf("facts bounds %d..%d are invalid", c.Engine.FactsMin, c.Engine.FactsMax))
	}
	if c.Engine.ItemsMin < 0 || c.Engine.ItemsMax < c.Engine.ItemsMin {
		errs = append(errs, fmt.Errorf("items bounds %d..%d are invalid", c.Engine.ItemsMin, c.Engine.ItemsMax))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Pipeline.Workers))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Log.Format))
	}
	if c.Engine.TaxonomyPath != "" {
		if _, err := os.Stat(c.Engine.TaxonomyPath); err != nil {
			errs = append(errs, fmt.Errorf("taxonomy file: %w", err))
		}
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
