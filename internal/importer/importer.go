// Package importer builds an initial vendor collection from the exhibitor
// list exported as tab-separated text.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/exhibit/internal/engine/synth"
	"github.com/crimson-sun/exhibit/internal/model"
)

// Columns the export must provide.
var Columns = []string{"ID", "NAME", "LOC", "URL", "TITLE"}

// ErrHeader is returned when a required column is missing.
var ErrHeader = errors.New("missing column")

// Options controls decoding of the export.
type Options struct {
	// Encoding is "cp1252" (the exporter's default) or "utf-8".
	Encoding string
	// Event names the show in the placeholder facts.
	Event string
}

// DefaultOptions matches the exporter's output.
func DefaultOptions() Options {
	return Options{Encoding: "cp1252", Event: "VCF Midwest"}
}

// ReadFile imports the export at path.
func ReadFile(path string, opts Options) ([]model.VendorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	defer f.Close()
	recs, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return recs, nil
}

// Read decodes a tab-separated export into vendor records with placeholder
// content, coordinates, and an empty puzzle state.
func Read(r io.Reader, opts Options) ([]model.VendorRecord, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if opts.Event == "" {
		opts.Event = DefaultOptions().Event
	}

	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, c := range Columns {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrHeader, c)
		}
	}

	var recs []model.VendorRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(recs)+1, err)
		}
		field := func(name string) string {
			i := col[name]
			if i >= len(row) {
				return ""
			}
			return norm.NFC.String(strings.TrimSpace(row[i]))
		}
		recs = append(recs, newRecord(len(recs), field, opts.Event))
	}
	return recs, nil
}

func newRecord(index int, field func(string) string, event string) model.VendorRecord {
	id, name, loc, title := field("ID"), field("NAME"), field("LOC"), field("TITLE")
	url := field("URL")
	if url == "None" {
		url = ""
	}

	x, y := synth.Coordinates(index)
	return model.VendorRecord{
		ID:          id,
		Name:        name,
		Booth:       loc,
		URL:         url,
		Description: title,
		X:           &x,
		Y:           &y,
		Items: []model.Item{
			{ID: synth.ItemID(id, 1), Name: "Sample Item 1 from " + name, Description: "A sample item for demonstration", Value: 50},
			{ID: synth.ItemID(id, 2), Name: "Sample Item 2 from " + name, Description: "Another sample item", Value: 75},
			{ID: synth.ItemID(id, 3), Name: "Sample Item 3 from " + name, Description: "Third sample item", Value: 100},
		},
		Dialog: synth.DefaultDialog(name, title),
		Facts: []string{
			fmt.Sprintf("%s is a vendor at %s.", name, event),
			fmt.Sprintf("They are located at booth %s.", loc),
			fmt.Sprintf("Their focus is: %s.", title),
		},
		Extra: map[string]json.RawMessage{
			"puzzle_items":  json.RawMessage(`[]`),
			"puzzle_dialog": json.RawMessage(`{}`),
		},
	}
}

func decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", "cp1252", "windows1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "utf8":
		// Strip a leading byte order mark if the export has one.
		return unicode.BOMOverride(encoding.Nop.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (want cp1252 or utf-8)", name)
	}
}
