// Package catalog reads and writes the vendor collection as a single JSON
// document. Writes go to a temporary file in the destination directory and
// are renamed into place, so readers never observe a partial document.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/crimson-sun/exhibit/internal/model"
)

const defaultBufSize = 64 * 1024 // 64KB

// ErrMalformed is returned when the document is not an array of vendor
// objects that each carry an id and a name.
var ErrMalformed = errors.New("malformed vendor document")

// Load reads the whole collection from path.
func Load(path string) ([]model.VendorRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog load: %w", err)
	}
	recs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("catalog load %s: %w", path, err)
	}
	return recs, nil
}

// Decode parses a JSON array of vendor records.
func Decode(data []byte) ([]model.VendorRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level is not an array", ErrMalformed)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	recs := make([]model.VendorRecord, len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &recs[i]); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrMalformed, i, err)
		}
	}
	return recs, nil
}

// Encode writes recs as an indented JSON array without HTML escaping.
func Encode(w io.Writer, recs []model.VendorRecord) error {
	if recs == nil {
		recs = []model.VendorRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(recs)
}

// Save replaces the document at path with recs. On failure the temporary
// file is removed and path is left as it was.
func Save(path string, recs []model.VendorRecord) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("catalog save: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	w := bufio.NewWriterSize(f, defaultBufSize)
	if err = Encode(w, recs); err != nil {
		return fmt.Errorf("catalog save: encode: %w", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("catalog save: flush: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("catalog save: sync: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("catalog save: close: %w", err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("catalog save: chmod: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("catalog save: rename: %w", err)
	}
	return nil
}
