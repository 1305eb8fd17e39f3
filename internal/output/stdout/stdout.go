package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/exhibit/internal/model"
	"github.com/crimson-sun/exhibit/internal/output"
)

// Output writes JSON-encoded classifications, one per line, to stdout.
type Output struct {
	enc     *json.Encoder
	explain bool
}

// New creates a stdout Output. A nil w writes to os.Stdout. explain keeps
// the matched keyword; pretty indents each object.
func New(w io.Writer, explain, pretty bool) *Output {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, explain: explain}
}

func (o *Output) Write(_ context.Context, c model.Classification) error {
	if err := o.enc.Encode(output.FormatClassification(c, o.explain)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
