package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/exhibit/internal/model"
	"github.com/crimson-sun/exhibit/internal/output"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithAppend keeps existing content instead of truncating the file.
func WithAppend() Option {
	return func(o *Output) { o.append = true }
}

// Output writes classifications as NDJSON to a file with buffered I/O.
type Output struct {
	w       *bufio.Writer
	f       *os.File
	mu      sync.Mutex
	path    string
	explain bool
	append  bool
	bufSize int
}

// New creates a file output that writes NDJSON to the given path.
func New(path string, explain bool, opts ...Option) (*Output, error) {
	o := &Output{
		path:    path,
		explain: explain,
		bufSize: defaultBufSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.openFile(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write JSON-encodes the classification and appends it as a line.
func (o *Output) Write(_ context.Context, c model.Classification) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(output.FormatClassification(c, o.explain)); err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	if _, err := o.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}

func (o *Output) openFile() error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if o.append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(o.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)
	return nil
}
