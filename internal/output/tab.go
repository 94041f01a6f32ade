package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// =============================================================================
// Orange .tab writer
// =============================================================================
// Three header rows (names, types, flags) followed by one row per record.
// Flags carry "meta" plus any key=value attributes, e.g. "meta type=image".
// =============================================================================

// TabSink appends records to a tab-separated table.
type TabSink struct {
	mu          sync.Mutex
	w           io.Writer
	closer      io.Closer
	wroteHeader bool
}

// NewTabSink writes to w. The header is written before the first record.
func NewTabSink(w io.Writer) *TabSink {
	return &TabSink{w: w}
}

// OpenTabSink appends to the file at path, creating it if needed. An empty
// path writes to stdout. The header is skipped when the file already has data.
func OpenTabSink(path string) (*TabSink, error) {
	if path == "" {
		return NewTabSink(os.Stdout), nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("output: create dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("output: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &TabSink{w: f, closer: f, wroteHeader: info.Size() > 0}, nil
}

// Emit writes rec as one row.
func (t *TabSink) Emit(_ context.Context, rec Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.wroteHeader {
		if _, err := io.WriteString(t.w, Header()); err != nil {
			return fmt.Errorf("output: write header: %w", err)
		}
		t.wroteHeader = true
	}
	if _, err := io.WriteString(t.w, formatRow(rec.Row())); err != nil {
		return fmt.Errorf("output: write record: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (t *TabSink) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// Header renders the three header rows for Schema.
func Header() string {
	names := make([]string, len(Schema))
	types := make([]string, len(Schema))
	flags := make([]string, len(Schema))
	for i, v := range Schema {
		names[i] = v.Name
		types[i] = v.Type
		flags[i] = flagsFor(v)
	}
	return formatRow(names) + formatRow(types) + formatRow(flags)
}

func flagsFor(v Variable) string {
	var parts []string
	if v.Meta {
		parts = append(parts, "meta")
	}
	keys := make([]string, 0, len(v.Attributes))
	for k := range v.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+v.Attributes[k])
	}
	return strings.Join(parts, " ")
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func formatRow(cells []string) string {
	clean := make([]string, len(cells))
	for i, c := range cells {
		clean[i] = cellReplacer.Replace(c)
	}
	return strings.Join(clean, "\t") + "\n"
}
