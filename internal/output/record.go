// Package output defines the capture record emitted on the Selfie channel
// and the sinks that consume it.
package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Channel is the name of the output channel capture records are sent on.
const Channel = "Selfie"

// Record is one captured image. It is immutable once emitted.
type Record struct {
	DisplayName string
	ImagePath   string
}

// Variable describes one column of the output table.
type Variable struct {
	Name       string
	Type       string
	Meta       bool
	Attributes map[string]string
}

// Schema is the column layout of every record on Channel: two string metas,
// the second tagged as an image reference.
var Schema = []Variable{
	{Name: "name", Type: "string", Meta: true},
	{Name: "image", Type: "string", Meta: true, Attributes: map[string]string{"type": "image"}},
}

// Row returns the record's values in Schema order.
func (r Record) Row() []string {
	return []string{r.DisplayName, r.ImagePath}
}

// Sink receives records.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec Record) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// =============================================================================
// Composite sinks
// =============================================================================

// Multi sends each record to every sink and joins their errors.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, rec Record) error {
		var errs []error
		for _, s := range sinks {
			if err := s.Emit(ctx, rec); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Log returns a sink that logs each record at info level.
func Log(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return SinkFunc(func(ctx context.Context, rec Record) error {
		logger.InfoContext(ctx, "record emitted",
			"channel", Channel, "name", rec.DisplayName, "image", rec.ImagePath)
		return nil
	})
}

// Recorder keeps every emitted record in memory.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// Emit appends rec.
func (r *Recorder) Emit(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of everything emitted so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Last returns the most recent record.
func (r *Recorder) Last() (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return Record{}, fmt.Errorf("output: no records")
	}
	return r.records[len(r.records)-1], nil
}
