// Package trace is the runtime counterpart of the trace(name, value)
// calls internal/instrument inserts (spec §6): a process-wide sink
// that the instrumented program's execution environment calls into
// once per traced assignment, serialized behind a single mutex so
// concurrent test runs never interleave partial lines.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Record is one captured trace call.
type Record struct {
	Name  string
	Value string
}

// Sink collects trace records for a single test execution and can
// flush them to a writer in the line format internal/aggregate reads
// back: "name=value", one record per line.
type Sink struct {
	mu      sync.Mutex
	records []Record
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Trace records one name/value observation. value is pre-formatted by
// the caller (the instrumented program's runtime shim stringifies
// whatever type it traced) so the sink never needs type information.
func (s *Sink) Trace(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{Name: name, Value: value})
}

// Records returns a snapshot of everything traced so far, in call
// order.
func (s *Sink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Flush writes every captured record to w as "name=value" lines and
// returns any write error. It does not clear the sink; call Reset
// separately once the caller has durably consumed the output.
func (s *Sink) Flush(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bw := bufio.NewWriter(w)
	for _, r := range s.records {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", r.Name, r.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Close flushes to w and then resets the sink, so the same *Sink can
// be reused across the next test's execution.
func (s *Sink) Close(w io.Writer) error {
	if err := s.Flush(w); err != nil {
		return err
	}
	s.Reset()
	return nil
}

// Reset discards every captured record, preparing the sink for the
// next test run (spec §6: one trace log per test, not one for the
// whole suite).
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// Global is the process-wide sink an instrumented program's generated
// runtime shim calls into, mirroring the spec's process-wide
// serialization requirement for a single running test process.
var Global = NewSink()
