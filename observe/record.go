package observe

import (
	"sync"
	"time"

	"github.com/jonwraymond/dicomquery/result"
)

// Record is the trace record emitted for every remote call.
type Record struct {
	CallID    string
	Operation OperationMeta
	Params    map[string]any // redacted snapshot
	Outcome   result.Kind
	Message   string // failure message, empty on success
	Started   time.Time
	Duration  time.Duration
}

// RecordSink receives trace records.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Blocking: Record must return quickly; it runs on the caller's goroutine.
type RecordSink interface {
	Record(rec Record)
}

// RecordSinkFunc adapts a function to RecordSink.
type RecordSinkFunc func(rec Record)

// Record calls f(rec).
func (f RecordSinkFunc) Record(rec Record) { f(rec) }

// MemorySink keeps every record in memory. Useful for diagnostics and tests.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends rec.
func (s *MemorySink) Record(rec Record) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

// Records returns a copy of the collected records.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// Count returns the number of records for the named operation.
// An empty name counts every record.
func (s *MemorySink) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return len(s.records)
	}
	n := 0
	for _, r := range s.records {
		if r.Operation.Name == name {
			n++
		}
	}
	return n
}
