package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Filters maps a filter attribute (PatientID, PatientName, ...) to a scalar
// value. Iteration order never affects the derived key.
type Filters map[string]any

// Pair is one filter entry in canonical order.
type Pair struct {
	Key   string
	Value any
}

// Sorted returns the filter entries ordered by key.
func (f Filters) Sorted() []Pair {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: k, Value: f[k]}
	}
	return pairs
}

// Validate checks that every value is a stable scalar.
func (f Filters) Validate() error {
	for k, v := range f {
		if !isStableScalar(v) {
			return fmt.Errorf("%w: %s has type %T", ErrUnstableFilter, k, v)
		}
	}
	return nil
}

// Query identifies one lookup against the remote hierarchy.
type Query struct {
	// Endpoint is the remote service address. Only part of the key when the
	// policy keys by endpoint.
	Endpoint string

	// Level is the hierarchy position, flat ("studies") or nested
	// ("studies/{study}/series").
	Level string

	// Filters narrow the lookup. May be empty.
	Filters Filters
}

// Validate checks the level and filter values.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Level) == "" {
		return ErrInvalidLevel
	}
	return q.Filters.Validate()
}

// Keyer generates deterministic cache keys from queries.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for the query.
	Key(q Query) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: qido:<hash>
// where hash is the first 16 hex characters of SHA-256 over the canonical
// JSON of endpoint, level and sorted filters. The level only enters through
// the hash, so its length and content never affect key validity.
func (k *DefaultKeyer) Key(q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	canonical, err := canonicalize(q)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize query: %w", err)
	}

	hash := sha256.Sum256(canonical)
	key := "qido:" + hex.EncodeToString(hash[:8])
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// canonicalize produces {"endpoint":..,"filters":{sorted},"level":..}.
func canonicalize(q Query) ([]byte, error) {
	buf := []byte(`{"endpoint":`)
	endpoint, err := json.Marshal(q.Endpoint)
	if err != nil {
		return nil, err
	}
	buf = append(buf, endpoint...)

	buf = append(buf, `,"filters":{`...)
	for i, p := range q.Filters.Sorted() {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnstableFilter, p.Key, err)
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, `},"level":`...)

	level, err := json.Marshal(q.Level)
	if err != nil {
		return nil, err
	}
	buf = append(buf, level...)
	buf = append(buf, '}')
	return buf, nil
}

func isStableScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
