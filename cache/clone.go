package cache

// clonePayload returns a deep copy of the JSON-shaped containers in v.
// Scalars are immutable and returned as is. Callers get their own copy so
// mutating a returned payload never changes what later hits observe.
func clonePayload(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = clonePayload(e)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = clonePayload(e)
		}
		return out
	default:
		return v
	}
}
