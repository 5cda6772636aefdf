package observe

import "strings"

const redactedValue = "[REDACTED]"

// RedactedFields lists parameter and field keys whose values never reach
// logs or records. Matching ignores case.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"authorization",
	"credential",
}

var redactedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		m[strings.ToLower(k)] = true
	}
	return m
}()

// isRedactedField returns true if the field should be redacted.
func isRedactedField(key string) bool {
	return redactedKeys[strings.ToLower(key)]
}

// Snapshot returns a copy of params with sensitive values replaced.
// Nested maps and slices are copied; params itself is never modified.
func Snapshot(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out, _ := redact(params).(map[string]any)
	return out
}

func redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if isRedactedField(k) {
				out[k] = redactedValue
				continue
			}
			out[k] = redact(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = redact(inner)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
