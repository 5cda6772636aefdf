package observe

// OperationKind distinguishes tool invocations from resource reads.
type OperationKind string

const (
	OperationTool     OperationKind = "tool"
	OperationResource OperationKind = "resource"
)

// OperationMeta describes a remote operation for telemetry purposes.
type OperationMeta struct {
	Name     string        // Tool name or resource URI (required)
	Kind     OperationKind // Defaults to OperationTool
	Endpoint string        // Remote endpoint address (optional)
	Level    string        // Query level for hierarchy lookups (optional)
}

// KindOrDefault returns the operation kind, defaulting to OperationTool.
func (m OperationMeta) KindOrDefault() OperationKind {
	if m.Kind == "" {
		return OperationTool
	}
	return m.Kind
}

// SpanName returns the deterministic span name for this operation.
// Format: remote.<kind>.<name>
func (m OperationMeta) SpanName() string {
	return "remote." + string(m.KindOrDefault()) + "." + m.Name
}

// Validate checks required fields.
func (m OperationMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingOperationName
	}
	return nil
}
