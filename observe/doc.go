// Package observe provides observability primitives for remote operations.
//
// Every remote call can be wrapped by Middleware, which emits one trace
// record per call: an OpenTelemetry span, call counters and a duration
// histogram, a structured log line, and a Record delivered to any
// configured sinks. Telemetry never alters or fails the wrapped call.
package observe
