package result

import "fmt"

// Kind discriminates the outcome of a remote operation.
type Kind int

const (
	// KindSuccess indicates the remote operation completed and returned data.
	KindSuccess Kind = iota
	// KindApplicationError indicates the remote service executed the
	// operation but reported a failure.
	KindApplicationError
	// KindTransportError indicates the call could not be completed at all:
	// connection failure, session set-up failure or an unparseable response.
	KindTransportError
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindApplicationError:
		return "application_error"
	case KindTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a remote operation.
//
// Data is only meaningful for KindSuccess, Message only for the error kinds.
// The zero value is a successful result carrying nil data.
type Result struct {
	Kind    Kind
	Data    any
	Message string
}

// Success creates a successful result carrying data as returned by the remote
// service.
func Success(data any) Result {
	return Result{Kind: KindSuccess, Data: data}
}

// ApplicationError creates a result for a failure reported by the remote
// service.
func ApplicationError(message string) Result {
	return Result{Kind: KindApplicationError, Message: message}
}

// TransportError creates a result for a call that never produced a
// structured response.
func TransportError(message string) Result {
	return Result{Kind: KindTransportError, Message: message}
}

// Transport creates a transport error result from err.
func Transport(err error) Result {
	if err == nil {
		return TransportError("unknown transport failure")
	}
	return TransportError(err.Error())
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Kind: r.Kind, Message: r.Message}
}

// Error is the error form of a failed Result.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
