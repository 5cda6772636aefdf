package remote

import (
	"errors"
	"reflect"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dicomquery/result"
)

// wireErrorType is the SDK's concrete type for a JSON-RPC error response.
// The pinned SDK does not export it, so it is taken from an error the SDK
// builds itself.
var wireErrorType = reflect.TypeOf(mcp.ResourceNotFoundError(""))

// rpcErrorMessage returns the message of the JSON-RPC error response in
// err's chain. It reports false when the remote service never answered,
// e.g. on dial, connect, closed-connection or context failures.
func rpcErrorMessage(err error) (string, bool) {
	if err == nil || wireErrorType == nil {
		return "", false
	}
	target := reflect.New(wireErrorType)
	if !errors.As(err, target.Interface()) {
		return "", false
	}
	wireErr, ok := target.Elem().Interface().(error)
	if !ok || wireErr == nil {
		return "", false
	}
	if msg := wireErr.Error(); msg != "" {
		return msg, true
	}
	return unknownError, true
}

// classifyCallError maps a failed tools/call or resources/read. An error
// response from the service is an application error; anything else means
// no response was obtained.
func classifyCallError(err, wrapped error) result.Result {
	if msg, ok := rpcErrorMessage(err); ok {
		return result.ApplicationError(msg)
	}
	return result.Transport(wrapped)
}
