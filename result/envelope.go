package result

import (
	"encoding/json"
	"errors"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// UnknownErrorMessage stands in for an error that carried no text.
const UnknownErrorMessage = "unknown error"

// ErrInvalidEnvelope is returned when decoding an envelope that is neither a
// success nor an error.
var ErrInvalidEnvelope = errors.New("result: envelope must carry status success or error")

// Envelope is the two-field contract handed to upstream callers.
//
// A success envelope always carries data (possibly null) and never a message;
// an error envelope always carries a message and never data.
type Envelope struct {
	Status  string
	Data    any
	Message string
}

// Envelope converts the result into its two-field form. Application and
// transport errors are indistinguishable in the envelope.
func (r Result) Envelope() Envelope {
	if r.OK() {
		return Envelope{Status: StatusSuccess, Data: r.Data}
	}
	return Envelope{Status: StatusError, Message: errorMessage(r.Message)}
}

func errorMessage(msg string) string {
	if msg == "" {
		return UnknownErrorMessage
	}
	return msg
}

// OK reports whether the envelope is a success.
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// Map returns the envelope as a plain map, the shape agent frameworks expect
// from a tool function. Any envelope that is not a success, including the
// zero value, maps to an error with a non-empty message.
func (e Envelope) Map() map[string]any {
	if e.OK() {
		return map[string]any{"status": StatusSuccess, "data": e.Data}
	}
	return map[string]any{"status": StatusError, "message": errorMessage(e.Message)}
}

// MarshalJSON emits exactly one of data or message. The message is never
// empty.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.OK() {
		return json.Marshal(struct {
			Status string `json:"status"`
			Data   any    `json:"data"`
		}{StatusSuccess, e.Data})
	}
	return json.Marshal(struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{StatusError, errorMessage(e.Message)})
}

// UnmarshalJSON decodes an envelope, rejecting unknown statuses.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status  string `json:"status"`
		Data    any    `json:"data"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Status {
	case StatusSuccess:
		*e = Envelope{Status: StatusSuccess, Data: raw.Data}
	case StatusError:
		*e = Envelope{Status: StatusError, Message: errorMessage(raw.Message)}
	default:
		return ErrInvalidEnvelope
	}
	return nil
}
