// Package contract defines the uniform result shape returned by every entry
// point: {"status", "data", "error"} with exactly one of data or error set.
package contract

import (
	"encoding/json"
	"errors"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// KindInternal marks failures that did not originate as a domain.Error.
const KindInternal domain.ErrorKind = "Internal"

// Envelope is the result of one entry-point call.
type Envelope struct {
	Status Status       `json:"status"`
	Data   any          `json:"data"`
	Error  *ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure. Extra carries context specific to the
// entry point (an excerpt of the input, the last order, the raw backend
// answer) and is flattened into the JSON object.
type ErrorDetail struct {
	Kind             domain.ErrorKind
	Message          string
	Field            string
	MissingFields    []string
	ValidationErrors []string
	Candidates       []string
	Reason           string
	Hint             string
	Extra            map[string]any
}

// Success wraps data in a success envelope.
func Success(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

// FromError converts err into an error envelope. extra may be nil.
func FromError(err error, extra map[string]any) Envelope {
	detail := &ErrorDetail{Kind: KindInternal, Message: err.Error(), Extra: extra}

	var de *domain.Error
	if errors.As(err, &de) {
		detail.Kind = de.Kind
		detail.Message = de.Message
		detail.Field = de.Field
		detail.MissingFields = de.MissingFields
		detail.ValidationErrors = de.Violations
		detail.Candidates = de.Candidates
		detail.Hint = de.Hint
		if de.Err != nil {
			detail.Reason = de.Err.Error()
		}
	}
	return Envelope{Status: StatusError, Error: detail}
}

// OK reports whether the envelope carries a success.
func (e Envelope) OK() bool { return e.Status == StatusSuccess }

// ErrorKind returns the error kind, or "" on success.
func (e Envelope) ErrorKind() domain.ErrorKind {
	if e.Error == nil {
		return ""
	}
	return e.Error.Kind
}

func (d ErrorDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+8)
	for k, v := range d.Extra {
		m[k] = v
	}
	m["kind"] = d.Kind
	m["message"] = d.Message
	putIf(m, "field", d.Field)
	putIf(m, "reason", d.Reason)
	putIf(m, "hint", d.Hint)
	if len(d.MissingFields) > 0 {
		m["missing_fields"] = d.MissingFields
	}
	if len(d.ValidationErrors) > 0 {
		m["validation_errors"] = d.ValidationErrors
	}
	if len(d.Candidates) > 0 {
		m["candidates"] = d.Candidates
	}
	return json.Marshal(m)
}

func putIf(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}
