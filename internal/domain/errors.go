package domain

import (
	"errors"
	"strings"
)

// ErrorKind classifies pipeline failures so callers can prompt for a
// correction instead of aborting.
type ErrorKind string

const (
	KindMissingRequiredField ErrorKind = "MissingRequiredField"
	KindInvalidSelection     ErrorKind = "InvalidSelection"
	KindAmbiguousSelection   ErrorKind = "AmbiguousSelection"
	KindMalformedInput       ErrorKind = "MalformedInput"
	KindValidationFailed     ErrorKind = "ValidationFailed"
	KindBackendCallFailed    ErrorKind = "BackendCallFailed"
	KindNotFound             ErrorKind = "NotFound"
)

// Error is the typed failure returned by every pipeline stage.
type Error struct {
	Kind          ErrorKind
	Message       string
	Field         string
	MissingFields []string
	Candidates    []string
	Violations    []string
	Hint          string
	Err           error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// MissingField reports a single absent required field.
func MissingField(field, message string) *Error {
	return &Error{Kind: KindMissingRequiredField, Message: message, Field: field, MissingFields: []string{field}}
}

// MissingFields reports every absent required field at once.
func MissingFields(message string, fields []string) *Error {
	return &Error{Kind: KindMissingRequiredField, Message: message, MissingFields: fields}
}

// Malformed reports input that could not be decoded.
func Malformed(message string, cause error) *Error {
	return &Error{Kind: KindMalformedInput, Message: message, Err: cause}
}

// BackendFailed reports a failed call to the logistics backend.
func BackendFailed(message string, cause error) *Error {
	return &Error{Kind: KindBackendCallFailed, Message: message, Err: cause}
}

// NotFound reports a missing lookup target such as an unknown waybill.
func NotFound(message, hint string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Hint: hint}
}
