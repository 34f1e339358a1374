package apperr

// Package apperr defines the application's error taxonomy. Errors are created
// as close to their source as possible and carried unmodified up to the HTTP
// layer, which is the only place they are translated into responses.

import (
	"errors"
	"fmt"
)

// Category classifies a failure for response mapping and monitoring.
type Category string

const (
	// CategoryValidation covers bad or missing client input. No model call is made.
	CategoryValidation Category = "validation"
	// CategoryExtraction covers unreadable or textless PDFs. No model call is made.
	CategoryExtraction Category = "extraction"
	// CategoryModelUnavailable covers transport, timeout, auth and quota
	// failures talking to the model endpoint.
	CategoryModelUnavailable Category = "model_unavailable"
	// CategoryMalformedModelOutput covers responses from a reachable model
	// that could not be parsed into the result schema. Kept distinct from
	// CategoryModelUnavailable so model-quality regressions can be monitored
	// separately from outages.
	CategoryMalformedModelOutput Category = "malformed_model_output"
)

// Error is a categorized application error.
type Error struct {
	Category Category
	// Field names the offending input for validation errors ("question",
	// "policy_disclosure", ...). Empty otherwise.
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports invalid client input on the named field.
func Validation(field, reason string) *Error {
	return &Error{Category: CategoryValidation, Field: field, Reason: reason}
}

// Extraction reports a PDF that could not be read or contains no text.
func Extraction(reason string, cause error) *Error {
	return &Error{Category: CategoryExtraction, Reason: reason, Err: cause}
}

// ModelUnavailable reports a transport-level failure reaching the model.
func ModelUnavailable(reason string, cause error) *Error {
	return &Error{Category: CategoryModelUnavailable, Reason: reason, Err: cause}
}

// MalformedModelOutput reports a model response that could not be parsed.
func MalformedModelOutput(reason string) *Error {
	return &Error{Category: CategoryMalformedModelOutput, Reason: reason}
}

// CategoryOf extracts the category from err, if it carries one.
func CategoryOf(err error) (Category, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Category, true
	}
	return "", false
}

// Is reports whether err belongs to the given category.
func Is(err error, c Category) bool {
	got, ok := CategoryOf(err)
	return ok && got == c
}
