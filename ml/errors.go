package ml

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCategory       = errors.New("invalid category")
	ErrOutOfRange            = errors.New("value out of range")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)

// InputError reports a single rejected input field. It unwraps to
// ErrInvalidCategory or ErrOutOfRange.
type InputError struct {
	Field string
	Value string
	Kind  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Kind, e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// Code is the machine-readable error kind used by the API layer.
func (e *InputError) Code() string {
	if errors.Is(e.Kind, ErrInvalidCategory) {
		return "invalid_category"
	}
	return "out_of_range"
}

func invalidCategory(field, value string) error {
	return &InputError{Field: field, Value: value, Kind: ErrInvalidCategory}
}

func outOfRange(field string, value int) error {
	return &InputError{Field: field, Value: fmt.Sprint(value), Kind: ErrOutOfRange}
}

// UnavailableError wraps a failure to load or query the classifier.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrClassifierUnavailable, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrClassifierUnavailable, e.Reason, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrClassifierUnavailable}
	}
	return []error{ErrClassifierUnavailable, e.Err}
}

func unavailable(reason string, err error) error {
	return &UnavailableError{Reason: reason, Err: err}
}

// IsInputError reports whether err was caused by the passenger input rather than
// the classifier.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidCategory) || errors.Is(err, ErrOutOfRange)
}
