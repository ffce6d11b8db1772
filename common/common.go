package common

import (
	"errors"
	"strings"
)

// DateFormat is the layout of dates in configs and data files
const DateFormat = "2006-01-02"

var (
	// ErrNilPointer defines an error for a nil pointer
	ErrNilPointer = errors.New("nil pointer")
	// ErrNilArguments is returned when nil arguments were passed in where they
	// are not allowed
	ErrNilArguments = errors.New("received nil argument(s)")
)

// multiError holds a collection of errors that can be unwrapped with
// errors.Is and errors.As
type multiError struct {
	errs []error
}

// AppendError appends an error to a list of errors, a nil incoming error is
// ignored and a nil original error is replaced by the incoming error
func AppendError(original, incoming error) error {
	if incoming == nil {
		return original
	}
	if original == nil {
		return incoming
	}
	var me *multiError
	if errors.As(original, &me) {
		me.errs = append(me.errs, incoming)
		return me
	}
	return &multiError{errs: []error{original, incoming}}
}

// Error returns the errors joined by a comma
func (e *multiError) Error() string {
	allErrors := make([]string, len(e.errs))
	for x := range e.errs {
		allErrors[x] = e.errs[x].Error()
	}
	return strings.Join(allErrors, ", ")
}

// Unwrap returns the underlying errors for errors.Is and errors.As
func (e *multiError) Unwrap() []error {
	return e.errs
}
