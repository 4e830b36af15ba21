package util

import (
	"errors"
	"strings"
)

// -----------------------------------------------------------------------------

type extendedError struct {
	kind    error
	message string
	err     error
}

// -----------------------------------------------------------------------------

// NewExtendedError creates a new error of the given kind that wraps an error and includes the given
// message. Both kind and err are reachable through errors.Is and errors.As. Either may be nil.
func NewExtendedError(kind error, err error, message string) error {
	return &extendedError{
		kind:    kind,
		message: message,
		err:     err,
	}
}

// Error returns a string representation of the error.
func (w *extendedError) Error() string {
	sb := strings.Builder{}
	if w.kind != nil {
		_, _ = sb.WriteString(w.kind.Error())
		if len(w.message) > 0 {
			_, _ = sb.WriteString(": ")
		}
	}
	_, _ = sb.WriteString(w.message)
	for err := w.err; err != nil; {
		var childW *extendedError

		_, _ = sb.WriteString(" [err=")
		if errors.As(err, &childW) {
			_, _ = sb.WriteString(childW.Error())
			err = nil
		} else {
			_, _ = sb.WriteString(err.Error())
			err = errors.Unwrap(err)
		}
		_, _ = sb.WriteString("]")
	}
	return sb.String()
}

// Unwrap returns the error kind and the underlying error.
func (w *extendedError) Unwrap() []error {
	list := make([]error, 0, 2)
	if w.kind != nil {
		list = append(list, w.kind)
	}
	if w.err != nil {
		list = append(list, w.err)
	}
	return list
}
