package icongen

import (
	"fmt"
)

// ErrorKind classifies why a generation run stopped.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindSourceNotFound
	KindSourceInvalid
	KindEmptyImage
	KindEncodeFailure
	KindWriteFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindSourceNotFound:
		return "source not found"
	case KindSourceInvalid:
		return "source invalid"
	case KindEmptyImage:
		return "empty image"
	case KindEncodeFailure:
		return "encode failure"
	case KindWriteFailure:
		return "write failure"
	default:
		return "unknown"
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrSourceNotFound = &Error{Kind: KindSourceNotFound}
	ErrSourceInvalid  = &Error{Kind: KindSourceInvalid}
	ErrEmptyImage     = &Error{Kind: KindEmptyImage}
	ErrEncodeFailure  = &Error{Kind: KindEncodeFailure}
	ErrWriteFailure   = &Error{Kind: KindWriteFailure}
)

// Error is the error returned by Generate and Check.
type Error struct {
	Kind ErrorKind
	Path string // source or output path involved, if any
	Err  error
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
