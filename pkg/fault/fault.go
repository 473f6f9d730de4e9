// Package fault defines the two ways a conversion can fail: the input is not
// a valid STL model, or the underlying stream failed.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure
type Kind int

const (
	KindUnknown Kind = iota
	// KindFormat marks a header, record or grammar violation in the input
	KindFormat
	// KindIO marks an open, read, write or seek failure
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format error"
	case KindIO:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// Error carries the kind of a failure together with a descriptive message
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same kind
var (
	ErrFormat = &Error{Kind: KindFormat, Msg: "invalid STL data"}
	ErrIO     = &Error{Kind: KindIO, Msg: "stream failure"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Formatf returns a KindFormat error with a formatted message
func Formatf(format string, args ...any) error {
	return &Error{Kind: KindFormat, Msg: fmt.Sprintf(format, args...)}
}

// IO wraps a stream failure
func IO(err error, msg string) error {
	return &Error{Kind: KindIO, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
