// Package errors defines the error kinds reported by flashverify.
// Every error is terminal for the current run; nothing here is retried.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can react to it without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindInsufficientSpace
	KindIOFailure
	KindCorruptHeader
	KindContentMismatch
	KindSizeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindInsufficientSpace:
		return "insufficient space"
	case KindIOFailure:
		return "i/o failure"
	case KindCorruptHeader:
		return "corrupt header"
	case KindContentMismatch:
		return "content mismatch"
	case KindSizeMismatch:
		return "size mismatch"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by the generator, validator and session.
type Error struct {
	Kind    Kind
	Op      string
	message string
	cause   error

	// Offset is the byte offset where the failure was observed, or -1.
	Offset int64
	// Expected and Actual carry sizes for space and size failures.
	Expected int64
	Actual   int64
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel values for errors.Is checks. Only Kind is compared.
var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput, message: "invalid input", Offset: -1}
	ErrInsufficientSpace = &Error{Kind: KindInsufficientSpace, message: "insufficient space", Offset: -1}
	ErrIOFailure         = &Error{Kind: KindIOFailure, message: "i/o failure", Offset: -1}
	ErrCorruptHeader     = &Error{Kind: KindCorruptHeader, message: "corrupt header", Offset: -1}
	ErrContentMismatch   = &Error{Kind: KindContentMismatch, message: "content mismatch", Offset: -1}
	ErrSizeMismatch      = &Error{Kind: KindSizeMismatch, message: "size mismatch", Offset: -1}
)

// NewInvalidInput reports an unusable path, size or argument.
func NewInvalidInput(message string, cause error) error {
	return &Error{Kind: KindInvalidInput, message: message, cause: cause, Offset: -1}
}

// NewInsufficientSpace reports a failed free-space preflight.
func NewInsufficientSpace(path string, available, required int64) error {
	return &Error{
		Kind:     KindInsufficientSpace,
		Op:       path,
		message:  fmt.Sprintf("not enough free space: %d bytes available, %d bytes required", available, required),
		Offset:   -1,
		Expected: required,
		Actual:   available,
	}
}

// NewIOFailure wraps a read/write/open/close error observed at offset.
// Pass a negative offset when no position applies.
func NewIOFailure(op string, offset int64, cause error) error {
	if cause == nil {
		return nil
	}
	msg := "i/o failure"
	if offset >= 0 {
		msg = fmt.Sprintf("i/o failure at offset %d", offset)
	}
	return &Error{Kind: KindIOFailure, Op: op, message: msg, cause: cause, Offset: offset}
}

// NewCorruptHeader reports a header that could not be read or decoded.
func NewCorruptHeader(message string, cause error) error {
	return &Error{Kind: KindCorruptHeader, message: message, cause: cause, Offset: 0}
}

// NewContentMismatch reports a chunk whose bytes differ from the regenerated stream.
// offset is the absolute file offset of the start of that chunk.
func NewContentMismatch(offset int64) error {
	return &Error{
		Kind:    KindContentMismatch,
		message: fmt.Sprintf("data mismatch in chunk starting at offset %d", offset),
		Offset:  offset,
	}
}

// NewSizeMismatch reports a file whose readable length differs from the declared size.
func NewSizeMismatch(declared, actual int64) error {
	return &Error{
		Kind:     KindSizeMismatch,
		message:  fmt.Sprintf("declared size %d bytes, read %d bytes", declared, actual),
		Offset:   actual,
		Expected: declared,
		Actual:   actual,
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// As is a convenience wrapper returning the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
