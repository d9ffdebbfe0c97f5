package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every failure raised by the lexer, parser, evaluator or a builtin is one of
// these, usually decorated with [Error.With] and [Error.Wrap]. Match with
// [errors.Is].
var (
	ErrUndefinedBinding          = NewError("undefined binding")
	ErrAlreadyDefined            = NewError("binding already defined")
	ErrFunctionNotFound          = NewError("function not found")
	ErrUnbalancedBrackets        = NewError("unbalanced brackets")
	ErrUnknownToken              = NewError("unknown token")
	ErrParser                    = NewError("parse error")
	ErrOperatorComplaint         = NewError("operator complaint")
	ErrInvalidObjectKey          = NewError("invalid object key")
	ErrInvalidObjectReference    = NewError("invalid object reference")
	ErrInvalidFunctionDefinition = NewError("invalid function definition")
	ErrInvalidFunctionCall       = NewError("invalid function call")
	ErrAssertionFailed           = NewError("assertion failed")
	ErrIterationLimit            = NewError("iteration limit exceeded")
	ErrPanic                     = NewError("panic")
	ErrConversion                = NewError("conversion failed")
	ErrReadInput                 = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	base  *Error      // Sentinel this error derives from
	msg   string      // Base message
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	for _, a := range e.attrs {
		switch a.Key {
		case detailKey, nameKey:
			part = append(part, a.Value.String())
		}
	}

	msg := strings.Join(part, ": ")

	for _, a := range e.attrs {
		if a.Key == positionKey {
			msg += " (at " + a.Value.String() + ")"
		}
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.base != nil && e.base == t.base
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		base:  e.base,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		base:  e.base,
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Detail attaches a human-readable explanation that is appended to the
// error message as well as recorded as an attribute.
func (e *Error) Detail(reason string) *Error {
	return e.With(slog.String(detailKey, reason))
}

// Attribute keys that also appear in the error message.
const (
	detailKey   = "detail"
	nameKey     = "name"
	positionKey = "position"
)
