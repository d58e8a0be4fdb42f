// Package errors carries the coded errors returned by tallyprint.
//
// Every error that crosses a package boundary is an [*Error] with a [Code]
// the CLI can switch on. The classifier and the layout engine degrade to
// documented defaults on bad data and never report it; the one error they
// return is a broken call contract, such as a nil draw sink, which carries
// [ErrCodePrecondition].
//
// Codes are grouped by prefix: INVALID_* for rejected input, *NOT_FOUND for
// missing resources, PRECONDITION for misuse by the caller, and
// INTERNAL_ERROR or UNSUPPORTED for everything else.
//
//	err := errors.Wrap(errors.ErrCodeInvalidTemplate, cause, "load %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidTemplate) {
//	    // report the template path
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPayload  Code = "INVALID_PAYLOAD"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidCatalog  Code = "INVALID_CATALOG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidKey      Code = "INVALID_KEY"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodePrecondition Code = "PRECONDITION"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a [Code] with a readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap exposes the cause to the standard errors package.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an [*Error] from a code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Precondition reports a violated call contract.
func Precondition(format string, args ...any) *Error {
	return New(ErrCodePrecondition, format, args...)
}

// Is reports whether the first [*Error] in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first [*Error] in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code and cause from coded errors. Other errors are
// returned verbatim.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
