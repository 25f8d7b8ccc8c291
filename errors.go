package mxl

import (
	"errors"
	"fmt"
)

// ErrorCode classifies fatal conditions. The code of an error is also the
// exit status of the process terminated by it.
type ErrorCode int

// Error codes. 0 is reserved for normal termination.
const (
	NoError              ErrorCode = 0
	SyntaxError          ErrorCode = 10
	UndeclaredIdentifier ErrorCode = 11
	Redeclaration        ErrorCode = 12
	TypeMismatch         ErrorCode = 13
	DimensionMismatch    ErrorCode = 14
	MalformedLiteral     ErrorCode = 15
	ConstAssignment      ErrorCode = 16
	BadDimensions        ErrorCode = 17
	InternalError        ErrorCode = 18
)

var codeMessages = map[ErrorCode]string{
	NoError:              "no error",
	SyntaxError:          "syntax error",
	UndeclaredIdentifier: "undeclared identifier",
	Redeclaration:        "identifier already declared",
	TypeMismatch:         "type mismatch",
	DimensionMismatch:    "matrix dimensions do not match",
	MalformedLiteral:     "malformed literal",
	ConstAssignment:      "assignment to constant",
	BadDimensions:        "invalid matrix dimensions",
	InternalError:        "internal error",
}

// Message returns the fixed diagnostic message for an error code.
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("error %d", int(c))
}

func (c ErrorCode) String() string {
	return c.Message()
}

// ExitStatus returns the process exit status for an error code.
func (c ErrorCode) ExitStatus() int {
	return int(c)
}

// Error is the error type for all fatal conditions detected by the engine.
// Context is optional and names the construct which caused the error,
// e.g. an identifier or the shapes of operands.
type Error struct {
	Code    ErrorCode
	Context string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Code.Message()
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code, making the sentinels usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for use with errors.Is.
var (
	ErrSyntax            = &Error{Code: SyntaxError}
	ErrUndeclared        = &Error{Code: UndeclaredIdentifier}
	ErrRedeclaration     = &Error{Code: Redeclaration}
	ErrTypeMismatch      = &Error{Code: TypeMismatch}
	ErrDimensionMismatch = &Error{Code: DimensionMismatch}
	ErrMalformedLiteral  = &Error{Code: MalformedLiteral}
	ErrConstAssignment   = &Error{Code: ConstAssignment}
	ErrBadDimensions     = &Error{Code: BadDimensions}
	ErrInternal          = &Error{Code: InternalError}
)

// Errorf creates an error with a code and a formatted context.
func Errorf(code ErrorCode, format string, args ...interface{}) error {
	return &Error{Code: code, Context: fmt.Sprintf(format, args...)}
}

// WrapError wraps a cause with an error code.
func WrapError(code ErrorCode, err error, context string) error {
	return &Error{Code: code, Context: context, Err: err}
}

// CodeOf extracts the error code from err. nil yields NoError, errors not
// created by this package are classified as InternalError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}
