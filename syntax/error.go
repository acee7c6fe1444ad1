package syntax

import (
	"fmt"
	"strconv"
)

// ErrorCode describes why a pattern failed to parse. It implements error so
// callers can test for a kind with errors.Is.
type ErrorCode string

// Pattern errors. The first error found, left to right, is reported.
const (
	ErrUnknownClass        ErrorCode = "unknown ':' class"
	ErrUnterminatedBracket ErrorCode = "unterminated bracket set"
	ErrEmptyBracket        ErrorCode = "empty bracket set"
	ErrDanglingQuantifier  ErrorCode = "quantifier without preceding atom"
	ErrDoubleQuantifier    ErrorCode = "quantifier follows quantifier"
	ErrTrailingEscape      ErrorCode = "trailing backslash"
	ErrPatternTooComplex   ErrorCode = "pattern too complex"
)

// Error implements the error interface.
func (e ErrorCode) Error() string {
	return string(e)
}

// Message returns the historical DECUS grep wording for the code, used by
// the command line tool in its "-GREP-E-" diagnostics.
func (e ErrorCode) Message() string {
	switch e {
	case ErrUnknownClass:
		return "Unknown : type"
	case ErrUnterminatedBracket:
		return "Unterminated class"
	case ErrEmptyBracket:
		return "Empty class"
	case ErrDanglingQuantifier, ErrDoubleQuantifier:
		return "Illegal occurrance op."
	case ErrTrailingEscape:
		return "Trailing backslash"
	case ErrPatternTooComplex:
		return "Pattern too complex"
	}
	return string(e)
}

// Error describes a failure to parse a pattern.
type Error struct {
	Code ErrorCode
	// Expr is the whole pattern text.
	Expr string
	// Offset is the number of pattern bytes consumed when the error was
	// found, so Expr[Offset-1] is the offending byte when Offset > 0.
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("error parsing pattern: %s at byte %d: %s",
		e.Code, e.Offset, strconv.Quote(e.Expr))
}

// Unwrap returns the error code.
func (e *Error) Unwrap() error {
	return e.Code
}

// Near returns the pattern byte the parser stopped at, or 0 if it stopped
// before reading anything.
func (e *Error) Near() byte {
	if e.Offset <= 0 || e.Offset > len(e.Expr) {
		return 0
	}
	return e.Expr[e.Offset-1]
}
