package diagnostics

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of resolution failure.
type ErrorCode string

const (
	ErrR000 ErrorCode = "R000" // internal error
	ErrR001 ErrorCode = "R001" // class not found
	ErrR002 ErrorCode = "R002" // member not found
	ErrR003 ErrorCode = "R003" // property not found
	ErrR004 ErrorCode = "R004" // wrong number of type arguments
	ErrR005 ErrorCode = "R005" // type argument out of bound
)

var codeTitles = map[ErrorCode]string{
	ErrR000: "internal error",
	ErrR001: "class not found",
	ErrR002: "member not found",
	ErrR003: "property not found",
	ErrR004: "type argument count mismatch",
	ErrR005: "type argument out of bound",
}

// Title is the short human-readable name of the code.
func (c ErrorCode) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return "unknown error"
}

// SourceInfo points at the markup location a resolution was requested for.
type SourceInfo struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// None is the location used when the caller has nothing better.
func None() SourceInfo {
	return SourceInfo{}
}

// At builds a single-point location.
func At(file string, line, column int) SourceInfo {
	return SourceInfo{File: file, Line: line, Column: column, EndLine: line, EndColumn: column}
}

func (s SourceInfo) IsZero() bool {
	return s == SourceInfo{}
}

func (s SourceInfo) String() string {
	switch {
	case s.IsZero():
		return "<unknown>"
	case s.Line == 0:
		return s.File
	case s.File == "":
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// DiagnosticError is the single error type surfaced by the resolver.
type DiagnosticError struct {
	Code    ErrorCode
	Source  SourceInfo
	Message string
	Err     error
}

func NewError(code ErrorCode, source SourceInfo, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Source: source, Message: message}
}

func (e *DiagnosticError) Error() string {
	if e.Source.IsZero() {
		return fmt.Sprintf("error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: error [%s]: %s", e.Source, e.Code, e.Message)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first DiagnosticError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

func ClassNotFound(source SourceInfo, name string) *DiagnosticError {
	return NewError(ErrR001, source, fmt.Sprintf("class not found: %s", name))
}

func MemberNotFound(source SourceInfo, owner, member string) *DiagnosticError {
	return NewError(ErrR002, source, fmt.Sprintf("member not found: %s.%s", owner, member))
}

func PropertyNotFound(source SourceInfo, owner, property string) *DiagnosticError {
	return NewError(ErrR003, source, fmt.Sprintf("property not found: %s.%s", owner, property))
}

func NumTypeArgumentsMismatch(source SourceInfo, target string, expected, actual int) *DiagnosticError {
	return NewError(ErrR004, source,
		fmt.Sprintf("wrong number of type arguments for %s: expected %d, got %d", target, expected, actual))
}

func TypeArgumentOutOfBound(source SourceInfo, argument, bound string) *DiagnosticError {
	return NewError(ErrR005, source,
		fmt.Sprintf("type argument %s is not within bound %s", argument, bound))
}

// Internal wraps an unexpected failure such as a malformed generic signature.
func Internal(source SourceInfo, err error) *DiagnosticError {
	return &DiagnosticError{Code: ErrR000, Source: source, Message: err.Error(), Err: err}
}
