// Package diagnostics defines the interpreter's diagnostic and error
// types: parse errors, unresolved global references, reduction-limit
// exhaustion, malformed BLC input, and I/O failures.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lambdacalc/lambda/pkg/expr"
)

// Diagnostic code constants.
const (
	EParse                = "E_PARSE"
	EUnresolvedIdentifier = "E_UNRESOLVED_IDENTIFIER"
	EReductionLimit       = "E_REDUCTION_LIMIT"
	EMalformedBLC         = "E_MALFORMED_BLC"
	EIO                   = "E_IO"
)

// Span identifies a source location range by line and column.
type Span struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Diagnostic is a single parse or resolution diagnostic.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *Span, hint string) Diagnostic {
	return Diagnostic{Code: code, Message: message, Span: span, Hint: hint}
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// ParseError reports a syntax error at a specific source location.
// The lexer returns one of these and stops at the first bad token; the
// parser itself records E_PARSE Diagnostics per statement and goes on.
// See UnresolvedIdentifierError for the reduction-time counterpart.
type ParseError struct {
	Message string
	Span    Span
}

func (e *ParseError) Error() string {
	return FormatDiagnostic(MakeDiag(EParse, e.Message, &e.Span, ""), true)
}

// UnresolvedIdentifierError reports a free identifier with no global
// binding, discovered at reduction time rather than at parse time: the
// resolver happily builds a dangling reference and only the reducer's
// attempt to expand it surfaces the error.
type UnresolvedIdentifierError struct {
	Name string
	Span Span
}

func (e *UnresolvedIdentifierError) Error() string {
	msg := fmt.Sprintf("unknown term: %s", e.Name)
	return FormatDiagnostic(MakeDiag(EUnresolvedIdentifier, msg, &e.Span, ""), true)
}

// ReductionLimitError reports that the reducer's step budget was
// exhausted before normal form was reached. Partial carries the
// expression as it stood at the point reduction was abandoned, so
// callers may still print a best-effort result.
type ReductionLimitError struct {
	Steps   int
	Partial *expr.Expr
}

func (e *ReductionLimitError) Error() string {
	return fmt.Sprintf("%s: exceeded step budget after %d steps", EReductionLimit, e.Steps)
}

// MalformedBLCError reports invalid BLC input: an unexpected prefix or
// premature end of the bit stream.
type MalformedBLCError struct {
	Reason string
}

func (e *MalformedBLCError) Error() string {
	return fmt.Sprintf("%s: %s", EMalformedBLC, e.Reason)
}

// IOError wraps an underlying file or stream I/O failure.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %s", EIO, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
