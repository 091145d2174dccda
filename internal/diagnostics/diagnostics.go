package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/symres/internal/token"
)

// Code is the stable classification of a diagnostic. Callers and tests match
// on the code, never on the message text.
type Code string

const (
	ErrR001 Code = "R001" // unresolved symbol
	ErrR002 Code = "R002" // ambiguous resolution
	ErrR003 Code = "R003" // circular hierarchy
	ErrR004 Code = "R004" // access modifier incompatible with overridden method
	ErrR005 Code = "R005" // override not marked
	ErrR006 Code = "R006" // generic arity mismatch
	ErrR007 Code = "R007" // duplicate symbol
	ErrR008 Code = "R008" // incompatible return type on override

	ErrL001 Code = "L001" // declaration unit could not be loaded
	ErrL002 Code = "L002" // malformed type reference
)

var codeKinds = map[Code]string{
	ErrR001: "UnresolvedSymbol",
	ErrR002: "AmbiguousResolution",
	ErrR003: "CircularHierarchy",
	ErrR004: "AccessModifierIncompatible",
	ErrR005: "MissingOverrideMarker",
	ErrR006: "GenericArityMismatch",
	ErrR007: "DuplicateSymbol",
	ErrR008: "IncompatibleReturnType",
	ErrL001: "DeclarationLoad",
	ErrL002: "TypeReferenceSyntax",
}

// Kind names the taxonomy entry for the code.
func (c Code) Kind() string {
	if k, ok := codeKinds[c]; ok {
		return k
	}
	return "Unknown"
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticError is a located semantic finding. It is a value: producers
// return or collect it, the driver decides when to report.
type DiagnosticError struct {
	Code     Code
	Token    token.Token
	File     string
	Message  string
	Severity Severity
	// Related lists further locations that take part in the finding, such as
	// every candidate of an ambiguous call.
	Related []string
}

func NewError(code Code, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, File: tok.File, Message: msg}
}

func NewWarning(code Code, tok token.Token, msg string) *DiagnosticError {
	d := NewError(code, tok, msg)
	d.Severity = SeverityWarning
	return d
}

// Errorf is NewError with a formatted message.
func Errorf(code Code, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

// WithRelated attaches related locations and returns the receiver.
func (e *DiagnosticError) WithRelated(related ...string) *DiagnosticError {
	e.Related = append(e.Related, related...)
	return e
}

func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	fmt.Fprintf(&b, "%d:%d: %s [%s] %s", e.Token.Line, e.Token.Column, e.Severity, e.Code, e.Message)
	if len(e.Related) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Related, ", "))
		b.WriteString(")")
	}
	return b.String()
}
