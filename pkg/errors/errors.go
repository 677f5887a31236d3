package errors

import (
	"fmt"
	"io"
	"strings"
)

// SigilError is the interface implemented by all sigil diagnostics.
type SigilError interface {
	error
	Kind() string // "Tokenization", "Syntax", "Semantic", "Runtime"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// Positioned is implemented by diagnostics raised before an AST exists
// (lexer and parser); they point at a source span.
type Positioned interface {
	SigilError
	Pos() Position
	Snippet() string
}

// --- Concrete Error Types ---

// TokenizationError is raised at the first character no token rule matches.
type TokenizationError struct {
	Position
	Char    string // the offending character
	Context string // bounded snippet with the character bracketed
	Msg     string
	Cause   error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("Tokenization Error at %d:%d: %s: %s", e.Line, e.Column, e.Msg, e.Context)
}
func (e *TokenizationError) Pos() Position   { return e.Position }
func (e *TokenizationError) Snippet() string { return e.Context }
func (e *TokenizationError) Kind() string    { return "Tokenization" }
func (e *TokenizationError) Message() string { return e.Msg }
func (e *TokenizationError) Unwrap() error   { return e.Cause }
func (e *TokenizationError) CausedBy(cause error) *TokenizationError {
	e.Cause = cause
	return e
}

// SyntaxError represents a grammar violation at a token.
type SyntaxError struct {
	Position
	Token   string // text of the unexpected token
	Context string
	Msg     string
	Cause   error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s: %s", e.Line, e.Column, e.Msg, e.Context)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Snippet() string { return e.Context }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// SemanticError represents a declaration or type rule violation. It carries
// no position: it is reported against an already parsed tree.
type SemanticError struct {
	Msg   string
	Cause error
}

func (e *SemanticError) Error() string   { return "Semantic Error: " + e.Msg }
func (e *SemanticError) Kind() string    { return "Semantic" }
func (e *SemanticError) Message() string { return e.Msg }
func (e *SemanticError) Unwrap() error   { return e.Cause }

// NewSemanticError formats a SemanticError.
func NewSemanticError(format string, args ...interface{}) *SemanticError {
	return &SemanticError{Msg: fmt.Sprintf(format, args...)}
}

// RuntimeError represents a fault during evaluation.
type RuntimeError struct {
	Msg   string
	Cause error
}

func (e *RuntimeError) Error() string   { return "Runtime Error: " + e.Msg }
func (e *RuntimeError) Kind() string    { return "Runtime" }
func (e *RuntimeError) Message() string { return e.Msg }
func (e *RuntimeError) Unwrap() error   { return e.Cause }
func (e *RuntimeError) CausedBy(cause error) *RuntimeError {
	e.Cause = cause
	return e
}

// NewRuntimeError formats a RuntimeError.
func NewRuntimeError(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// --- Error Reporting ---

// DisplayErrors writes a user-facing rendering of err to w. Positioned
// diagnostics get the bracketed snippet plus the source line with a caret;
// everything else is printed as its message.
func DisplayErrors(w io.Writer, err error) {
	if err == nil {
		return
	}
	se, ok := err.(SigilError)
	if !ok {
		fmt.Fprintf(w, "Error: %s\n", err)
		return
	}
	pe, ok := se.(Positioned)
	if !ok {
		fmt.Fprintf(w, "%s Error: %s\n", se.Kind(), se.Message())
		return
	}

	pos := pe.Pos()
	where := ""
	if pos.Source != nil {
		where = pos.Source.DisplayPath() + ":"
	}
	fmt.Fprintf(w, "%s Error at %s%d:%d: %s\n", pe.Kind(), where, pos.Line, pos.Column, pe.Message())
	if snip := pe.Snippet(); snip != "" {
		fmt.Fprintf(w, "  near: %s\n", snip)
	}
	if pos.Source == nil {
		return
	}
	line := strings.TrimRight(pos.Source.Line(pos.Line), "\r\n\t ")
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col))
}
