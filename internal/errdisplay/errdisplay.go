// Package errdisplay renders the four-kind error taxonomy (Lexer,
// Parser, Type, Validation) as user-facing text, with a
// source-context-with-caret presentation for errors that carry a
// position.
package errdisplay

import (
	"fmt"
	"strings"

	"github.com/refine-lang/refine/internal/interp"
	"github.com/refine-lang/refine/internal/lexer"
	"github.com/refine-lang/refine/internal/parser"
	"github.com/refine-lang/refine/internal/semantic"
	"github.com/refine-lang/refine/internal/token"
)

// Kind is one of the four error kinds; the set is exhaustive.
type Kind int

const (
	KindLexer Kind = iota
	KindParser
	KindType
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "lexer"
	case KindParser:
		return "parser"
	case KindType:
		return "type"
	default:
		return "validation"
	}
}

// Error is the displayable form of any of the four kinds. Lexer and
// Parser errors always carry a position; Type errors carry one where
// available; Validation errors never do, carrying an offending type
// name instead.
type Error struct {
	Kind      Kind
	Message   string
	ValueType string // Validation only
	HasPos    bool
	Pos       token.Position
	Source    string // optional, enables caret rendering
	File      string
}

func (e *Error) Error() string { return e.Format(false) }

// Format renders "<kind> error[ at L:C]: <message>", followed by a
// source line and caret indicator when Source is available.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s error", e.Kind)
	if e.HasPos {
		header += fmt.Sprintf(" at %s", e.Pos)
	}
	header += ": " + e.Message
	sb.WriteString(header)

	if e.HasPos && e.Source != "" {
		if line := sourceLine(e.Source, e.Pos.Line); line != "" {
			sb.WriteString("\n")
			prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
		}
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FromLexerError adapts a lexer.Error.
func FromLexerError(err *lexer.Error, source, file string) *Error {
	return &Error{Kind: KindLexer, Message: err.Message, HasPos: true, Pos: err.Pos, Source: source, File: file}
}

// FromParserError adapts a parser.Error. A parser.Error whose fault
// actually originated in tokenization (FromLexer) keeps the Lexer kind
// instead of collapsing into Parser, so a malformed token is reported
// the same way on every entry point, not just the dedicated lex
// subcommand.
func FromParserError(err *parser.Error, source, file string) *Error {
	kind := KindParser
	if err.FromLexer {
		kind = KindLexer
	}
	return &Error{Kind: kind, Message: err.Message, HasPos: true, Pos: err.Pos, Source: source, File: file}
}

// FromTypeErrors adapts the full batch of Type errors an Analyze pass
// accumulates.
func FromTypeErrors(errs []*semantic.Error, source, file string) []*Error {
	out := make([]*Error, len(errs))
	for i, e := range errs {
		out[i] = &Error{Kind: KindType, Message: e.Message, HasPos: true, Pos: e.Pos, Source: source, File: file}
	}
	return out
}

// FromValidationError adapts an interp.Error.
func FromValidationError(err *interp.Error) *Error {
	return &Error{Kind: KindValidation, Message: err.Message, ValueType: err.ValueType}
}

// FormatAll joins every error's Format(color) with a blank line
// between entries.
func FormatAll(errs []*Error, color bool) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Format(color)
	}
	return strings.Join(parts, "\n\n")
}
