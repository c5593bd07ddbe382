// Package lexer implements a single-pass tokenizer for refine source
// text, using a readChar/peekChar lookahead cursor.
package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/refine-lang/refine/internal/token"
)

// Error is a malformed-token, unterminated-literal, or overflow error
// located at a specific line/column.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexer error at %s: %s", e.Pos, e.Message)
}

// Lexer tokenizes one source string. It never backtracks: every token
// other than EOF consumes at least one rune.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line, column int
}

// New returns a Lexer positioned before the first rune of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken returns the next lexical token, or an *Error describing a
// malformed token / unterminated literal / block-comment nesting fault
// / integer overflow. Once an error is returned the caller must abort
// the pipeline stage — the lexer does not attempt recovery.
func (l *Lexer) NextToken() (token.Token, *Error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Pos: token.Position{Line: line, Column: col}}, nil

	case l.ch == '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tok(token.EQ, "==", line, col), nil
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return tok(token.IMPLY, "=>", line, col), nil
		}
		l.readChar()
		return tok(token.ASSIGN, "=", line, col), nil

	case l.ch == '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return tok(token.ARROW, "->", line, col), nil
		}
		l.readChar()
		return tok(token.MINUS, "-", line, col), nil

	case l.ch == '|':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return tok(token.PIPE, "|>", line, col), nil
		}
		return token.Token{}, l.illegalAt(line, col, "'|' without a following '>': did you mean '|>'?")

	case l.ch == '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return tok(token.AND, "&&", line, col), nil
		}
		return token.Token{}, l.illegalAt(line, col, "'&' without a following '&': did you mean '&&'?")

	case l.ch == '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tok(token.NOT_EQ, "!=", line, col), nil
		}
		l.readChar()
		return tok(token.NOT, "!", line, col), nil

	case l.ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tok(token.LTE, "<=", line, col), nil
		}
		l.readChar()
		return tok(token.LT, "<", line, col), nil

	case l.ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tok(token.GTE, ">=", line, col), nil
		}
		l.readChar()
		return tok(token.GT, ">", line, col), nil

	case l.ch == '+':
		l.readChar()
		return tok(token.PLUS, "+", line, col), nil
	case l.ch == '*':
		l.readChar()
		return tok(token.ASTERISK, "*", line, col), nil
	case l.ch == '/':
		l.readChar()
		return tok(token.SLASH, "/", line, col), nil
	case l.ch == '%':
		l.readChar()
		return tok(token.PERCENT, "%", line, col), nil
	case l.ch == '(':
		l.readChar()
		return tok(token.LPAREN, "(", line, col), nil
	case l.ch == ')':
		l.readChar()
		return tok(token.RPAREN, ")", line, col), nil
	case l.ch == '{':
		l.readChar()
		return tok(token.LBRACE, "{", line, col), nil
	case l.ch == '}':
		l.readChar()
		return tok(token.RBRACE, "}", line, col), nil
	case l.ch == ':':
		l.readChar()
		return tok(token.COLON, ":", line, col), nil
	case l.ch == ',':
		l.readChar()
		return tok(token.COMMA, ",", line, col), nil
	case l.ch == '.':
		l.readChar()
		return tok(token.DOT, ".", line, col), nil

	case l.ch == '"':
		return l.readString(line, col)

	case isDigit(l.ch):
		return l.readNumber(line, col)

	case isLetter(l.ch):
		ident := l.readIdentifier()
		t := token.LookupIdent(ident)
		lit := ""
		if t == token.IDENT {
			lit = ident
		}
		return token.Token{Type: t, Lexeme: ident, Literal: lit, Pos: token.Position{Line: line, Column: col}}, nil

	default:
		ch := l.ch
		l.readChar()
		return token.Token{}, l.illegalAt(line, col, fmt.Sprintf("unexpected character %q", ch))
	}
}

func (l *Lexer) illegalAt(line, col int, msg string) *Error {
	return &Error{Message: msg, Pos: token.Position{Line: line, Column: col}}
}

func tok(t token.Type, lexeme string, line, col int) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Pos: token.Position{Line: line, Column: col}}
}

// skipWhitespaceAndComments consumes whitespace, line comments (`//`
// to end of line) and nested block comments (`/* ... */`). Unbalanced
// block-comment nesting is a lexer error.
func (l *Lexer) skipWhitespaceAndComments() *Error {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			startLine, startCol := l.line, l.column
			l.readChar()
			l.readChar()
			depth := 1
			for depth > 0 {
				if l.ch == 0 {
					return l.illegalAt(startLine, startCol, "unterminated block comment")
				}
				if l.ch == '/' && l.peekChar() == '*' {
					depth++
					l.readChar()
					l.readChar()
					continue
				}
				if l.ch == '*' && l.peekChar() == '/' {
					depth--
					l.readChar()
					l.readChar()
					continue
				}
				l.readChar()
			}
			continue
		}
		break
	}
	return nil
}

func (l *Lexer) readString(line, col int) (token.Token, *Error) {
	l.readChar() // consume opening quote
	var out []byte
	for {
		if l.ch == 0 {
			return token.Token{}, l.illegalAt(line, col, "unterminated string literal")
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 0:
				return token.Token{}, l.illegalAt(line, col, "unterminated string literal")
			default:
				out = append(out, '\\', byte(l.ch))
			}
			l.readChar()
			continue
		}
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, l.ch)
		out = append(out, buf[:n]...)
		l.readChar()
	}
	// Normalize to NFC so two source files that spell the same string
	// with different Unicode decompositions (e.g. combining vs.
	// precomposed accents) produce byte-identical literals — payload
	// equality compares these strings directly.
	s := norm.NFC.String(string(out))
	return token.Token{Type: token.STRING, Lexeme: s, Literal: s, Pos: token.Position{Line: line, Column: col}}, nil
}

func (l *Lexer) readNumber(line, col int) (token.Token, *Error) {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	if _, err := strconv.ParseInt(lexeme, 10, 64); err != nil {
		return token.Token{}, l.illegalAt(line, col, fmt.Sprintf("integer literal %q overflows 64 bits", lexeme))
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: lexeme, Pos: token.Position{Line: line, Column: col}}, nil
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch rune) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
