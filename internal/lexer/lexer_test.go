package lexer

import (
	"testing"

	"github.com/refine-lang/refine/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `value Age(n: Int) { validate: n >= 0 && n < 150, unique: true }
fn greet(name: String) -> String { name |> toUpperCase }`

	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.VALUE, "value"},
		{token.IDENT, "Age"},
		{token.LPAREN, "("},
		{token.IDENT, "n"},
		{token.COLON, ":"},
		{token.IDENT, "Int"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.VALIDATE, "validate"},
		{token.COLON, ":"},
		{token.IDENT, "n"},
		{token.GTE, ">="},
		{token.INT, "0"},
		{token.AND, "&&"},
		{token.IDENT, "n"},
		{token.LT, "<"},
		{token.INT, "150"},
		{token.COMMA, ","},
		{token.UNIQUE, "unique"},
		{token.COLON, ":"},
		{token.TRUE, "true"},
		{token.RBRACE, "}"},
		{token.FN, "fn"},
		{token.IDENT, "greet"},
		{token.LPAREN, "("},
		{token.IDENT, "name"},
		{token.COLON, ":"},
		{token.IDENT, "String"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "String"},
		{token.LBRACE, "{"},
		{token.IDENT, "name"},
		{token.PIPE, "|>"},
		{token.IDENT, "toUpperCase"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s (lexeme=%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"line\nbreak\ttab\"quote"`)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "line\nbreak\ttab\"quote"
	if tok.Literal != want {
		t.Fatalf("expected %q, got %q", want, tok.Literal)
	}
}

func TestStringNFCNormalization(t *testing.T) {
	// "e" + combining acute accent (U+0065 U+0301) vs precomposed
	// "é" (U+00E9) must lex to byte-identical literals.
	decomposed := New("\"é\"")
	precomposed := New("\"é\"")

	tok1, err := decomposed.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok2, err := precomposed.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok1.Literal != tok2.Literal {
		t.Fatalf("expected NFC-normalized literals to match: %q vs %q", tok1.Literal, tok2.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no closing quote`)
	if _, err := l.NextToken(); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestIntegerOverflow(t *testing.T) {
	l := New("99999999999999999999999999")
	if _, err := l.NextToken(); err == nil {
		t.Fatal("expected an error for an overflowing integer literal")
	}
}

func TestIllegalPipeWithoutArrow(t *testing.T) {
	l := New("a | b")
	if _, err := l.NextToken(); err != nil {
		t.Fatalf("unexpected error reading identifier: %v", err)
	}
	if _, err := l.NextToken(); err == nil {
		t.Fatal("expected an error for a bare '|'")
	}
}

func TestNestedBlockComments(t *testing.T) {
	l := New("/* outer /* inner */ still outer */ 42")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.INT || tok.Lexeme != "42" {
		t.Fatalf("expected INT 42 after nested comment, got %s %q", tok.Type, tok.Lexeme)
	}
}
