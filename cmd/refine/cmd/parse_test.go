package cmd

import (
	"strings"
	"testing"
)

func TestParseScriptPrintsRenderedSource(t *testing.T) {
	parseEval = `value Age(n: Int) { validate: n >= 0, unique: true }`
	parseDumpAST = false
	defer func() { parseEval = "" }()

	c, out, _ := newTestCmd()
	if err := parseScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "value Age") {
		t.Fatalf("expected re-rendered source, got %q", out.String())
	}
}

func TestParseScriptDumpAST(t *testing.T) {
	parseEval = `fn inc(x: Int) -> Int { x + 1 }`
	parseDumpAST = true
	defer func() { parseEval = ""; parseDumpAST = false }()

	c, out, _ := newTestCmd()
	if err := parseScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "FunctionDecl") {
		t.Fatalf("expected a raw AST dump naming FunctionDecl, got %q", out.String())
	}
}

func TestParseScriptReportsParseError(t *testing.T) {
	parseEval = `value (n: Int) {}`
	parseDumpAST = false
	defer func() { parseEval = "" }()

	c, _, errOut := newTestCmd()
	if err := parseScript(c, nil); err == nil {
		t.Fatal("expected a parse error for a missing type name")
	}
	if !strings.Contains(errOut.String(), "parser error") {
		t.Fatalf("expected a parser error header on stderr, got %q", errOut.String())
	}
}
