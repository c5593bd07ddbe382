package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&errOut)
	return c, &out, &errOut
}

func TestLexScriptPrintsTokens(t *testing.T) {
	lexEval = `value Age(n: Int) {}`
	lexShowPos = false
	lexOnlyType = false
	defer func() { lexEval = "" }()

	c, out, _ := newTestCmd()
	if err := lexScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"value"`) {
		t.Fatalf("expected the value keyword token in output, got %q", out.String())
	}
}

func TestLexScriptOnlyType(t *testing.T) {
	lexEval = `1 + 2`
	lexOnlyType = true
	defer func() { lexEval = ""; lexOnlyType = false }()

	c, out, _ := newTestCmd()
	if err := lexScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.String(), `"`) {
		t.Fatalf("--only-type must not print lexemes, got %q", out.String())
	}
}

func TestLexScriptReportsLexError(t *testing.T) {
	lexEval = `a | b`
	lexOnlyType = false
	defer func() { lexEval = "" }()

	c, _, errOut := newTestCmd()
	if err := lexScript(c, nil); err == nil {
		t.Fatal("expected an error for a bare '|'")
	}
	if !strings.Contains(errOut.String(), "lexer error") {
		t.Fatalf("expected a lexer error header on stderr, got %q", errOut.String())
	}
}

func TestLexScriptNoSourceGiven(t *testing.T) {
	lexEval = ""
	c, _, _ := newTestCmd()
	if err := lexScript(c, nil); err == nil {
		t.Fatal("expected an error when no file or --eval is given")
	}
}
