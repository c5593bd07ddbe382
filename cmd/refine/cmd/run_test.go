package cmd

import (
	"strings"
	"testing"
)

func resetRunFlags() {
	runEval = ""
	runExpr = ""
	runConstruct = nil
	runInstances = ""
	runInstancesJSON = ""
	runDumpInstances = false
	runSort = false
	runConfigFile = ""
}

func TestRunScriptConstructAndInstances(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	runEval = `value Age(n: Int) { validate: n >= 0 }`
	runConstruct = []string{"Age=30", "Age=40"}
	runInstances = "Age"

	c, out, _ := newTestCmd()
	if err := runScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Age(30)") || !strings.Contains(got, "Age(40)") {
		t.Fatalf("expected both constructed instances printed, got %q", got)
	}
}

func TestRunScriptExpr(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	runEval = `
fn describe(n: Int where n >= 18) -> String { "adult" }
fn describe(n: Int) -> String { "minor" }
`
	runExpr = `describe(20)`

	c, out, _ := newTestCmd()
	if err := runScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "adult" {
		t.Fatalf("expected \"adult\", got %q", out.String())
	}
}

func TestRunScriptInstancesJSON(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	runEval = `value Age(n: Int) {}`
	runConstruct = []string{"Age=12"}
	runInstancesJSON = "Age"

	c, out, _ := newTestCmd()
	if err := runScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"typeName":"Age"`) {
		t.Fatalf("expected a JSON projection containing typeName, got %q", out.String())
	}
}

func TestRunScriptDumpInstancesSorted(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	runEval = `value Tag(s: String) {}`
	runConstruct = []string{"Tag=item-10", "Tag=item-2"}
	runDumpInstances = true
	runSort = true

	c, out, _ := newTestCmd()
	if err := runScript(c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	i2, i10 := strings.Index(got, "item-2"), strings.Index(got, "item-10")
	if i2 == -1 || i10 == -1 {
		t.Fatalf("expected both tags in dump output, got %q", got)
	}
	if i10 < i2 {
		t.Fatalf("expected natural sort to place item-2 before item-10, got %q", got)
	}
}

func TestRunScriptConstructBadSpec(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	runEval = `value Age(n: Int) {}`
	runConstruct = []string{"Age"}

	c, _, _ := newTestCmd()
	if err := runScript(c, nil); err == nil {
		t.Fatal("expected an error for a --construct spec missing '='")
	}
}

func TestRunScriptLoadErrors(t *testing.T) {
	resetRunFlags()
	defer resetRunFlags()

	runEval = `value (n: Int) {}`

	c, _, errOut := newTestCmd()
	if err := runScript(c, nil); err == nil {
		t.Fatal("expected a load error for malformed source")
	}
	if !strings.Contains(errOut.String(), "parser error") {
		t.Fatalf("expected a parser error header on stderr, got %q", errOut.String())
	}
}
