package refine

import (
	"testing"

	"github.com/refine-lang/refine/internal/value"
)

func TestInstancesAsJSON(t *testing.T) {
	eng := New()
	if errs := eng.Load(`value Age(n: Int) {}`); len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}
	if _, err := eng.Construct("Age", value.Int{Val: 30}); err != nil {
		t.Fatalf("unexpected construct error: %v", err)
	}
	if _, err := eng.Construct("Age", value.Int{Val: 40}); err != nil {
		t.Fatalf("unexpected construct error: %v", err)
	}

	blob, err := eng.InstancesAsJSON("Age")
	if err != nil {
		t.Fatalf("unexpected JSON projection error: %v", err)
	}

	res, err := eng.QueryInstancesJSON("Age", "#.payload")
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	got := res.Array()
	if len(got) != 2 {
		t.Fatalf("expected 2 payloads in %s, got %d", blob, len(got))
	}
	if got[0].Int() != 30 || got[1].Int() != 40 {
		t.Fatalf("unexpected payloads: %v", got)
	}
}

func TestQueryInstancesJSONTypeName(t *testing.T) {
	eng := New()
	if errs := eng.Load(`value Name(s: String) {}`); len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}
	if _, err := eng.Construct("Name", value.String{Val: "Ada"}); err != nil {
		t.Fatalf("unexpected construct error: %v", err)
	}

	res, err := eng.QueryInstancesJSON("Name", "0.typeName")
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if res.String() != "Name" {
		t.Fatalf("expected typeName \"Name\", got %q", res.String())
	}
}

func TestInstancesAsJSONEmpty(t *testing.T) {
	eng := New()
	if errs := eng.Load(`value Age(n: Int) {}`); len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}
	blob, err := eng.InstancesAsJSON("Age")
	if err != nil {
		t.Fatalf("unexpected JSON projection error: %v", err)
	}
	if blob != "[]" {
		t.Fatalf("expected an empty array for an unconstructed type, got %q", blob)
	}
}
