package registry

import (
	"testing"

	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/types"
	"github.com/refine-lang/refine/internal/value"
)

func TestRegisterValueAndFreeze(t *testing.T) {
	reg := New()
	decl := &ast.ValueDecl{Name: "Age"}
	reg.RegisterValue(decl, types.Int)

	if !reg.IsValueType("Age") {
		t.Fatal("expected Age to be a registered value type")
	}
	ctor, ok := reg.Constructor("Age")
	if !ok || ctor.Decl != decl {
		t.Fatal("expected Constructor to return the registered decl")
	}

	reg.Freeze()
	defer func() {
		if recover() == nil {
			t.Fatal("expected RegisterValue to panic after Freeze")
		}
	}()
	reg.RegisterValue(&ast.ValueDecl{Name: "Name"}, types.String)
}

func TestRegisterFunctionPreservesOrder(t *testing.T) {
	reg := New()
	d1 := &ast.FunctionDecl{Name: "f"}
	d2 := &ast.FunctionDecl{Name: "f"}
	reg.RegisterFunction(d1, types.FunctionSignature{ParamTypes: []types.Type{types.Int}})
	reg.RegisterFunction(d2, types.FunctionSignature{ParamTypes: []types.Type{types.String}})

	overloads := reg.Overloads("f")
	if len(overloads) != 2 || overloads[0].Decl != d1 || overloads[1].Decl != d2 {
		t.Fatalf("expected overloads in declaration order, got %+v", overloads)
	}
}

func TestInstancesSnapshotIsACopy(t *testing.T) {
	reg := New()
	reg.RegisterValue(&ast.ValueDecl{Name: "Age"}, types.Int)
	reg.AppendInstance("Age", &value.Instance{TypeName: "Age", Payload: value.Int{Val: 30}})

	snap := reg.Instances("Age")
	snap[0] = &value.Instance{TypeName: "Age", Payload: value.Int{Val: 99}}

	original := reg.Instances("Age")
	if original[0].Payload.(value.Int).Val != 30 {
		t.Fatal("mutating a snapshot must not affect the registry's stored instances")
	}
}

func TestHasEqualPayload(t *testing.T) {
	reg := New()
	reg.RegisterValue(&ast.ValueDecl{Name: "Name"}, types.String)
	reg.AppendInstance("Name", &value.Instance{TypeName: "Name", Payload: value.String{Val: "Ada"}})

	if !reg.HasEqualPayload("Name", value.String{Val: "ADA"}) {
		t.Fatal("expected a case-insensitive payload match")
	}
	if reg.HasEqualPayload("Name", value.String{Val: "Grace"}) {
		t.Fatal("expected no match for a distinct payload")
	}
}

func TestDispatchCacheRoundTrip(t *testing.T) {
	reg := New()
	if _, ok := reg.CacheLookup("f", []string{"Int"}); ok {
		t.Fatal("expected a cache miss on an empty registry")
	}
	reg.CacheStore("f", []string{"Int"}, 2)
	idx, ok := reg.CacheLookup("f", []string{"Int"})
	if !ok || idx != 2 {
		t.Fatalf("expected cache hit with idx=2, got idx=%d ok=%v", idx, ok)
	}
	// A different argument signature vector must not collide.
	if _, ok := reg.CacheLookup("f", []string{"String"}); ok {
		t.Fatal("expected no cache hit for a different argument signature")
	}
}
