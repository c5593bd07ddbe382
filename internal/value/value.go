// Package value defines the runtime value sum produced by the
// evaluator (the "Runtime Value", distinct from the static
// types in package types): String, Integer, Boolean, Instance,
// TypeRef, and List.
package value

import (
	"strconv"
	"strings"
)

// Value is implemented by every runtime value kind.
type Value interface {
	valueNode()
	String() string
}

type String struct{ Val string }

func (String) valueNode()        {}
func (v String) String() string  { return v.Val }

type Int struct{ Val int64 }

func (Int) valueNode() {}
func (v Int) String() string {
	return strconv.FormatInt(v.Val, 10)
}

type Bool struct{ Val bool }

func (Bool) valueNode() {}
func (v Bool) String() string {
	if v.Val {
		return "true"
	}
	return "false"
}

// Instance is a boxed refinement-type value: its declared type name
// and the underlying (possibly normalized) primitive payload.
// Immutable after construction.
type Instance struct {
	TypeName string
	Payload  Value
}

func (*Instance) valueNode() {}
func (i *Instance) String() string {
	return i.TypeName + "(" + i.Payload.String() + ")"
}

// TypeRef is the runtime category referencing a declared refinement
// type name — the runtime form of a "type literal".
type TypeRef struct{ TypeName string }

func (TypeRef) valueNode()       {}
func (t TypeRef) String() string { return t.TypeName }

// List is a homogeneous sequence (currently only produced by `all`).
type List struct {
	Elements        []Value
	ElementTypeName string
}

func (List) valueNode() {}
func (l List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeSignature renders the dispatch-cache / candidate-filter type tag
// for v: "Int", "String", "Bool", the instance's
// type name, "Type", or "List".
func TypeSignature(v Value) string {
	switch t := v.(type) {
	case Int:
		return "Int"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case *Instance:
		return t.TypeName
	case TypeRef:
		return "Type"
	case List:
		return "List"
	default:
		return "Unknown"
	}
}

// PayloadEqual implements payload equality: integer
// and boolean equality are ordinary; string equality (including
// strings boxed inside an Instance payload) is case-insensitive, since
// normalization is expected to have already folded case where it
// matters and the uniqueness check must not be fooled by residual
// case differences.
func PayloadEqual(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && strings.EqualFold(av.Val, bv.Val)
	case Int:
		bv, ok := b.(Int)
		return ok && av.Val == bv.Val
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Val == bv.Val
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av.TypeName == bv.TypeName && PayloadEqual(av.Payload, bv.Payload)
	default:
		return false
	}
}
