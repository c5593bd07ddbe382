package interp

import (
	"strings"
	"unicode/utf8"

	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/value"
)

// Eval tree-walks expr under locals. All errors are Validation errors.
func (it *Interp) Eval(expr ast.Expression, locals map[string]value.Value) (value.Value, *Error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return value.Int{Val: e.Value}, nil
	case *ast.StringLiteral:
		return value.String{Val: e.Value}, nil
	case *ast.BooleanLiteral:
		return value.Bool{Val: e.Value}, nil

	case *ast.Identifier:
		if v, ok := locals[e.Name]; ok {
			return v, nil
		}
		if it.reg.IsValueType(e.Name) {
			return value.TypeRef{TypeName: e.Name}, nil
		}
		return nil, errf("unknown identifier %q", e.Name)

	case *ast.UnaryExpr:
		return it.evalUnary(e, locals)

	case *ast.BinaryExpr:
		return it.evalBinary(e, locals)

	case *ast.CompareExpr:
		return it.evalCompare(e, locals)

	case *ast.MemberExpr:
		return it.evalMember(e, locals)

	case *ast.MethodCallExpr:
		return it.evalMethodCall(e, locals)

	case *ast.CallExpr:
		args, err := it.evalArgs(e.Args, locals)
		if err != nil {
			return nil, err
		}
		return it.callNamed(e.Name, args)

	case *ast.PipelineExpr:
		return it.evalPipeline(e, locals)

	case *ast.LetExpr:
		v, err := it.Eval(e.Value, locals)
		if err != nil {
			return nil, err
		}
		inner := extend(locals, e.Name, v)
		return it.Eval(e.Body, inner)

	case *ast.MatchExpr:
		return it.evalMatch(e, locals)
	}
	return nil, errf("unsupported expression")
}

func extend(locals map[string]value.Value, name string, v value.Value) map[string]value.Value {
	inner := make(map[string]value.Value, len(locals)+1)
	for k, val := range locals {
		inner[k] = val
	}
	inner[name] = v
	return inner
}

func (it *Interp) evalArgs(exprs []ast.Expression, locals map[string]value.Value) ([]value.Value, *Error) {
	out := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := it.Eval(a, locals)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (it *Interp) evalUnary(e *ast.UnaryExpr, locals map[string]value.Value) (value.Value, *Error) {
	v, err := it.Eval(e.Operand, locals)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNot:
		b, ok := v.(value.Bool)
		if !ok {
			return nil, errf("'!' requires Bool")
		}
		return value.Bool{Val: !b.Val}, nil
	default: // OpNeg
		n, ok := v.(value.Int)
		if !ok {
			return nil, errf("unary '-' requires Int")
		}
		return value.Int{Val: -n.Val}, nil
	}
}

// evalBinary evaluates arithmetic and logical operators. && and ||
// short-circuit; arithmetic operands are both evaluated,
// left-then-right, eagerly.
func (it *Interp) evalBinary(e *ast.BinaryExpr, locals map[string]value.Value) (value.Value, *Error) {
	if e.Op == ast.OpAnd || e.Op == ast.OpOr {
		lv, err := it.Eval(e.Left, locals)
		if err != nil {
			return nil, err
		}
		lb, ok := lv.(value.Bool)
		if !ok {
			return nil, errf("%s requires Bool operands", boolOpName(e.Op))
		}
		if e.Op == ast.OpAnd && !lb.Val {
			return value.Bool{Val: false}, nil
		}
		if e.Op == ast.OpOr && lb.Val {
			return value.Bool{Val: true}, nil
		}
		rv, err := it.Eval(e.Right, locals)
		if err != nil {
			return nil, err
		}
		rb, ok := rv.(value.Bool)
		if !ok {
			return nil, errf("%s requires Bool operands", boolOpName(e.Op))
		}
		return rb, nil
	}

	lv, lerr := it.Eval(e.Left, locals)
	if lerr != nil {
		return nil, lerr
	}
	rv, rerr := it.Eval(e.Right, locals)
	if rerr != nil {
		return nil, rerr
	}
	li, lok := lv.(value.Int)
	ri, rok := rv.(value.Int)
	if !lok || !rok {
		return nil, errf("arithmetic requires Int operands")
	}
	switch e.Op {
	case ast.OpAdd:
		return value.Int{Val: li.Val + ri.Val}, nil
	case ast.OpSub:
		return value.Int{Val: li.Val - ri.Val}, nil
	case ast.OpMul:
		return value.Int{Val: li.Val * ri.Val}, nil
	case ast.OpDiv:
		if ri.Val == 0 {
			return nil, errf("division by zero")
		}
		return value.Int{Val: li.Val / ri.Val}, nil
	default: // OpMod
		if ri.Val == 0 {
			return nil, errf("modulo by zero")
		}
		return value.Int{Val: li.Val % ri.Val}, nil
	}
}

func boolOpName(op ast.BinaryOp) string {
	if op == ast.OpAnd {
		return "'&&'"
	}
	return "'||'"
}

func (it *Interp) evalCompare(e *ast.CompareExpr, locals map[string]value.Value) (value.Value, *Error) {
	lv, lerr := it.Eval(e.Left, locals)
	if lerr != nil {
		return nil, lerr
	}
	rv, rerr := it.Eval(e.Right, locals)
	if rerr != nil {
		return nil, rerr
	}

	if e.Op == ast.CmpContains {
		ls, lok := lv.(value.String)
		rs, rok := rv.(value.String)
		if !lok || !rok {
			return nil, errf("'contains' requires String operands")
		}
		return value.Bool{Val: strings.Contains(ls.Val, rs.Val)}, nil
	}

	if e.Op == ast.CmpEq || e.Op == ast.CmpNe {
		eq := valuesEqual(lv, rv)
		if e.Op == ast.CmpNe {
			eq = !eq
		}
		return value.Bool{Val: eq}, nil
	}

	// Ordering comparisons: Int or String only.
	switch l := lv.(type) {
	case value.Int:
		r, ok := rv.(value.Int)
		if !ok {
			return nil, errf("type mismatch in comparison")
		}
		return value.Bool{Val: compareOrdering(e.Op, int64Cmp(l.Val, r.Val))}, nil
	case value.String:
		r, ok := rv.(value.String)
		if !ok {
			return nil, errf("type mismatch in comparison")
		}
		return value.Bool{Val: compareOrdering(e.Op, strings.Compare(l.Val, r.Val))}, nil
	default:
		return nil, errf("type mismatch in comparison")
	}
}

func int64Cmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdering(op ast.CompareOp, cmp int) bool {
	switch op {
	case ast.CmpLt:
		return cmp < 0
	case ast.CmpGt:
		return cmp > 0
	case ast.CmpLe:
		return cmp <= 0
	case ast.CmpGe:
		return cmp >= 0
	default:
		return false
	}
}

// valuesEqual implements general (non-ordering) equality, delegating
// to payload equality (case-insensitive strings) for Instances.
func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case value.String:
		bv, ok := b.(value.String)
		return ok && strings.EqualFold(av.Val, bv.Val)
	case value.Int:
		bv, ok := b.(value.Int)
		return ok && av.Val == bv.Val
	case value.Bool:
		bv, ok := b.(value.Bool)
		return ok && av.Val == bv.Val
	case *value.Instance:
		bv, ok := b.(*value.Instance)
		return ok && value.PayloadEqual(av, bv)
	case value.TypeRef:
		bv, ok := b.(value.TypeRef)
		return ok && av.TypeName == bv.TypeName
	default:
		return false
	}
}

func (it *Interp) evalMember(e *ast.MemberExpr, locals map[string]value.Value) (value.Value, *Error) {
	ov, err := it.Eval(e.Object, locals)
	if err != nil {
		return nil, err
	}
	switch obj := ov.(type) {
	case value.String:
		switch e.Name {
		case "length":
			return value.Int{Val: int64(utf8.RuneCountInString(obj.Val))}, nil
		case "toLowerCase":
			return value.String{Val: strings.ToLower(obj.Val)}, nil
		case "toUpperCase":
			return value.String{Val: strings.ToUpper(obj.Val)}, nil
		}
	case value.List:
		if e.Name == "length" {
			return value.Int{Val: int64(len(obj.Elements))}, nil
		}
	case *value.Instance:
		if ctor, ok := it.reg.Constructor(obj.TypeName); ok && ctor.Decl.Param.Name == e.Name {
			return obj.Payload, nil
		}
		return nil, errOnType(obj.TypeName, "%s has no field %q", obj.TypeName, e.Name)
	}
	return nil, errf("value has no member %q", e.Name)
}

func (it *Interp) evalMethodCall(e *ast.MethodCallExpr, locals map[string]value.Value) (value.Value, *Error) {
	ov, err := it.Eval(e.Object, locals)
	if err != nil {
		return nil, err
	}
	args, aerr := it.evalArgs(e.Args, locals)
	if aerr != nil {
		return nil, aerr
	}

	if len(it.reg.Overloads(e.Name)) > 0 || it.reg.IsValueType(e.Name) {
		all := append([]value.Value{ov}, args...)
		return it.callNamed(e.Name, all)
	}

	switch obj := ov.(type) {
	case value.String:
		switch e.Name {
		case "toLowerCase":
			return value.String{Val: strings.ToLower(obj.Val)}, nil
		case "toUpperCase":
			return value.String{Val: strings.ToUpper(obj.Val)}, nil
		case "length":
			return value.Int{Val: int64(utf8.RuneCountInString(obj.Val))}, nil
		}
	case value.List:
		if e.Name == "length" {
			return value.Int{Val: int64(len(obj.Elements))}, nil
		}
	case value.TypeRef:
		switch e.Name {
		case "all":
			return it.allInstances(obj.TypeName), nil
		case "count":
			return value.Int{Val: int64(len(it.reg.Instances(obj.TypeName)))}, nil
		}
	}
	return nil, errf("no method %q for this value", e.Name)
}

// callNamed implements a bare `name(args…)` call: value construction,
// `all`/`count` on a TypeRef, or ordinary multi-dispatch.
func (it *Interp) callNamed(name string, args []value.Value) (value.Value, *Error) {
	if it.reg.IsValueType(name) {
		if len(args) != 1 {
			return nil, errOnType(name, "%q expects exactly one argument", name)
		}
		inst, err := it.Construct(name, args[0])
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
	if name == "all" && len(args) == 1 {
		if ref, ok := args[0].(value.TypeRef); ok {
			return it.allInstances(ref.TypeName), nil
		}
	}
	if name == "count" && len(args) == 1 {
		if ref, ok := args[0].(value.TypeRef); ok {
			return value.Int{Val: int64(len(it.reg.Instances(ref.TypeName)))}, nil
		}
	}
	return it.Dispatch(name, args)
}

func (it *Interp) allInstances(typeName string) value.Value {
	insts := it.reg.Instances(typeName)
	elems := make([]value.Value, len(insts))
	for i, inst := range insts {
		elems[i] = inst
	}
	return value.List{Elements: elems, ElementTypeName: typeName}
}

func (it *Interp) evalPipeline(e *ast.PipelineExpr, locals map[string]value.Value) (value.Value, *Error) {
	lv, err := it.Eval(e.Left, locals)
	if err != nil {
		return nil, err
	}
	switch rhs := e.Right.(type) {
	case *ast.Identifier:
		return it.callNamed(rhs.Name, []value.Value{lv})
	case *ast.CallExpr:
		args, aerr := it.evalArgs(rhs.Args, locals)
		if aerr != nil {
			return nil, aerr
		}
		all := append([]value.Value{lv}, args...)
		return it.callNamed(rhs.Name, all)
	default:
		return nil, errf("right-hand side of '|>' must name a function or be a call")
	}
}

func (it *Interp) evalMatch(e *ast.MatchExpr, locals map[string]value.Value) (value.Value, *Error) {
	sv, err := it.Eval(e.Scrutinee, locals)
	if err != nil {
		return nil, err
	}
	inst, ok := sv.(*value.Instance)
	if !ok {
		return nil, errf("match scrutinee is not an Instance")
	}
	for _, arm := range e.Arms {
		if arm.Constructor != inst.TypeName {
			continue
		}
		inner := extend(locals, arm.Binding, inst.Payload)
		return it.Eval(arm.Body, inner)
	}
	return nil, errOnType(inst.TypeName, "non-exhaustive match for type %s", inst.TypeName)
}
