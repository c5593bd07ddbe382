package semantic

import (
	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/token"
	"github.com/refine-lang/refine/internal/types"
)

// infer computes the static type of expr under locals, recording any
// Type error and returning a best-effort type (often types.Unknown) so
// callers can keep checking the rest of the tree instead of aborting.
func (a *Analyzer) infer(expr ast.Expression, locals map[string]types.Type) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.Int, nil
	case *ast.StringLiteral:
		return types.String, nil
	case *ast.BooleanLiteral:
		return types.Bool, nil

	case *ast.Identifier:
		if t, ok := locals[e.Name]; ok {
			return t, nil
		}
		if a.env.IsValueType(e.Name) {
			return types.TypeT, nil
		}
		a.fail(e.Token.Pos, "unknown identifier %q", e.Name)
		return types.Unknown, errType

	case *ast.UnaryExpr:
		t, err := a.infer(e.Operand, locals)
		if err != nil {
			return types.Unknown, err
		}
		switch e.Op {
		case ast.OpNot:
			if !t.Equal(types.Bool) {
				a.fail(e.Token.Pos, "'!' requires Bool, got %s", t)
				return types.Unknown, errType
			}
			return types.Bool, nil
		default: // OpNeg
			if !t.Equal(types.Int) {
				a.fail(e.Token.Pos, "unary '-' requires Int, got %s", t)
				return types.Unknown, errType
			}
			return types.Int, nil
		}

	case *ast.BinaryExpr:
		lt, lerr := a.infer(e.Left, locals)
		rt, rerr := a.infer(e.Right, locals)
		if lerr != nil || rerr != nil {
			return types.Unknown, errType
		}
		switch e.Op {
		case ast.OpAnd, ast.OpOr:
			if !lt.Equal(types.Bool) || !rt.Equal(types.Bool) {
				a.fail(e.Token.Pos, "%s requires Bool operands, got %s and %s", boolOpName(e.Op), lt, rt)
				return types.Unknown, errType
			}
			return types.Bool, nil
		default: // arithmetic
			if !lt.Equal(types.Int) || !rt.Equal(types.Int) {
				a.fail(e.Token.Pos, "arithmetic requires Int operands, got %s and %s", lt, rt)
				return types.Unknown, errType
			}
			return types.Int, nil
		}

	case *ast.CompareExpr:
		lt, lerr := a.infer(e.Left, locals)
		rt, rerr := a.infer(e.Right, locals)
		if lerr != nil || rerr != nil {
			return types.Unknown, errType
		}
		if e.Op == ast.CmpContains {
			if !lt.Equal(types.String) || !rt.Equal(types.String) {
				a.fail(e.Token.Pos, "'contains' requires String operands, got %s and %s", lt, rt)
				return types.Unknown, errType
			}
			return types.Bool, nil
		}
		if !lt.Equal(rt) {
			a.fail(e.Token.Pos, "comparison operands must have the same type, got %s and %s", lt, rt)
			return types.Unknown, errType
		}
		return types.Bool, nil

	case *ast.MemberExpr:
		return a.inferMember(e, locals)

	case *ast.MethodCallExpr:
		return a.inferMethodCall(e, locals)

	case *ast.CallExpr:
		return a.inferCall(e, locals)

	case *ast.PipelineExpr:
		// a |> f is sugar for f(a); a |> f(args…) is sugar for
		// f(a, args…). Either way the right-hand side's type is what
		// type-checking that rewritten call produces.
		lt, lerr := a.infer(e.Left, locals)
		if lerr != nil {
			return types.Unknown, errType
		}
		switch rhs := e.Right.(type) {
		case *ast.Identifier:
			return a.checkCallLike(e.Token.Pos, rhs.Name, []types.Type{lt})
		case *ast.CallExpr:
			argTypes := make([]types.Type, len(rhs.Args)+1)
			argTypes[0] = lt
			for i, arg := range rhs.Args {
				t, err := a.infer(arg, locals)
				if err != nil {
					return types.Unknown, errType
				}
				argTypes[i+1] = t
			}
			return a.checkCallLike(e.Token.Pos, rhs.Name, argTypes)
		default:
			a.fail(e.Token.Pos, "right-hand side of '|>' must name a function or be a call")
			return types.Unknown, errType
		}

	case *ast.LetExpr:
		vt, verr := a.infer(e.Value, locals)
		if verr != nil {
			return types.Unknown, errType
		}
		inner := make(map[string]types.Type, len(locals)+1)
		for k, v := range locals {
			inner[k] = v
		}
		inner[e.Name] = vt
		return a.infer(e.Body, inner)

	case *ast.MatchExpr:
		return a.inferMatch(e, locals)
	}
	return types.Unknown, errType
}

// inferMatch implements the match rule: the scrutinee must
// have type Value(C) for some declared refinement type C; every arm's
// constructor must name that same C; each arm binds its variable to
// C's primitive payload type; all arm bodies must share one result
// type, which becomes the match's type.
func (a *Analyzer) inferMatch(e *ast.MatchExpr, locals map[string]types.Type) (types.Type, error) {
	st, serr := a.infer(e.Scrutinee, locals)
	if serr != nil {
		return types.Unknown, serr
	}
	if st.Kind != types.KValue {
		a.fail(e.Token.Pos, "match scrutinee must have a refinement type, got %s", st)
		return types.Unknown, errType
	}
	info := a.env.Values[st.Name]
	if len(e.Arms) == 0 {
		a.fail(e.Token.Pos, "match has no arms")
		return types.Unknown, errType
	}

	var result types.Type
	haveResult := false
	for _, arm := range e.Arms {
		if arm.Constructor != st.Name {
			a.fail(arm.Token.Pos, "pattern constructor %q disagrees with scrutinee type %s", arm.Constructor, st)
			continue
		}
		inner := make(map[string]types.Type, len(locals)+1)
		for k, v := range locals {
			inner[k] = v
		}
		if info != nil {
			inner[arm.Binding] = info.ParamType
		}
		bt, berr := a.infer(arm.Body, inner)
		if berr != nil {
			continue
		}
		if !haveResult {
			result, haveResult = bt, true
			continue
		}
		if !bt.Equal(result) {
			a.fail(arm.Body.GetToken().Pos, "match arms have mismatched types: %s vs %s", result, bt)
		}
	}
	if !haveResult {
		return types.Unknown, errType
	}
	return result, nil
}

// errType is a sentinel: the actual diagnostic was already recorded via
// a.fail, this just signals "stop propagating a usable type upward".
var errType = errTypeSentinel{}

type errTypeSentinel struct{}

func (errTypeSentinel) Error() string { return "type error" }

func boolOpName(op ast.BinaryOp) string {
	if op == ast.OpAnd {
		return "'&&'"
	}
	return "'||'"
}

func (a *Analyzer) inferMember(e *ast.MemberExpr, locals map[string]types.Type) (types.Type, error) {
	ot, err := a.infer(e.Object, locals)
	if err != nil {
		return types.Unknown, err
	}
	switch {
	case ot.Equal(types.String) && (e.Name == "length"):
		return types.Int, nil
	case ot.Equal(types.String) && (e.Name == "toLowerCase" || e.Name == "toUpperCase"):
		return types.String, nil
	case ot.Kind == types.KList && e.Name == "length":
		return types.Int, nil
	case ot.Kind == types.KValue:
		info := a.env.Values[ot.Name]
		if info != nil && info.ParamName == e.Name {
			return info.ParamType, nil
		}
		a.fail(e.Token.Pos, "%s has no field %q", ot, e.Name)
		return types.Unknown, errType
	}
	a.fail(e.Token.Pos, "%s has no member %q", ot, e.Name)
	return types.Unknown, errType
}

func (a *Analyzer) inferMethodCall(e *ast.MethodCallExpr, locals map[string]types.Type) (types.Type, error) {
	ot, oerr := a.infer(e.Object, locals)
	if oerr != nil {
		return types.Unknown, oerr
	}
	argTypes := make([]types.Type, len(e.Args)+1)
	argTypes[0] = ot
	for i, arg := range e.Args {
		t, err := a.infer(arg, locals)
		if err != nil {
			return types.Unknown, err
		}
		argTypes[i+1] = t
	}

	if _, ok := a.env.Functions[e.Name]; ok {
		return a.checkCallLike(e.Token.Pos, e.Name, argTypes)
	}

	// Built-in method dispatch: no user overload set named e.Name.
	switch {
	case ot.Equal(types.String) && (e.Name == "toLowerCase" || e.Name == "toUpperCase") && len(e.Args) == 0:
		return types.String, nil
	case ot.Equal(types.String) && e.Name == "length" && len(e.Args) == 0:
		return types.Int, nil
	case ot.Kind == types.KList && e.Name == "length" && len(e.Args) == 0:
		return types.Int, nil
	case ot.Kind == types.KType && e.Name == "all" && len(e.Args) == 0:
		return types.List(types.Any), nil
	case ot.Kind == types.KType && e.Name == "count" && len(e.Args) == 0:
		return types.Int, nil
	}
	a.fail(e.Token.Pos, "%s has no method %q", ot, e.Name)
	return types.Unknown, errType
}

func (a *Analyzer) inferCall(e *ast.CallExpr, locals map[string]types.Type) (types.Type, error) {
	argTypes := make([]types.Type, len(e.Args))
	failed := false
	for i, arg := range e.Args {
		t, err := a.infer(arg, locals)
		if err != nil {
			failed = true
			continue
		}
		argTypes[i] = t
	}
	if failed {
		return types.Unknown, errType
	}
	return a.checkCallLike(e.Token.Pos, e.Name, argTypes)
}

// checkCallLike resolves name(argTypes...) against either a declared
// value-type constructor or a function overload set:
// for overload sets with more than one signature, the first whose
// parameter vector exactly matches argTypes wins (ties can only arise
// from guard-only differences, which are resolved dynamically at
// dispatch time, not here).
func (a *Analyzer) checkCallLike(pos token.Position, name string, argTypes []types.Type) (types.Type, error) {
	if info, ok := a.env.Values[name]; ok {
		if len(argTypes) != 1 {
			a.fail(pos, "%q expects exactly one argument, got %d", name, len(argTypes))
			return types.Unknown, errType
		}
		if !argTypes[0].Equal(info.ParamType) {
			a.fail(pos, "%q expects argument of type %s, got %s", name, info.ParamType, argTypes[0])
			return types.Unknown, errType
		}
		return types.Value(name), nil
	}

	sigs, ok := a.env.Functions[name]
	if !ok {
		a.fail(pos, "unknown function %q", name)
		return types.Unknown, errType
	}
	for _, sig := range sigs {
		if sameParamVector(sig.ParamTypes, argTypes) {
			return sig.ReturnType, nil
		}
	}
	a.fail(pos, "no overload of %q matches the given argument types", name)
	return types.Unknown, errType
}
