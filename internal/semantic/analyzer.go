// Package semantic implements a single-pass static type checker: it
// populates a types.Env (value-type declarations and function overload
// sets) and rejects every statically detectable mismatch before a
// program ever reaches the registry/evaluator.
package semantic

import (
	"fmt"

	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/token"
	"github.com/refine-lang/refine/internal/types"
)

// Error is a Type error: unknown identifier, arity/type
// mismatch, redeclaration, ambiguous overload at declaration time,
// match scrutinee/arm mismatches.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("type error at %s: %s", e.Pos, e.Message)
}

// builtinFunctions are predeclared so the ordinary call-checking rules
// also cover `all`/`count` without a special case: both take a single
// Type-kinded argument.
func builtinFunctions() map[string][]types.FunctionSignature {
	return map[string][]types.FunctionSignature{
		"all":   {{ParamTypes: []types.Type{types.TypeT}, GuardPresent: []bool{false}, ReturnType: types.List(types.Any)}},
		"count": {{ParamTypes: []types.Type{types.TypeT}, GuardPresent: []bool{false}, ReturnType: types.Int}},
	}
}

// Analyzer runs the single pass over a Program's declarations.
type Analyzer struct {
	env    *types.Env
	errs   []*Error
}

// NewAnalyzer returns an Analyzer with a fresh, built-in-seeded
// type environment.
func NewAnalyzer() *Analyzer {
	env := types.NewEnv()
	for name, sigs := range builtinFunctions() {
		env.Functions[name] = sigs
	}
	return &Analyzer{env: env}
}

// Errors returns every Type error accumulated during Analyze. Unlike
// the lexer/parser, the analyzer does not stop at the first error: it
// keeps checking subsequent declarations so a caller sees every
// problem in one pass.
func (a *Analyzer) Errors() []*Error { return a.errs }

// Env returns the populated type environment. Only meaningful once
// Analyze has returned with no errors.
func (a *Analyzer) Env() *types.Env { return a.env }

func (a *Analyzer) fail(pos token.Position, format string, args ...any) {
	a.errs = append(a.errs, &Error{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Analyze type-checks every declaration in program, populating the
// Analyzer's Env. Returns the env and every Type error raised (nil
// when the program type-checks).
func Analyze(program *ast.Program) (*types.Env, []*Error) {
	a := NewAnalyzer()
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.ValueDecl:
			a.checkValueDecl(d)
		case *ast.FunctionDecl:
			a.checkFunctionDecl(d)
		}
	}
	return a.env, a.errs
}

// CheckExpression type-checks a single standalone expression against
// an already-populated env (e.g. from a prior Analyze), with no bound
// locals. This backs the driver's `evaluate(expr, registry)` entry
// point for callers probing one expression at a time.
func CheckExpression(expr ast.Expression, env *types.Env) (types.Type, []*Error) {
	a := &Analyzer{env: env}
	t, err := a.infer(expr, map[string]types.Type{})
	if err != nil && len(a.errs) == 0 {
		a.fail(expr.GetToken().Pos, "could not type-check expression")
	}
	return t, a.errs
}

func (a *Analyzer) primitiveType(te ast.TypeExpr) types.Type {
	return types.FromTypeName(te.Name)
}

func (a *Analyzer) checkValueDecl(decl *ast.ValueDecl) {
	if a.env.IsValueType(decl.Name) {
		a.fail(decl.Token.Pos, "value type %q redeclared", decl.Name)
		return
	}
	paramType := a.primitiveType(decl.Param.Type)
	locals := map[string]types.Type{decl.Param.Name: paramType}

	info := &types.ValueTypeInfo{
		Name:      decl.Name,
		ParamName: decl.Param.Name,
		ParamType: paramType,
	}

	if decl.Validate != nil {
		t, err := a.infer(decl.Validate, locals)
		if err == nil && !t.Equal(types.Bool) {
			a.fail(decl.Validate.GetToken().Pos, "'validate' must be Bool, got %s", t)
		}
		info.HasValidate = true
	}
	if decl.Normalize != nil {
		t, err := a.infer(decl.Normalize, locals)
		if err == nil && !t.Equal(paramType) {
			a.fail(decl.Normalize.GetToken().Pos, "'normalize' must be %s, got %s", paramType, t)
		}
		info.HasNormalize = true
	}
	info.Unique = decl.Unique

	a.env.Values[decl.Name] = info
}

func (a *Analyzer) checkFunctionDecl(decl *ast.FunctionDecl) {
	locals := make(map[string]types.Type, len(decl.Params))
	paramTypes := make([]types.Type, len(decl.Params))
	guardPresent := make([]bool, len(decl.Params))

	for i, p := range decl.Params {
		pt := a.primitiveType(p.Type)
		locals[p.Name] = pt
		paramTypes[i] = pt
	}
	for i, p := range decl.Params {
		if p.Guard != nil {
			guardPresent[i] = true
			t, err := a.infer(p.Guard, locals)
			if err == nil && !t.Equal(types.Bool) {
				a.fail(p.Guard.GetToken().Pos, "guard on parameter %q must be Bool, got %s", p.Name, t)
			}
		}
	}

	ret := a.primitiveType(decl.ReturnType)
	if decl.Body != nil {
		bt, err := a.infer(decl.Body, locals)
		if err == nil && !bt.Equal(ret) {
			a.fail(decl.Body.GetToken().Pos, "function %q body has type %s, declared return type is %s", decl.Name, bt, ret)
		}
	}

	sig := types.FunctionSignature{ParamTypes: paramTypes, GuardPresent: guardPresent, ReturnType: ret}

	existing := a.env.Functions[decl.Name]
	for _, other := range existing {
		if sameParamVector(other.ParamTypes, sig.ParamTypes) && !anyGuard(other.GuardPresent) && !anyGuard(sig.GuardPresent) {
			a.fail(decl.Token.Pos, "function %q redeclared with an identical, unguarded parameter signature", decl.Name)
			return
		}
	}
	a.env.Functions[decl.Name] = append(existing, sig)
}

func sameParamVector(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func anyGuard(g []bool) bool {
	for _, v := range g {
		if v {
			return true
		}
	}
	return false
}
