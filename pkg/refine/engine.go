// Package refine is the embeddable driver for the refinement-type,
// multiple-dispatch language: it wires the lexer, parser, type
// checker, registry, and evaluator behind five collaborator entry
// points (parse, typecheck, compile, construct, evaluate), exposed
// through a functional-options Engine (`New(opts ...Option)`,
// `engine.SetOutput`, `engine.Evaluate`).
package refine

import (
	"io"
	"os"

	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/config"
	"github.com/refine-lang/refine/internal/errdisplay"
	"github.com/refine-lang/refine/internal/interp"
	"github.com/refine-lang/refine/internal/lexer"
	"github.com/refine-lang/refine/internal/parser"
	"github.com/refine-lang/refine/internal/registry"
	"github.com/refine-lang/refine/internal/semantic"
	"github.com/refine-lang/refine/internal/types"
	"github.com/refine-lang/refine/internal/value"
)

// Engine holds one compiled program: its type environment and its
// registry, plus the ambient configuration under which it runs.
type Engine struct {
	cfg *config.Config
	out io.Writer

	env *types.Env
	reg *registry.Registry
	it  *interp.Interp
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDiagnosticGuardErrors surfaces guard-evaluation errors as
// diagnostics instead of silently discarding the overload.
func WithDiagnosticGuardErrors(on bool) Option {
	return func(e *Engine) { e.cfg.DiagnosticGuardErrors = on }
}

// WithConfigFile loads an optional refine.yaml-shaped project file.
func WithConfigFile(path string) Option {
	return func(e *Engine) {
		if cfg, err := config.Load(path); err == nil {
			e.cfg = cfg
		}
	}
}

// New returns a fresh, empty Engine ready to Load a program.
func New(opts ...Option) *Engine {
	e := &Engine{cfg: config.Default(), out: os.Stdout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOutput redirects any diagnostic output the Engine writes.
func (e *Engine) SetOutput(w io.Writer) { e.out = w }

// Result is the outcome of loading or evaluating a program.
type Result struct {
	Success bool
	Value   value.Value
	Errors  []*errdisplay.Error
}

// Parse lexes and parses source into a Program.
func Parse(source string) (*ast.Program, []*errdisplay.Error) {
	l := lexer.New(source)
	program, perr := parser.ParseProgram(l)
	if perr != nil {
		return program, []*errdisplay.Error{errdisplay.FromParserError(perr, source, "")}
	}
	return program, nil
}

// Typecheck populates a TypeEnv from program.
func Typecheck(program *ast.Program, source string) (*types.Env, []*errdisplay.Error) {
	env, errs := semantic.Analyze(program)
	if len(errs) > 0 {
		return env, errdisplay.FromTypeErrors(errs, source, "")
	}
	return env, nil
}

// Compile lowers a type-checked Program into a Registry.
func Compile(program *ast.Program, env *types.Env) *registry.Registry {
	return interp.Compile(program, env)
}

// Load runs parse → typecheck → compile over source and binds the
// resulting registry to e, freezing it before returning. On any error
// the Engine is left unloaded and the errors are returned.
func (e *Engine) Load(source string) []*errdisplay.Error {
	program, errs := Parse(source)
	if errs != nil {
		return errs
	}
	env, errs := Typecheck(program, source)
	if errs != nil {
		return errs
	}
	reg := Compile(program, env)
	reg.Freeze()

	e.env = env
	e.reg = reg
	e.it = interp.New(reg)
	e.it.SetDiagnosticGuardErrors(e.cfg.DiagnosticGuardErrors)
	return nil
}

// Construct validates and registers a new instance of typeName. The
// Engine must have a loaded program.
func (e *Engine) Construct(typeName string, raw value.Value) (*value.Instance, *errdisplay.Error) {
	inst, err := e.it.Construct(typeName, raw)
	if err != nil {
		return nil, errdisplay.FromValidationError(err)
	}
	return inst, nil
}

// Evaluate type-checks and evaluates a single standalone expression
// against the Engine's loaded registry.
func (e *Engine) Evaluate(source string) *Result {
	l := lexer.New(source)
	expr, perr := parser.ParseExpression(l)
	if perr != nil {
		return &Result{Errors: []*errdisplay.Error{errdisplay.FromParserError(perr, source, "")}}
	}
	if _, errs := semantic.CheckExpression(expr, e.env); len(errs) > 0 {
		return &Result{Errors: errdisplay.FromTypeErrors(errs, source, "")}
	}
	v, err := e.it.Eval(expr, map[string]value.Value{})
	if err != nil {
		return &Result{Errors: []*errdisplay.Error{errdisplay.FromValidationError(err)}}
	}
	return &Result{Success: true, Value: v}
}

// Instances returns a snapshot of every live instance of typeName, in
// insertion order.
func (e *Engine) Instances(typeName string) []*value.Instance {
	return e.reg.Instances(typeName)
}

// Registry exposes the Engine's compiled registry, e.g. for direct use
// of package interp's lower-level Construct/Dispatch.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Env exposes the Engine's checked type environment.
func (e *Engine) Env() *types.Env { return e.env }
