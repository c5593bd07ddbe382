package interp

import (
	"sort"

	"github.com/refine-lang/refine/internal/registry"
	"github.com/refine-lang/refine/internal/types"
	"github.com/refine-lang/refine/internal/value"
)

// Interp is a tree-walking evaluator bound to one frozen-or-not
// Registry. Its only other state is the diagnostic-guard-errors flag:
// every evaluation is a function of its expression and local
// environment, that flag, and whatever the Registry already holds.
type Interp struct {
	reg                   *registry.Registry
	diagnosticGuardErrors bool
}

// New returns an Interp evaluating against reg.
func New(reg *registry.Registry) *Interp {
	return &Interp{reg: reg}
}

// SetDiagnosticGuardErrors controls whether a guard expression's own
// evaluation error is surfaced to the caller instead of being treated
// as a silently-discarded overload.
func (it *Interp) SetDiagnosticGuardErrors(on bool) { it.diagnosticGuardErrors = on }

// Registry returns the bound registry, e.g. so a driver can Freeze it
// once compilation is done.
func (it *Interp) Registry() *registry.Registry { return it.reg }

// Construct runs the construction state machine:
// RawPayload → (normalize?) → Normalized → (validate) → Validated →
// (unique-check?) → Registered. Any failing transition is terminal.
func (it *Interp) Construct(typeName string, raw value.Value) (*value.Instance, *Error) {
	ctor, ok := it.reg.Constructor(typeName)
	if !ok {
		return nil, errOnType(typeName, "unknown value type %q", typeName)
	}

	payload := raw
	if ctor.Decl.Normalize != nil {
		locals := map[string]value.Value{ctor.Decl.Param.Name: payload}
		normalized, err := it.Eval(ctor.Decl.Normalize, locals)
		if err != nil {
			return nil, err
		}
		payload = normalized
	}

	if ctor.Decl.Validate != nil {
		locals := map[string]value.Value{ctor.Decl.Param.Name: payload}
		result, err := it.Eval(ctor.Decl.Validate, locals)
		if err != nil {
			return nil, err
		}
		ok, isBool := result.(value.Bool)
		if !isBool || !ok.Val {
			return nil, errOnType(typeName, "validator rejected value for %s", typeName)
		}
	}

	if ctor.Decl.Unique && it.reg.HasEqualPayload(typeName, payload) {
		return nil, errOnType(typeName, "duplicate value for unique type %s", typeName)
	}

	inst := &value.Instance{TypeName: typeName, Payload: payload}
	it.reg.AppendInstance(typeName, inst)
	return inst, nil
}

// Dispatch resolves and invokes a multi-dispatch call `name(args…)`:
// filter candidates by arity/type, drop those whose guards don't hold,
// score the survivors by specificity, and invoke the most specific —
// consulting (and, where safe, populating) the registry's dispatch
// cache along the way.
func (it *Interp) Dispatch(name string, args []value.Value) (value.Value, *Error) {
	overloads := it.reg.Overloads(name)
	if len(overloads) == 0 {
		return nil, errf("unknown function %q", name)
	}

	cacheable := true
	for _, ov := range overloads {
		if anyGuard(ov.Sig.GuardPresent) {
			cacheable = false
			break
		}
	}

	argSigs := make([]string, len(args))
	for i, a := range args {
		argSigs[i] = value.TypeSignature(a)
	}

	if cacheable {
		if idx, ok := it.reg.CacheLookup(name, argSigs); ok {
			return it.invoke(overloads[idx], args)
		}
	}

	type scored struct {
		idx   int
		score int
	}

	var candidates []scored
	for i, ov := range overloads {
		if len(ov.Sig.ParamTypes) != len(args) {
			continue
		}
		if !allTypesMatch(ov.Sig.ParamTypes, args) {
			continue
		}
		ok, gerr := it.guardsHold(ov, args)
		if gerr != nil {
			return nil, gerr
		}
		if !ok {
			continue
		}
		candidates = append(candidates, scored{idx: i, score: specificityScore(ov.Sig)})
	}

	if len(candidates) == 0 {
		return nil, errf("no overload of %q applicable to the given arguments", name)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > 1 && candidates[0].score == candidates[1].score {
		return nil, errf("ambiguous call %q", name)
	}

	winner := candidates[0].idx
	if cacheable {
		it.reg.CacheStore(name, argSigs, winner)
	}
	return it.invoke(overloads[winner], args)
}

func (it *Interp) invoke(ov *registry.Overload, args []value.Value) (value.Value, *Error) {
	locals := make(map[string]value.Value, len(args))
	for i, p := range ov.Decl.Params {
		locals[p.Name] = args[i]
	}
	return it.Eval(ov.Decl.Body, locals)
}

// guardsHold evaluates every declared guard on ov against args, bound
// in a fresh local environment. A guard that raises any error
// discards the overload silently, unless diagnosticGuardErrors is set,
// in which case the error is returned and propagated to the caller
// instead.
func (it *Interp) guardsHold(ov *registry.Overload, args []value.Value) (bool, *Error) {
	hasGuard := false
	for _, p := range ov.Decl.Params {
		if p.Guard != nil {
			hasGuard = true
			break
		}
	}
	if !hasGuard {
		return true, nil
	}
	locals := make(map[string]value.Value, len(args))
	for i, p := range ov.Decl.Params {
		locals[p.Name] = args[i]
	}
	for _, p := range ov.Decl.Params {
		if p.Guard == nil {
			continue
		}
		result, err := it.Eval(p.Guard, locals)
		if err != nil {
			if it.diagnosticGuardErrors {
				return false, err
			}
			return false, nil
		}
		b, ok := result.(value.Bool)
		if !ok || !b.Val {
			return false, nil
		}
	}
	return true, nil
}

// allTypesMatch implements the candidate-filter matches_type predicate
// across a whole parameter vector.
func allTypesMatch(paramTypes []types.Type, args []value.Value) bool {
	for i, pt := range paramTypes {
		if !matchesType(pt, args[i]) {
			return false
		}
	}
	return true
}

func matchesType(pt types.Type, v value.Value) bool {
	switch pt.Kind {
	case types.KAny:
		return true
	case types.KInt:
		_, ok := v.(value.Int)
		return ok
	case types.KString:
		_, ok := v.(value.String)
		return ok
	case types.KBool:
		_, ok := v.(value.Bool)
		return ok
	case types.KValue:
		inst, ok := v.(*value.Instance)
		return ok && inst.TypeName == pt.Name
	case types.KType:
		_, ok := v.(value.TypeRef)
		return ok
	case types.KList:
		_, ok := v.(value.List)
		return ok
	default:
		return false
	}
}

// specificityScore scores an overload's declared signature: 3 per
// specific primitive/Value/Type/List parameter, 1 per Any, 0 per
// Unknown, plus 2 for every parameter that carries a guard.
func specificityScore(sig types.FunctionSignature) int {
	score := 0
	for i, pt := range sig.ParamTypes {
		switch pt.Kind {
		case types.KAny:
			score++
		case types.KUnknown:
		default:
			score += 3
		}
		if i < len(sig.GuardPresent) && sig.GuardPresent[i] {
			score += 2
		}
	}
	return score
}

func anyGuard(g []bool) bool {
	for _, v := range g {
		if v {
			return true
		}
	}
	return false
}
