// Package registry owns the compiled shape of a program — value
// constructors, function overload sets, per-type instance lists, and
// the dispatch cache. It holds no evaluation behavior: constructing an
// Instance or dispatching a call requires interpreting AST owned here,
// which is package interp's
// job. Keeping registry eval-free is what lets it be frozen and shared
// across threads without importing the evaluator.
package registry

import (
	"fmt"
	"sync"

	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/types"
	"github.com/refine-lang/refine/internal/value"
)

// ValueConstructor is the compiled form of a `value` declaration: the
// declaration AST (validate/normalize are interpreted directly from
// it rather than compiled to closures) plus its resolved parameter
// type.
type ValueConstructor struct {
	Decl      *ast.ValueDecl
	ParamType types.Type
}

// Overload is one compiled function/method declaration paired with its
// checked signature.
type Overload struct {
	Decl *ast.FunctionDecl
	Sig  types.FunctionSignature
}

// Registry is safe for concurrent use once Freeze has been called:
// constructors and overload sets are write-once, the instance lists
// are append-only under a writer lock, and the dispatch cache is its
// own lock-guarded map.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]*ValueConstructor
	functions    map[string][]*Overload
	frozen       bool

	instMu    sync.RWMutex
	instances map[string][]*value.Instance

	cacheMu sync.Mutex
	cache   map[string]int
}

// New returns an empty, unfrozen Registry.
func New() *Registry {
	return &Registry{
		constructors: make(map[string]*ValueConstructor),
		functions:    make(map[string][]*Overload),
		instances:    make(map[string][]*value.Instance),
		cache:        make(map[string]int),
	}
}

// RegisterValue installs the compiled constructor for a `value`
// declaration. Panics if called after Freeze — registration only
// happens during compilation, before any evaluation.
func (r *Registry) RegisterValue(decl *ast.ValueDecl, paramType types.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("registry: RegisterValue called after Freeze")
	}
	r.constructors[decl.Name] = &ValueConstructor{Decl: decl, ParamType: paramType}
	if _, ok := r.instances[decl.Name]; !ok {
		r.instances[decl.Name] = nil
	}
}

// RegisterFunction appends one overload to functions[decl.Name],
// preserving declaration order.
func (r *Registry) RegisterFunction(decl *ast.FunctionDecl, sig types.FunctionSignature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("registry: RegisterFunction called after Freeze")
	}
	r.functions[decl.Name] = append(r.functions[decl.Name], &Overload{Decl: decl, Sig: sig})
}

// Freeze makes constructors and overload sets read-only; call it
// before serving any evaluation.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Constructor looks up a declared value type's constructor.
func (r *Registry) Constructor(name string) (*ValueConstructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constructors[name]
	return c, ok
}

// IsValueType reports whether name was registered via RegisterValue.
func (r *Registry) IsValueType(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[name]
	return ok
}

// Overloads returns the ordered overload set for name, or nil if no
// function by that name was registered.
func (r *Registry) Overloads(name string) []*Overload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.functions[name]
}

// Instances returns a snapshot of the live instances of typeName, in
// insertion order.
func (r *Registry) Instances(typeName string) []*value.Instance {
	r.instMu.RLock()
	defer r.instMu.RUnlock()
	snap := make([]*value.Instance, len(r.instances[typeName]))
	copy(snap, r.instances[typeName])
	return snap
}

// AppendInstance records a newly constructed, already-validated
// Instance under the writer lock, preserving insertion order.
func (r *Registry) AppendInstance(typeName string, inst *value.Instance) {
	r.instMu.Lock()
	defer r.instMu.Unlock()
	r.instances[typeName] = append(r.instances[typeName], inst)
}

// HasEqualPayload reports whether any live instance of typeName
// already carries a payload equal to p under value.PayloadEqual.
func (r *Registry) HasEqualPayload(typeName string, p value.Value) bool {
	r.instMu.RLock()
	defer r.instMu.RUnlock()
	for _, inst := range r.instances[typeName] {
		if value.PayloadEqual(inst.Payload, p) {
			return true
		}
	}
	return false
}

// cacheKey renders the (name, argument-type-signature-vector) key
// described in the dispatch cache.
func cacheKey(name string, argSigs []string) string {
	key := name
	for _, s := range argSigs {
		key += "\x00" + s
	}
	return key
}

// CacheLookup returns the cached overload index for (name, argSigs),
// if present.
func (r *Registry) CacheLookup(name string, argSigs []string) (int, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	idx, ok := r.cache[cacheKey(name, argSigs)]
	return idx, ok
}

// CacheStore records the overload index selected for (name, argSigs).
func (r *Registry) CacheStore(name string, argSigs []string, idx int) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache[cacheKey(name, argSigs)] = idx
}

// ValueTypeNames returns every declared value type name, for
// diagnostics and driver-level introspection.
func (r *Registry) ValueTypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for n := range r.constructors {
		names = append(names, n)
	}
	return names
}

func (r *Registry) String() string {
	return fmt.Sprintf("Registry{types=%d, functions=%d}", len(r.constructors), len(r.functions))
}
