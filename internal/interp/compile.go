package interp

import (
	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/registry"
	"github.com/refine-lang/refine/internal/types"
)

// Compile lowers a type-checked Program into reg: every ValueDecl
// becomes a registered constructor, every FunctionDecl an appended
// overload. Compile
// does not freeze reg — callers decide when evaluation starts and
// should call reg.Freeze() at that point.
func Compile(program *ast.Program, env *types.Env) *registry.Registry {
	reg := registry.New()
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.ValueDecl:
			info := env.Values[d.Name]
			paramType := types.FromTypeName(d.Param.Type.Name)
			if info != nil {
				paramType = info.ParamType
			}
			reg.RegisterValue(d, paramType)
		case *ast.FunctionDecl:
			reg.RegisterFunction(d, signatureOf(d))
		}
	}
	return reg
}

func signatureOf(d *ast.FunctionDecl) types.FunctionSignature {
	paramTypes := make([]types.Type, len(d.Params))
	guardPresent := make([]bool, len(d.Params))
	for i, p := range d.Params {
		paramTypes[i] = types.FromTypeName(p.Type.Name)
		guardPresent[i] = p.Guard != nil
	}
	return types.FunctionSignature{
		ParamTypes:   paramTypes,
		GuardPresent: guardPresent,
		ReturnType:   types.FromTypeName(d.ReturnType.Name),
	}
}
