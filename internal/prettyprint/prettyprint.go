// Package prettyprint renders a parsed Program back to source text,
// supporting the round-trip property (parse → print → re-parse →
// equal AST).
// Every composite expression is printed fully parenthesized so the
// printed form's precedence can never be reinterpreted differently
// than the tree that produced it.
package prettyprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/refine-lang/refine/internal/ast"
)

// Program renders every declaration in p, in order, separated by a
// blank line.
func Program(p *ast.Program) string {
	parts := make([]string, len(p.Declarations))
	for i, d := range p.Declarations {
		parts[i] = declaration(d)
	}
	return strings.Join(parts, "\n\n")
}

func declaration(d ast.Declaration) string {
	switch decl := d.(type) {
	case *ast.ValueDecl:
		return valueDecl(decl)
	case *ast.FunctionDecl:
		return functionDecl(decl)
	default:
		return ""
	}
}

func valueDecl(d *ast.ValueDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "value %s(%s: %s) {\n", d.Name, d.Param.Name, d.Param.Type.Name)
	if d.Validate != nil {
		fmt.Fprintf(&sb, "  validate: %s\n", expr(d.Validate))
	}
	if d.Normalize != nil {
		fmt.Fprintf(&sb, "  normalize: %s\n", expr(d.Normalize))
	}
	if d.Unique {
		sb.WriteString("  unique: true\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func functionDecl(d *ast.FunctionDecl) string {
	keyword := "fn"
	if d.IsMethod {
		keyword = "method"
	}
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		if p.Guard != nil {
			params[i] = fmt.Sprintf("%s: %s where %s", p.Name, p.Type.Name, expr(p.Guard))
		} else {
			params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type.Name)
		}
	}
	return fmt.Sprintf("%s %s(%s) -> %s { %s }", keyword, d.Name, strings.Join(params, ", "), d.ReturnType.Name, expr(d.Body))
}

func expr(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(v.Value, 10)
	case *ast.StringLiteral:
		return quote(v.Value)
	case *ast.BooleanLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.Identifier:
		return v.Name
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", unaryOp(v.Op), expr(v.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", expr(v.Left), binaryOp(v.Op), expr(v.Right))
	case *ast.CompareExpr:
		return fmt.Sprintf("(%s %s %s)", expr(v.Left), compareOp(v.Op), expr(v.Right))
	case *ast.MemberExpr:
		return fmt.Sprintf("%s.%s", expr(v.Object), v.Name)
	case *ast.MethodCallExpr:
		return fmt.Sprintf("%s.%s(%s)", expr(v.Object), v.Name, exprList(v.Args))
	case *ast.CallExpr:
		return fmt.Sprintf("%s(%s)", v.Name, exprList(v.Args))
	case *ast.PipelineExpr:
		return fmt.Sprintf("(%s |> %s)", expr(v.Left), expr(v.Right))
	case *ast.LetExpr:
		return fmt.Sprintf("(let %s = %s in %s)", v.Name, expr(v.Value), expr(v.Body))
	case *ast.MatchExpr:
		arms := make([]string, len(v.Arms))
		for i, a := range v.Arms {
			arms[i] = fmt.Sprintf("%s(%s) => %s", a.Constructor, a.Binding, expr(a.Body))
		}
		return fmt.Sprintf("match %s { %s }", expr(v.Scrutinee), strings.Join(arms, ", "))
	default:
		return ""
	}
}

func exprList(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = expr(a)
	}
	return strings.Join(parts, ", ")
}

func unaryOp(op ast.UnaryOp) string {
	if op == ast.OpNot {
		return "!"
	}
	return "-"
}

func binaryOp(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpAnd:
		return "&&"
	default: // OpOr
		return "||"
	}
}

func compareOp(op ast.CompareOp) string {
	switch op {
	case ast.CmpEq:
		return "=="
	case ast.CmpNe:
		return "!="
	case ast.CmpLt:
		return "<"
	case ast.CmpGt:
		return ">"
	case ast.CmpLe:
		return "<="
	case ast.CmpGe:
		return ">="
	default: // CmpContains
		return "contains"
	}
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
