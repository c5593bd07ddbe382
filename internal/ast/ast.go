// Package ast defines the immutable tree of declarations and
// expressions produced by the parser. Node position information is
// carried via token.Token, so diagnostics anywhere downstream can
// report a source location.
package ast

import "github.com/refine-lang/refine/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	GetToken() token.Token
}

// Expression is a Node that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// Declaration is a top-level ValueDecl or FunctionDecl.
type Declaration interface {
	Node
	declarationNode()
}

// Program is the root of every parse: an ordered sequence of
// declarations.
type Program struct {
	Declarations []Declaration
}

// --- Declarations -----------------------------------------------------

// Param is a single parameter of a FunctionDecl: a name, a declared
// type, and an optional guard predicate.
type Param struct {
	Token token.Token
	Name  string
	Type  TypeExpr
	Guard Expression // nil if absent
}

// ValueDecl declares a refinement type: a name wrapping a single
// primitive parameter, with optional validate/normalize/unique
// clauses.
type ValueDecl struct {
	Token     token.Token // the 'value' token
	Name      string
	Param     Param
	Validate  Expression // nil if absent
	Normalize Expression // nil if absent
	Unique    bool
}

func (d *ValueDecl) GetToken() token.Token { return d.Token }
func (d *ValueDecl) declarationNode()      {}

// FunctionDecl declares one overload of a (possibly multi-overload)
// function or method. IsMethod is cosmetic only — `fn` and `method`
// declarations are semantically identical.
type FunctionDecl struct {
	Token      token.Token // the 'fn' or 'method' token
	Name       string
	IsMethod   bool
	Params     []Param
	ReturnType TypeExpr
	Body       Expression
}

func (d *FunctionDecl) GetToken() token.Token { return d.Token }
func (d *FunctionDecl) declarationNode()      {}

// --- Type expressions (as written in source, before type-checking) ----

// TypeExpr is the syntactic form of a type annotation: a bare name
// (String, Int, Bool, Any, or a capitalized user type name).
type TypeExpr struct {
	Token token.Token
	Name  string
}

// --- Expressions --------------------------------------------------------

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntegerLiteral) GetToken() token.Token { return e.Token }
func (e *IntegerLiteral) expressionNode()       {}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) GetToken() token.Token { return e.Token }
func (e *StringLiteral) expressionNode()       {}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (e *BooleanLiteral) GetToken() token.Token { return e.Token }
func (e *BooleanLiteral) expressionNode()       {}

// Identifier is a bare name: a local variable, or (if unbound as a
// local) the name of a declared refinement type used as a first-class
// type literal.
type Identifier struct {
	Token token.Token
	Name  string
}

func (e *Identifier) GetToken() token.Token { return e.Token }
func (e *Identifier) expressionNode()       {}

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
)

type BinaryExpr struct {
	Token token.Token
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) GetToken() token.Token { return e.Token }
func (e *BinaryExpr) expressionNode()       {}

// UnaryOp is the operator of a UnaryExpr.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

type UnaryExpr struct {
	Token   token.Token
	Op      UnaryOp
	Operand Expression
}

func (e *UnaryExpr) GetToken() token.Token { return e.Token }
func (e *UnaryExpr) expressionNode()       {}

// CompareOp is the operator of a CompareExpr.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpGt
	CmpLe
	CmpGe
	CmpContains
)

type CompareExpr struct {
	Token token.Token
	Op    CompareOp
	Left  Expression
	Right Expression
}

func (e *CompareExpr) GetToken() token.Token { return e.Token }
func (e *CompareExpr) expressionNode()       {}

// MemberExpr is `obj.field` — a plain attribute access, not a call.
type MemberExpr struct {
	Token  token.Token
	Object Expression
	Name   string
}

func (e *MemberExpr) GetToken() token.Token { return e.Token }
func (e *MemberExpr) expressionNode()       {}

// MethodCallExpr is `obj.name(args...)`.
type MethodCallExpr struct {
	Token  token.Token
	Object Expression
	Name   string
	Args   []Expression
}

func (e *MethodCallExpr) GetToken() token.Token { return e.Token }
func (e *MethodCallExpr) expressionNode()       {}

// CallExpr is a free call `name(args...)`.
type CallExpr struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (e *CallExpr) GetToken() token.Token { return e.Token }
func (e *CallExpr) expressionNode()       {}

// PipelineExpr is `a |> b`.
type PipelineExpr struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (e *PipelineExpr) GetToken() token.Token { return e.Token }
func (e *PipelineExpr) expressionNode()       {}

// LetExpr is `let name = value in body`.
type LetExpr struct {
	Token token.Token
	Name  string
	Value Expression
	Body  Expression
}

func (e *LetExpr) GetToken() token.Token { return e.Token }
func (e *LetExpr) expressionNode()       {}

// MatchArm is one `Constructor(binding) => body` arm of a MatchExpr.
type MatchArm struct {
	Token       token.Token
	Constructor string
	Binding     string
	Body        Expression
}

// MatchExpr is `scrutinee { arm, ... }`.
type MatchExpr struct {
	Token     token.Token
	Scrutinee Expression
	Arms      []MatchArm
}

func (e *MatchExpr) GetToken() token.Token { return e.Token }
func (e *MatchExpr) expressionNode()       {}
// A bare identifier that names a declared refinement type rather than
// a bound local parses as a plain Identifier: the grammar cannot tell
// the two apart without the type environment. Resolution to a type
// literal happens at type-check / eval
// time, not at parse time.
