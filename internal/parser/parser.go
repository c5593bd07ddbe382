// Package parser implements a precedence-climbing parser with a
// single-token-lookahead cursor over a flat (block-free) grammar.
package parser

import (
	"fmt"

	"github.com/refine-lang/refine/internal/ast"
	"github.com/refine-lang/refine/internal/lexer"
	"github.com/refine-lang/refine/internal/token"
)

// Error is a fatal parse error: an expected token not found, an
// unknown declaration keyword, or a malformed match arm. FromLexer is
// set when the fault actually originated in tokenization (Parser.advance
// folds a lexer.Error into an Error so the parser has one failure path
// to check), letting a caller that cares recover the original Lexer
// kind instead of reporting it as a Parser error.
// The parser does not attempt to synchronize after one.
type Error struct {
	Message   string
	Pos       token.Position
	FromLexer bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser error at %s: %s", e.Pos, e.Message)
}

// Precedence levels, lowest to highest. Modulo is lifted to
// multiplicative precedence. Unary operators bind looser than postfix
// member access and calls: `-x.length` parses as `-(x.length)`.
const (
	_ int = iota
	lowest
	precPipeline
	precOr
	precAnd
	precCompare
	precAdditive
	precMultiplicative
)

var precedences = map[token.Type]int{
	token.PIPE:     precPipeline,
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precCompare,
	token.NOT_EQ:   precCompare,
	token.LT:       precCompare,
	token.GT:       precCompare,
	token.LTE:      precCompare,
	token.GTE:      precCompare,
	token.CONTAINS: precCompare,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.ASTERISK: precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
}

// Parser turns a token stream into a Program. It never backtracks.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
	err  *Error // first fatal error encountered, if any
}

// New creates a Parser over l and primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Err returns the fatal parse error, if parsing stopped early.
func (p *Parser) Err() *Error { return p.err }

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.cur = p.peek
	t, lexErr := p.l.NextToken()
	if lexErr != nil {
		p.err = &Error{Message: lexErr.Message, Pos: lexErr.Pos, FromLexer: true}
		return
	}
	p.peek = t
}

func (p *Parser) fail(msg string) {
	if p.err == nil {
		p.err = &Error{Message: msg, Pos: p.cur.Pos}
	}
}

func (p *Parser) expect(t token.Type) token.Token {
	cur := p.cur
	if cur.Type != t {
		p.fail(fmt.Sprintf("expected %s, got %s", t, cur.Type))
		return cur
	}
	p.advance()
	return cur
}

// ParseProgram parses a full source file into a Program. Check Err()
// afterward; a non-nil error means the returned Program is a partial,
// unusable fragment.
func ParseProgram(l *lexer.Lexer) (*ast.Program, *Error) {
	p := New(l)
	prog := &ast.Program{}
	for p.err == nil && p.cur.Type != token.EOF {
		decl := p.parseDeclaration()
		if p.err != nil {
			return prog, p.err
		}
		prog.Declarations = append(prog.Declarations, decl)
	}
	if p.err != nil {
		return prog, p.err
	}
	return prog, nil
}

func (p *Parser) parseDeclaration() ast.Declaration {
	switch p.cur.Type {
	case token.VALUE:
		return p.parseValueDecl()
	case token.FN, token.METHOD:
		return p.parseFunctionDecl()
	default:
		p.fail(fmt.Sprintf("expected a declaration ('value', 'fn', or 'method'), got %s", p.cur.Type))
		return nil
	}
}

func (p *Parser) parseValueDecl() *ast.ValueDecl {
	startTok := p.cur
	p.advance() // 'value'
	name := p.expect(token.IDENT).Lexeme

	p.expect(token.LPAREN)
	param := p.parseParam(false)
	p.expect(token.RPAREN)

	decl := &ast.ValueDecl{Token: startTok, Name: name, Param: param}

	p.expect(token.LBRACE)
	seen := map[string]bool{}
	for p.cur.Type != token.RBRACE {
		if p.err != nil {
			return decl
		}
		switch p.cur.Type {
		case token.VALIDATE:
			if seen["validate"] {
				p.fail("'validate' clause repeated")
				return decl
			}
			seen["validate"] = true
			p.advance()
			p.expect(token.COLON)
			decl.Validate = p.parseExpression(lowest)
		case token.NORMALIZE:
			if seen["normalize"] {
				p.fail("'normalize' clause repeated")
				return decl
			}
			seen["normalize"] = true
			p.advance()
			p.expect(token.COLON)
			decl.Normalize = p.parseExpression(lowest)
		case token.UNIQUE:
			if seen["unique"] {
				p.fail("'unique' clause repeated")
				return decl
			}
			seen["unique"] = true
			p.advance()
			p.expect(token.COLON)
			decl.Unique = p.parseBoolLiteral()
		default:
			p.fail(fmt.Sprintf("expected 'validate', 'normalize', or 'unique', got %s", p.cur.Type))
			return decl
		}
		if p.cur.Type == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseBoolLiteral() bool {
	switch p.cur.Type {
	case token.TRUE:
		p.advance()
		return true
	case token.FALSE:
		p.advance()
		return false
	default:
		p.fail(fmt.Sprintf("expected 'true' or 'false', got %s", p.cur.Type))
		return false
	}
}

func (p *Parser) parseParam(allowGuard bool) ast.Param {
	tok := p.cur
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.COLON)
	typ := p.parseTypeExpr()
	param := ast.Param{Token: tok, Name: name, Type: typ}
	if allowGuard && p.cur.Type == token.WHERE {
		p.advance()
		param.Guard = p.parseExpression(lowest)
	}
	return param
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	tok := p.cur
	name := p.expect(token.IDENT).Lexeme
	return ast.TypeExpr{Token: tok, Name: name}
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	startTok := p.cur
	isMethod := p.cur.Type == token.METHOD
	p.advance() // 'fn' / 'method'
	name := p.expect(token.IDENT).Lexeme

	p.expect(token.LPAREN)
	var params []ast.Param
	for p.cur.Type != token.RPAREN {
		if p.err != nil {
			return nil
		}
		params = append(params, p.parseParam(true))
		if p.cur.Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.ARROW)
	ret := p.parseTypeExpr()
	p.expect(token.LBRACE)
	body := p.parseExpression(lowest)
	p.expect(token.RBRACE)

	return &ast.FunctionDecl{
		Token: startTok, Name: name, IsMethod: isMethod,
		Params: params, ReturnType: ret, Body: body,
	}
}

// --- Expressions --------------------------------------------------------

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	for p.err == nil {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec < minPrec {
			break
		}
		left = p.parseBinaryRHS(left, prec)
	}
	return left
}

func (p *Parser) parseBinaryRHS(left ast.Expression, prec int) ast.Expression {
	opTok := p.cur
	p.advance()
	// All binary levels parse left-to-right (the comparison chain is
	// non-associative in the static semantics, but the grammar itself
	// just climbs precedence uniformly).
	right := p.parseExpression(prec + 1)

	switch opTok.Type {
	case token.PIPE:
		return &ast.PipelineExpr{Token: opTok, Left: left, Right: right}
	case token.OR:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpOr, Left: left, Right: right}
	case token.AND:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpAnd, Left: left, Right: right}
	case token.EQ:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpEq, Left: left, Right: right}
	case token.NOT_EQ:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpNe, Left: left, Right: right}
	case token.LT:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpLt, Left: left, Right: right}
	case token.GT:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpGt, Left: left, Right: right}
	case token.LTE:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpLe, Left: left, Right: right}
	case token.GTE:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpGe, Left: left, Right: right}
	case token.CONTAINS:
		return &ast.CompareExpr{Token: opTok, Op: ast.CmpContains, Left: left, Right: right}
	case token.PLUS:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpAdd, Left: left, Right: right}
	case token.MINUS:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpSub, Left: left, Right: right}
	case token.ASTERISK:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpMul, Left: left, Right: right}
	case token.SLASH:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpDiv, Left: left, Right: right}
	case token.PERCENT:
		return &ast.BinaryExpr{Token: opTok, Op: ast.OpMod, Left: left, Right: right}
	default:
		p.fail(fmt.Sprintf("unexpected binary operator %s", opTok.Type))
		return left
	}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Type {
	case token.NOT:
		tok := p.cur
		p.advance()
		return &ast.UnaryExpr{Token: tok, Op: ast.OpNot, Operand: p.parseUnary()}
	case token.MINUS:
		tok := p.cur
		p.advance()
		return &ast.UnaryExpr{Token: tok, Op: ast.OpNeg, Operand: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for p.err == nil && p.cur.Type == token.DOT {
		dotTok := p.cur
		p.advance()
		name := p.expect(token.IDENT).Lexeme
		if p.cur.Type == token.LPAREN {
			args := p.parseArgs()
			expr = &ast.MethodCallExpr{Token: dotTok, Object: expr, Name: name, Args: args}
		} else {
			expr = &ast.MemberExpr{Token: dotTok, Object: expr, Name: name}
		}
	}
	return expr
}

func (p *Parser) parseArgs() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for p.cur.Type != token.RPAREN {
		if p.err != nil {
			return args
		}
		args = append(args, p.parseExpression(lowest))
		if p.cur.Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Type {
	case token.INT:
		tok := p.cur
		var v int64
		fmt.Sscanf(tok.Lexeme, "%d", &v)
		p.advance()
		return &ast.IntegerLiteral{Token: tok, Value: v}

	case token.STRING:
		tok := p.cur
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}

	case token.TRUE:
		tok := p.cur
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: true}

	case token.FALSE:
		tok := p.cur
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: false}

	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(lowest)
		p.expect(token.RPAREN)
		return expr

	case token.LET:
		return p.parseLet()

	case token.MATCH:
		return p.parseMatch()

	case token.IDENT:
		tok := p.cur
		p.advance()
		if p.cur.Type == token.LPAREN {
			args := p.parseArgs()
			return &ast.CallExpr{Token: tok, Name: tok.Lexeme, Args: args}
		}
		return &ast.Identifier{Token: tok, Name: tok.Lexeme}

	default:
		p.fail(fmt.Sprintf("unexpected token %s in expression", p.cur.Type))
		return nil
	}
}

func (p *Parser) parseLet() ast.Expression {
	tok := p.cur
	p.advance() // 'let'
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.ASSIGN)
	value := p.parseExpression(lowest)
	p.expect(token.IN)
	body := p.parseExpression(lowest)
	return &ast.LetExpr{Token: tok, Name: name, Value: value, Body: body}
}

func (p *Parser) parseMatch() ast.Expression {
	tok := p.cur
	p.advance() // 'match'
	scrutinee := p.parseExpression(lowest)
	p.expect(token.LBRACE)

	var arms []ast.MatchArm
	for p.cur.Type != token.RBRACE {
		if p.err != nil {
			return &ast.MatchExpr{Token: tok, Scrutinee: scrutinee, Arms: arms}
		}
		armTok := p.cur
		ctorName := p.expect(token.IDENT).Lexeme
		p.expect(token.LPAREN)
		binding := p.expect(token.IDENT).Lexeme
		p.expect(token.RPAREN)
		p.expect(token.IMPLY)
		body := p.parseExpression(lowest)
		arms = append(arms, ast.MatchArm{Token: armTok, Constructor: ctorName, Binding: binding, Body: body})
		if p.cur.Type == token.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpr{Token: tok, Scrutinee: scrutinee, Arms: arms}
}

// ParseExpression parses a single standalone expression (not wrapped
// in a declaration), followed by EOF. This backs the driver's
// `evaluate(expr, registry)` entry point for callers that
// want to run one probe expression rather than a whole program.
func ParseExpression(l *lexer.Lexer) (ast.Expression, *Error) {
	p := New(l)
	expr := p.parseExpression(lowest)
	if p.err != nil {
		return nil, p.err
	}
	p.expect(token.EOF)
	if p.err != nil {
		return nil, p.err
	}
	return expr, nil
}
