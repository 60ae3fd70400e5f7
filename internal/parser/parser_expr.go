package parser

import (
	"fmt"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/errors"
	"github.com/tokynblast/minis/internal/lexer"
)

// Precedence levels
const (
	LOWEST      int = iota
	LogicalOr       // ||
	LogicalAnd      // &&
	EQUALS          // ==, !=
	LESSGREATER     // >, <, >=, <=
	SUM             // +, -
	PRODUCT         // *, /, %
	PREFIX          // -x
	CALL            // f(x)
	DotAccess       // obj.field, obj.method() (highest)
)

// parseExpression is the Pratt entry point.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekToken.Precedence() {
		switch p.peekToken.Type {
		case lexer.DOT:
			p.nextToken()
			left = p.parseDotTail(left)
		case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
			lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
			lexer.AND, lexer.OR:
			p.nextToken()
			left = p.parseBinary(left)
		default:
			return left
		}
		if left == nil {
			return nil
		}
	}

	return left
}

// parsePrefix parses a primary expression or prefix operation.
func (p *Parser) parsePrefix() ast.Expr {
	switch p.curToken.Type {
	case lexer.INT:
		return &ast.IntLit{Text: p.curToken.Literal, Radix: 10, Pos: p.curPos()}
	case lexer.HEX:
		return &ast.IntLit{Text: p.curToken.Literal[2:], Radix: 16, Pos: p.curPos()}
	case lexer.BIN:
		return &ast.IntLit{Text: p.curToken.Literal[2:], Radix: 2, Pos: p.curPos()}
	case lexer.FLOAT:
		return &ast.FloatLit{Text: p.curToken.Literal, Pos: p.curPos()}
	case lexer.STRING:
		return &ast.StringLit{Value: p.curToken.Literal, Pos: p.curPos()}
	case lexer.TRUE:
		return &ast.BoolLit{Value: true, Pos: p.curPos()}
	case lexer.FALSE:
		return &ast.BoolLit{Value: false, Pos: p.curPos()}
	case lexer.UNKNOWN:
		return &ast.TriboolLit{Pos: p.curPos()}
	case lexer.IDENT:
		if p.peekTokenIs(lexer.LPAREN) {
			return p.parseCall()
		}
		return &ast.Ident{Name: p.curToken.Literal, Pos: p.curPos()}
	case lexer.MINUS:
		return p.parseNegation()
	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return expr
	case lexer.LBRACE:
		return p.parseCircuit()
	default:
		p.errors = append(p.errors, NewParseError(
			errors.PAR001, p.curPos(), p.curToken,
			fmt.Sprintf("unexpected token %q in expression", p.curToken.Literal)))
		return nil
	}
}

// parseNegation folds a '-' sign into a following numeric literal, and
// wraps anything else in a unary node.
func (p *Parser) parseNegation() ast.Expr {
	pos := p.curPos()
	p.nextToken()
	operand := p.parsePrefix()
	switch lit := operand.(type) {
	case *ast.IntLit:
		lit.Negative = !lit.Negative
		return lit
	case *ast.FloatLit:
		lit.Negative = !lit.Negative
		return lit
	case nil:
		return nil
	default:
		return &ast.UnaryExpr{Op: "-", X: operand, Pos: pos}
	}
}

// parseCall parses `name(args...)`. curToken is the name.
func (p *Parser) parseCall() ast.Expr {
	call := &ast.CallExpr{Name: p.curToken.Literal, Pos: p.curPos()}
	p.nextToken() // consume name; curToken is '('

	args, ok := p.parseExprList()
	if !ok {
		return nil
	}
	call.Args = args
	return call
}

// parseExprList parses `(e1, e2, ...)`. curToken is '('.
func (p *Parser) parseExprList() ([]ast.Expr, bool) {
	var args []ast.Expr

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	args = append(args, first)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return args, true
}

// parseDotTail parses a member or method tail. curToken is '.'.
func (p *Parser) parseDotTail(recv ast.Expr) ast.Expr {
	pos := p.curPos()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args, ok := p.parseExprList()
		if !ok {
			return nil
		}
		return &ast.MethodCallExpr{Recv: recv, Name: name, Args: args, Pos: pos}
	}

	return &ast.FieldExpr{Recv: recv, Name: name, Pos: pos}
}

// parseBinary parses the right side of a binary operation. curToken is
// the operator.
func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	expr := &ast.BinaryExpr{
		Op:   p.curToken.Literal,
		Left: left,
		Pos:  p.curPos(),
	}
	precedence := p.curToken.Precedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseCircuit parses `{ (c1) -> v1; (c2) -> v2; -> vN; }`.
// curToken is '{'.
func (p *Parser) parseCircuit() ast.Expr {
	circuit := &ast.CircuitExpr{Pos: p.curPos()}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		arm := p.parseCircuitArm()
		if arm == nil {
			return nil
		}
		circuit.Arms = append(circuit.Arms, arm)
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	if len(circuit.Arms) == 0 {
		p.errors = append(p.errors, NewParseError(
			errors.PAR005, circuit.Pos, p.curToken, "circuit expression has no arms"))
		return nil
	}
	return circuit
}

// parseCircuitArm parses `(cond) -> value;` or `-> value;`. curToken is
// the arm's first token.
func (p *Parser) parseCircuitArm() *ast.CircuitArm {
	arm := &ast.CircuitArm{Pos: p.curPos()}

	if p.curTokenIs(lexer.LPAREN) {
		p.nextToken()
		arm.Cond = p.parseExpression(LOWEST)
		if arm.Cond == nil {
			return nil
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		if !p.expectPeek(lexer.ARROW) {
			return nil
		}
	} else if p.curTokenIs(lexer.ARROW) {
		// default arm
	} else {
		p.errors = append(p.errors, NewParseError(
			errors.PAR005, p.curPos(), p.curToken,
			fmt.Sprintf("expected circuit arm, got %q", p.curToken.Literal)))
		return nil
	}

	p.nextToken()
	// A '{' after '->' opens a statement block; circuit arms do not nest
	// circuits directly.
	if p.curTokenIs(lexer.LBRACE) {
		arm.Body = p.parseBlock()
		if arm.Body == nil {
			return nil
		}
	} else {
		arm.Value = p.parseExpression(LOWEST)
		if arm.Value == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return arm
}
