package parser

import (
	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/lexer"
)

// parseBlock parses a braced statement sequence. curToken is '{'.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Pos: p.curPos()}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		if p.curTokenIs(lexer.SEMICOLON) {
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return block
}

// parseStatement parses one statement. curToken is its first token.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IDENT:
		// `type name ...` is a declaration; `name = ...` an assignment;
		// anything else is an expression statement.
		if p.peekTokenIs(lexer.IDENT) {
			return p.parseVarDeclStmt()
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			return p.parseAssignStmt()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseReturnStmt parses `return [expr];`. curToken is the return keyword.
func (p *Parser) parseReturnStmt() ast.Stmt {
	stmt := &ast.ReturnStmt{Pos: p.curPos()}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseIfStmt parses `if (cond) { ... } [else { ... }]`.
func (p *Parser) parseIfStmt() ast.Stmt {
	stmt := &ast.IfStmt{Pos: p.curPos()}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlock()
	if stmt.Then == nil {
		return nil
	}

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		stmt.Else = p.parseBlock()
		if stmt.Else == nil {
			return nil
		}
	}

	return stmt
}

// parseVarDeclStmt parses a typed local declaration. curToken is the type.
func (p *Parser) parseVarDeclStmt() ast.Stmt {
	pos := p.curPos()
	ty, ok := p.parseTypeName()
	if !ok {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl := p.parseVarDeclRest(ty, p.curToken.Literal, pos)
	if decl == nil {
		return nil
	}
	return decl
}

// parseAssignStmt parses `name = expr;`. curToken is the name.
func (p *Parser) parseAssignStmt() ast.Stmt {
	stmt := &ast.AssignStmt{Name: p.curToken.Literal, Pos: p.curPos()}

	p.nextToken() // consume '='
	p.nextToken() // move to expression start
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseExprStmt parses an expression evaluated for side effects.
func (p *Parser) parseExprStmt() ast.Stmt {
	stmt := &ast.ExprStmt{Pos: p.curPos()}
	stmt.X = p.parseExpression(LOWEST)
	if stmt.X == nil {
		return nil
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return stmt
}
