package parser

import (
	"fmt"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/errors"
	"github.com/tokynblast/minis/internal/lexer"
)

// parseFuncRest parses the remainder of a function declaration after the
// return type and name have been consumed. curToken is the name.
func (p *Parser) parseFuncRest(ret ast.TypeChoice, name string, pos ast.Pos) *ast.FuncDecl {
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	params, ok := p.parseParamList()
	if !ok {
		return nil
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.FuncDecl{
		Ret:    ret,
		Name:   name,
		Params: params,
		Body:   body,
		Pos:    pos,
	}
}

// parseParamList parses `(type name, ...)`. curToken is '('.
func (p *Parser) parseParamList() ([]ast.Param, bool) {
	var params []ast.Param

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		p.nextToken()
		ty, ok := p.parseTypeChoice()
		if !ok {
			return nil, false
		}
		if !p.expectPeek(lexer.IDENT) {
			return nil, false
		}
		params = append(params, ast.Param{Type: ty, Name: p.curToken.Literal})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseClassDecl parses `class Name { public { ... } private { ... } }`.
// curToken is the class keyword.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	pos := p.curPos()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	decl := &ast.ClassDecl{Name: name, Pos: pos}

	for p.peekTokenIs(lexer.PUBLIC) || p.peekTokenIs(lexer.PRIVATE) {
		p.nextToken()
		section := p.parseAccessSection()
		if section == nil {
			return nil
		}
		decl.Sections = append(decl.Sections, section)
	}

	if !p.expectPeek(lexer.RBRACE) {
		p.errors[len(p.errors)-1] = NewParseError(
			errors.PAR004, pos, p.curToken,
			fmt.Sprintf("class %s: expected access section or '}'", name))
		return nil
	}

	return decl
}

// parseAccessSection parses `public { members }`. curToken is the modifier.
func (p *Parser) parseAccessSection() *ast.AccessSection {
	section := &ast.AccessSection{
		Modifier: p.curToken.Literal,
		Pos:      p.curPos(),
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		if !p.parseClassMember(section) {
			return nil
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return section
}

// parseClassMember parses one field or method. Both start `type name`;
// a following '(' makes it a method. curToken is the member's type.
func (p *Parser) parseClassMember(section *ast.AccessSection) bool {
	pos := p.curPos()
	ty, ok := p.parseTypeName()
	if !ok {
		return false
	}
	if !p.expectPeek(lexer.IDENT) {
		return false
	}
	name := p.curToken.Literal

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		params, ok := p.parseParamList()
		if !ok {
			return false
		}
		if !p.expectPeek(lexer.LBRACE) {
			return false
		}
		body := p.parseBlock()
		if body == nil {
			return false
		}
		section.Methods = append(section.Methods, &ast.MethodDecl{
			Ret:    ty,
			Name:   name,
			Params: params,
			Body:   body,
			Pos:    pos,
		})
		return true
	}

	if !p.expectPeek(lexer.SEMICOLON) {
		return false
	}
	section.Fields = append(section.Fields, &ast.FieldDecl{
		Type: ty,
		Name: name,
		Pos:  pos,
	})
	return true
}

// parseVarDeclRest parses the remainder of a variable declaration after
// the type and first name. curToken is the first name.
func (p *Parser) parseVarDeclRest(typeName, firstName string, pos ast.Pos) *ast.VarDeclStmt {
	decl := &ast.VarDeclStmt{Type: typeName, Pos: pos}

	name := firstName
	for {
		d := ast.Declarator{Name: name, Pos: p.curPos()}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken() // consume '='
			p.nextToken() // move to expression start
			d.Init = p.parseExpression(LOWEST)
			if d.Init == nil {
				return nil
			}
		}
		decl.Decls = append(decl.Decls, d)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			name = p.curToken.Literal
			continue
		}
		break
	}

	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return decl
}
