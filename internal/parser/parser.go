// Package parser turns preprocessed minis source into a syntax tree.
package parser

import (
	"fmt"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/errors"
	"github.com/tokynblast/minis/internal/lexer"
)

// ParseError is a structured parser error
type ParseError struct {
	Code      string
	Message   string
	Pos       ast.Pos
	NearToken lexer.Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
}

// NewParseError creates a structured parser error
func NewParseError(code string, pos ast.Pos, nearToken lexer.Token, message string) *ParseError {
	return &ParseError{
		Code:      code,
		Message:   message,
		Pos:       pos,
		NearToken: nearToken,
	}
}

// baseTypes is the set of surface type names that are not class references.
var baseTypes = map[string]bool{
	"i8": true, "u8": true, "ui8": true,
	"i16": true, "u16": true, "ui16": true,
	"i32": true, "u32": true, "ui32": true,
	"i64": true, "u64": true, "ui64": true,
	"int": true, "float": true, "bool": true, "tribool": true,
	"str": true, "list": true, "dict": true,
	"void": true,
}

// IsBaseType reports whether name is a built-in surface type.
func IsBaseType(name string) bool { return baseTypes[name] }

// Parser parses minis source code into an AST
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []error
}

// New creates a new Parser
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []error{},
	}

	// Read two tokens to set curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns parser errors
func (p *Parser) Errors() []error {
	return p.errors
}

// ParseFile parses a complete preprocessed source file
func (p *Parser) ParseFile() (file *ast.File) {
	// Convert panics to parser errors so one bad construct cannot take
	// down diagnostics for the rest of the file.
	defer func() {
		if r := recover(); r != nil {
			var msg string
			if err, ok := r.(error); ok {
				msg = err.Error()
			} else {
				msg = fmt.Sprintf("%v", r)
			}
			p.errors = append(p.errors, NewParseError(
				errors.PAR999,
				p.curPos(),
				p.curToken,
				fmt.Sprintf("parser panic: %s", msg)))
			if file == nil {
				file = &ast.File{}
			}
		}
	}()

	file = &ast.File{
		Pos: p.curPos(),
	}

	for !p.curTokenIs(lexer.EOF) {
		before := len(p.errors)
		switch {
		case p.curTokenIs(lexer.CLASS):
			if c := p.parseClassDecl(); c != nil {
				file.Classes = append(file.Classes, c)
			}
		case p.curTokenIs(lexer.SEMICOLON):
			// Stray terminator, skip
		default:
			p.parseTopDecl(file)
		}

		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		p.nextToken()
	}

	return file
}

// parseTopDecl parses a top-level function or variable declaration.
// Both start with a type position, so the decision is made after the name.
func (p *Parser) parseTopDecl(file *ast.File) {
	pos := p.curPos()
	ret, ok := p.parseTypeChoice()
	if !ok {
		return
	}

	if !p.expectPeek(lexer.IDENT) {
		return
	}
	name := p.curToken.Literal

	if p.peekTokenIs(lexer.LPAREN) {
		if fn := p.parseFuncRest(ret, name, pos); fn != nil {
			file.Funcs = append(file.Funcs, fn)
		}
		return
	}

	if ret.IsVariant() {
		p.errors = append(p.errors, NewParseError(
			errors.PAR001, pos, p.curToken,
			"variant types are only valid in function signatures"))
		return
	}
	if g := p.parseVarDeclRest(ret.Single, name, pos); g != nil {
		file.Globals = append(file.Globals, g)
	}
}

// synchronize skips tokens after a parse error until the next ';' at
// nesting depth zero or the '}' closing the current construct, so the
// remainder of the file can still be diagnosed.
func (p *Parser) synchronize() {
	depth := 0
	for !p.curTokenIs(lexer.EOF) {
		switch p.curToken.Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			if depth <= 1 {
				p.nextToken()
				return
			}
			depth--
		case lexer.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// parseTypeChoice parses a signature type position: a base type, a class
// name, variant<...>, or !variant<...>.
func (p *Parser) parseTypeChoice() (ast.TypeChoice, bool) {
	experimental := false
	if p.curTokenIs(lexer.BANG) && p.peekTokenIs(lexer.VARIANT) {
		experimental = true
		p.nextToken()
	}

	if p.curTokenIs(lexer.VARIANT) {
		types := p.parseVariantList()
		if types == nil {
			return ast.TypeChoice{}, false
		}
		return ast.TypeChoice{Variant: types, Experimental: experimental}, true
	}

	name, ok := p.parseTypeName()
	if !ok {
		return ast.TypeChoice{}, false
	}
	return ast.TypeChoice{Single: name}, true
}

// parseVariantList parses `<T1, T2, ...>` after a variant keyword.
func (p *Parser) parseVariantList() []string {
	if !p.expectPeek(lexer.LT) {
		return nil
	}

	var types []string
	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name := p.curToken.Literal
		if !baseTypes[name] {
			name = "%" + name + "*"
		}
		types = append(types, name)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(lexer.GT) {
		return nil
	}
	if len(types) == 0 {
		p.errors = append(p.errors, NewParseError(
			errors.PAR001, p.curPos(), p.curToken, "empty variant type list"))
		return nil
	}
	return types
}

// parseTypeName parses a concrete type position. Class names map to their
// IR spelling "%Name*" immediately.
func (p *Parser) parseTypeName() (string, bool) {
	if !p.curTokenIs(lexer.IDENT) {
		p.errors = append(p.errors, NewParseError(
			errors.PAR001, p.curPos(), p.curToken,
			fmt.Sprintf("expected type name, got %q", p.curToken.Literal)))
		return "", false
	}
	name := p.curToken.Literal
	if !baseTypes[name] {
		name = "%" + name + "*"
	}
	return name, true
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errors = append(p.errors, NewParseError(
		errors.PAR001,
		ast.Pos{Line: p.peekToken.Line, Column: p.peekToken.Column, File: p.peekToken.File},
		p.peekToken,
		fmt.Sprintf("expected %s, got %q", t, p.peekToken.Literal)))
}

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{
		Line:   p.curToken.Line,
		Column: p.curToken.Column,
		File:   p.curToken.File,
	}
}
