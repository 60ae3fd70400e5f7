// Package ast defines the concrete syntax tree for minis source files.
package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes
type Node interface {
	String() string
	Position() Pos
}

// Pos represents a position in the source code
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Expr is the marker interface for expression nodes
type Expr interface {
	Node
	exprNode()
}

// Stmt is the marker interface for statement nodes
type Stmt interface {
	Node
	stmtNode()
}

// TypeChoice is the signature-position representation of either a single
// type or a variant. Concrete types are carried as their surface spelling
// ("int", "float", ...); class types are carried pre-mapped as "%Name*".
type TypeChoice struct {
	Single       string   // set when the position names one concrete type
	Variant      []string // set when the position is variant<...>
	Experimental bool     // true for !variant<...>
}

// IsVariant reports whether the choice is a variant position.
func (t TypeChoice) IsVariant() bool { return len(t.Variant) > 0 }

func (t TypeChoice) String() string {
	if t.IsVariant() {
		prefix := "variant"
		if t.Experimental {
			prefix = "!variant"
		}
		return fmt.Sprintf("%s<%s>", prefix, strings.Join(t.Variant, ", "))
	}
	return t.Single
}

// File represents a complete preprocessed minis source file
type File struct {
	Funcs   []*FuncDecl
	Classes []*ClassDecl
	Globals []*VarDeclStmt // top-level variable declarations
	Pos     Pos
}

func (f *File) String() string {
	parts := []string{}
	for _, g := range f.Globals {
		parts = append(parts, g.String())
	}
	for _, c := range f.Classes {
		parts = append(parts, c.String())
	}
	for _, fn := range f.Funcs {
		parts = append(parts, fn.String())
	}
	return strings.Join(parts, "\n")
}
func (f *File) Position() Pos { return f.Pos }

// Param is one typed parameter of a function or method
type Param struct {
	Type TypeChoice
	Name string
}

func (p Param) String() string { return fmt.Sprintf("%s %s", p.Type, p.Name) }

// FuncDecl represents a top-level function declaration
type FuncDecl struct {
	Ret    TypeChoice
	Name   string
	Params []Param
	Body   *Block
	Pos    Pos
}

func (f *FuncDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s %s(%s) %s", f.Ret, f.Name, strings.Join(params, ", "), f.Body)
}
func (f *FuncDecl) Position() Pos { return f.Pos }

// ClassDecl represents a class declaration with access sections
type ClassDecl struct {
	Name     string
	Sections []*AccessSection
	Pos      Pos
}

func (c *ClassDecl) String() string {
	parts := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		parts[i] = s.String()
	}
	return fmt.Sprintf("class %s { %s }", c.Name, strings.Join(parts, " "))
}
func (c *ClassDecl) Position() Pos { return c.Pos }

// AccessSection is one public/private member block inside a class.
// The modifier is parsed but does not affect emitted IR.
type AccessSection struct {
	Modifier string // "public" or "private"
	Fields   []*FieldDecl
	Methods  []*MethodDecl
	Pos      Pos
}

func (s *AccessSection) String() string {
	parts := []string{}
	for _, f := range s.Fields {
		parts = append(parts, f.String())
	}
	for _, m := range s.Methods {
		parts = append(parts, m.String())
	}
	return fmt.Sprintf("%s { %s }", s.Modifier, strings.Join(parts, " "))
}
func (s *AccessSection) Position() Pos { return s.Pos }

// FieldDecl is a class field
type FieldDecl struct {
	Type string
	Name string
	Pos  Pos
}

func (f *FieldDecl) String() string { return fmt.Sprintf("%s %s;", f.Type, f.Name) }
func (f *FieldDecl) Position() Pos  { return f.Pos }

// MethodDecl is a class method. Methods accept only concrete types.
type MethodDecl struct {
	Ret    string
	Name   string
	Params []Param
	Body   *Block
	Pos    Pos
}

func (m *MethodDecl) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s %s(%s) %s", m.Ret, m.Name, strings.Join(params, ", "), m.Body)
}
func (m *MethodDecl) Position() Pos { return m.Pos }

// Block is a braced statement sequence
type Block struct {
	Stmts []Stmt
	Pos   Pos
}

func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, " "))
}
func (b *Block) Position() Pos { return b.Pos }
func (b *Block) stmtNode()     {}

// ReturnStmt is `return [expr];`
type ReturnStmt struct {
	Value Expr // nil for bare return
	Pos   Pos
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}
func (r *ReturnStmt) Position() Pos { return r.Pos }
func (r *ReturnStmt) stmtNode()     {}

// Declarator is one name of a variable declaration, with optional initializer
type Declarator struct {
	Name string
	Init Expr // may be nil
	Pos  Pos
}

// VarDeclStmt is a typed variable declaration: `int a = 1, b;`
type VarDeclStmt struct {
	Type  string
	Decls []Declarator
	Pos   Pos
}

func (v *VarDeclStmt) String() string {
	parts := make([]string, len(v.Decls))
	for i, d := range v.Decls {
		if d.Init != nil {
			parts[i] = fmt.Sprintf("%s = %s", d.Name, d.Init)
		} else {
			parts[i] = d.Name
		}
	}
	return fmt.Sprintf("%s %s;", v.Type, strings.Join(parts, ", "))
}
func (v *VarDeclStmt) Position() Pos { return v.Pos }
func (v *VarDeclStmt) stmtNode()     {}

// AssignStmt is `name = expr;`
type AssignStmt struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (a *AssignStmt) String() string { return fmt.Sprintf("%s = %s;", a.Name, a.Value) }
func (a *AssignStmt) Position() Pos  { return a.Pos }
func (a *AssignStmt) stmtNode()      {}

// IfStmt is `if (cond) { ... } [else { ... }]`
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block // may be nil
	Pos  Pos
}

func (i *IfStmt) String() string {
	if i.Else != nil {
		return fmt.Sprintf("if (%s) %s else %s", i.Cond, i.Then, i.Else)
	}
	return fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
}
func (i *IfStmt) Position() Pos { return i.Pos }
func (i *IfStmt) stmtNode()     {}

// ExprStmt evaluates an expression for side effects
type ExprStmt struct {
	X   Expr
	Pos Pos
}

func (e *ExprStmt) String() string { return e.X.String() + ";" }
func (e *ExprStmt) Position() Pos  { return e.Pos }
func (e *ExprStmt) stmtNode()      {}

// IntLit is an integer literal of any radix. Text holds the digits without
// any radix prefix or sign.
type IntLit struct {
	Text     string
	Radix    int // 10, 16, or 2
	Negative bool
	Pos      Pos
}

func (l *IntLit) String() string {
	sign := ""
	if l.Negative {
		sign = "-"
	}
	switch l.Radix {
	case 16:
		return sign + "0x" + l.Text
	case 2:
		return sign + "0b" + l.Text
	}
	return sign + l.Text
}
func (l *IntLit) Position() Pos { return l.Pos }
func (l *IntLit) exprNode()     {}

// FloatLit is a 64-bit float literal
type FloatLit struct {
	Text     string
	Negative bool
	Pos      Pos
}

func (l *FloatLit) String() string {
	if l.Negative {
		return "-" + l.Text
	}
	return l.Text
}
func (l *FloatLit) Position() Pos { return l.Pos }
func (l *FloatLit) exprNode()     {}

// StringLit is a string literal; Value holds the unescaped bytes
type StringLit struct {
	Value string
	Pos   Pos
}

func (l *StringLit) String() string { return fmt.Sprintf("%q", l.Value) }
func (l *StringLit) Position() Pos  { return l.Pos }
func (l *StringLit) exprNode()      {}

// BoolLit is true/false
type BoolLit struct {
	Value bool
	Pos   Pos
}

func (l *BoolLit) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}
func (l *BoolLit) Position() Pos { return l.Pos }
func (l *BoolLit) exprNode()     {}

// TriboolLit is the tribool `unknown` literal (true/false parse as BoolLit)
type TriboolLit struct {
	Pos Pos
}

func (l *TriboolLit) String() string { return "unknown" }
func (l *TriboolLit) Position() Pos  { return l.Pos }
func (l *TriboolLit) exprNode()      {}

// Ident is a bare identifier reference
type Ident struct {
	Name string
	Pos  Pos
}

func (i *Ident) String() string { return i.Name }
func (i *Ident) Position() Pos  { return i.Pos }
func (i *Ident) exprNode()      {}

// CallExpr is an unqualified call `name(args...)`. Class instantiation
// `ClassName()` shares this form and is resolved during emission.
type CallExpr struct {
	Name string
	Args []Expr
	Pos  Pos
}

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}
func (c *CallExpr) Position() Pos { return c.Pos }
func (c *CallExpr) exprNode()     {}

// MethodCallExpr is `recv.name(args...)`
type MethodCallExpr struct {
	Recv Expr
	Name string
	Args []Expr
	Pos  Pos
}

func (m *MethodCallExpr) String() string {
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", m.Recv, m.Name, strings.Join(args, ", "))
}
func (m *MethodCallExpr) Position() Pos { return m.Pos }
func (m *MethodCallExpr) exprNode()     {}

// FieldExpr is `recv.name`
type FieldExpr struct {
	Recv Expr
	Name string
	Pos  Pos
}

func (f *FieldExpr) String() string { return fmt.Sprintf("%s.%s", f.Recv, f.Name) }
func (f *FieldExpr) Position() Pos  { return f.Pos }
func (f *FieldExpr) exprNode()      {}

// BinaryExpr is a binary operation
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }
func (b *BinaryExpr) Position() Pos  { return b.Pos }
func (b *BinaryExpr) exprNode()      {}

// UnaryExpr is a prefix operation (currently only numeric negation)
type UnaryExpr struct {
	Op  string
	X   Expr
	Pos Pos
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.X) }
func (u *UnaryExpr) Position() Pos  { return u.Pos }
func (u *UnaryExpr) exprNode()      {}

// CircuitArm is one `(cond) -> value` (or bare `-> value`) clause.
// Exactly one of Value and Body is set.
type CircuitArm struct {
	Cond  Expr   // nil for the default arm
	Value Expr   // expression arm body
	Body  *Block // block arm body
	Pos   Pos
}

func (a *CircuitArm) String() string {
	body := ""
	if a.Body != nil {
		body = a.Body.String()
	} else if a.Value != nil {
		body = a.Value.String()
	}
	if a.Cond == nil {
		return fmt.Sprintf("-> %s", body)
	}
	return fmt.Sprintf("(%s) -> %s", a.Cond, body)
}
func (a *CircuitArm) Position() Pos { return a.Pos }

// CircuitExpr is the multiway selection `{ (c1) -> v1; ... -> vN; }`
type CircuitExpr struct {
	Arms []*CircuitArm
	Pos  Pos
}

func (c *CircuitExpr) String() string {
	parts := make([]string, len(c.Arms))
	for i, a := range c.Arms {
		parts[i] = a.String() + ";"
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, " "))
}
func (c *CircuitExpr) Position() Pos { return c.Pos }
func (c *CircuitExpr) exprNode()     {}
