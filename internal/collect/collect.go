// Package collect implements the module-wide collection pass: a single
// walk over the syntax tree that interns classes, function templates, and
// global variables into the tables the later passes consume.
package collect

import (
	"github.com/tokynblast/minis/internal/ast"
)

// ClassField is one field of a class, in declaration order. Order
// determines struct layout and field index.
type ClassField struct {
	Type string // surface type, class types as "%Name*"
	Name string
}

// Param is one concrete parameter of a method or function instance.
type Param struct {
	Type string
	Name string
}

// ClassMethod is one method of a class. Methods accept only concrete
// types; a variant in a method signature falls back to i64.
type ClassMethod struct {
	Ret    string
	Name   string
	Params []Param
	Body   *ast.Block
}

// ClassDef is one interned class.
type ClassDef struct {
	Name    string
	Fields  []ClassField
	Methods []ClassMethod
}

// FieldIndex returns the layout index of a field, or -1.
func (c *ClassDef) FieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Method returns the named method, or nil.
func (c *ClassDef) Method(name string) *ClassMethod {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// FuncTemplate is one top-level function before monomorphization.
type FuncTemplate struct {
	Name       string
	Ret        ast.TypeChoice
	Params     []ast.Param
	HasVariant bool
	Body       *ast.Block
}

// GlobalVar is one module global with a folded constant initializer.
type GlobalVar struct {
	Name string
	Type string // IR type
	Init string
}

// Module holds everything the collection pass interned. It owns the
// one-shot variant warning latch so compilations stay isolated from each
// other in tests.
type Module struct {
	Templates  []*FuncTemplate
	Classes    map[string]*ClassDef
	ClassOrder []string // declaration order, drives deterministic output
	Globals    []GlobalVar
	GlobalMap  map[string]string // name -> IR type

	variantWarned bool
}

// NewModule creates an empty module table set.
func NewModule() *Module {
	return &Module{
		Classes:   map[string]*ClassDef{},
		GlobalMap: map[string]string{},
	}
}

// Collect walks the parsed file and fills the module tables. Global
// initializer folding is the only fallible step.
func Collect(file *ast.File) (*Module, error) {
	m := NewModule()

	for _, c := range file.Classes {
		m.addClass(c)
	}
	for _, f := range file.Funcs {
		m.addTemplate(f)
	}
	for _, g := range file.Globals {
		if err := m.addGlobals(g); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// HasMain reports whether a function named main was collected.
func (m *Module) HasMain() bool {
	for _, t := range m.Templates {
		if t.Name == "main" {
			return true
		}
	}
	return false
}

// GlobalType returns the IR type of a declared global, if any.
func (m *Module) GlobalType(name string) (string, bool) {
	ty, ok := m.GlobalMap[name]
	return ty, ok
}

// WarnVariantOnce reports whether the non-experimental variant warning
// should fire; it latches after the first call.
func (m *Module) WarnVariantOnce() bool {
	if m.variantWarned {
		return false
	}
	m.variantWarned = true
	return true
}

// addClass interns one class declaration, flattening access sections.
// Fields keep textual order across sections; the access modifier has no
// effect on IR.
func (m *Module) addClass(decl *ast.ClassDecl) {
	def := &ClassDef{Name: decl.Name}

	for _, section := range decl.Sections {
		for _, f := range section.Fields {
			def.Fields = append(def.Fields, ClassField{Type: f.Type, Name: f.Name})
		}
		for _, meth := range section.Methods {
			cm := ClassMethod{
				Ret:  meth.Ret,
				Name: meth.Name,
				Body: meth.Body,
			}
			for _, p := range meth.Params {
				ty := p.Type.Single
				if p.Type.IsVariant() {
					ty = "i64"
				}
				cm.Params = append(cm.Params, Param{Type: ty, Name: p.Name})
			}
			def.Methods = append(def.Methods, cm)
		}
	}

	if _, seen := m.Classes[decl.Name]; !seen {
		m.ClassOrder = append(m.ClassOrder, decl.Name)
	}
	m.Classes[decl.Name] = def
}

// addTemplate interns one top-level function.
func (m *Module) addTemplate(decl *ast.FuncDecl) {
	hasVariant := decl.Ret.IsVariant()
	for _, p := range decl.Params {
		if p.Type.IsVariant() {
			hasVariant = true
		}
	}

	m.Templates = append(m.Templates, &FuncTemplate{
		Name:       decl.Name,
		Ret:        decl.Ret,
		Params:     decl.Params,
		HasVariant: hasVariant,
		Body:       decl.Body,
	})
}
