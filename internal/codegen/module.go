// Package codegen walks collected and monomorphized minis modules and
// renders a textual LLVM IR module.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/types"
)

// StringConst is one interned string literal.
type StringConst struct {
	Name  string // symbol without '@'
	Value string // escaped bytes, includes trailing \00
	Len   int    // byte length including NUL
}

// ModuleContext owns all module-level emission state: interned strings,
// extern declarations, the defined-function set used for extern pruning,
// and the collected class and global tables.
type ModuleContext struct {
	Tables *collect.Module

	strings   []StringConst
	stringMap map[string]string // text -> symbol
	externs   map[string]bool   // full declaration lines
	defined   map[string]bool   // function names defined in this module
}

// NewModuleContext creates emission state over the collected tables.
func NewModuleContext(tables *collect.Module) *ModuleContext {
	return &ModuleContext{
		Tables:    tables,
		stringMap: map[string]string{},
		externs:   map[string]bool{},
		defined:   map[string]bool{},
	}
}

// MangleMethodName builds the symbol for a lowered class method.
func MangleMethodName(className, methodName string) string {
	return className + "_" + methodName
}

// MarkDefined records a function name as defined in this module.
func (m *ModuleContext) MarkDefined(name string) {
	m.defined[name] = true
}

// IsDefined reports whether name is defined in this module.
func (m *ModuleContext) IsDefined(name string) bool {
	return m.defined[name]
}

// AddExtern records an external declaration line. Declarations are unique
// by textual form.
func (m *ModuleContext) AddExtern(decl string) {
	m.externs[decl] = true
}

// StringPtr interns text and returns the pointer expression casting the
// private constant array to a byte pointer. Identical bytes return the
// existing symbol.
func (m *ModuleContext) StringPtr(text string) string {
	if name, ok := m.stringMap[text]; ok {
		return gepForString(name, len(text)+1)
	}

	escaped, length := escapeLLVMString(text)
	name := fmt.Sprintf(".str%d", len(m.strings))
	m.strings = append(m.strings, StringConst{Name: name, Value: escaped, Len: length})
	m.stringMap[text] = name
	return gepForString(name, length)
}

// RenderStructs renders one named-type declaration per class, in
// declaration order, fields mapped through the type table.
func (m *ModuleContext) RenderStructs() []string {
	var structs []string
	for _, className := range m.Tables.ClassOrder {
		classDef := m.Tables.Classes[className]
		fieldTypes := make([]string, len(classDef.Fields))
		for i, f := range classDef.Fields {
			fieldTypes[i] = types.LLVMType(f.Type)
		}
		structs = append(structs, fmt.Sprintf("%%%s = type { %s }", className, strings.Join(fieldTypes, ", ")))
	}
	return structs
}

// RenderGlobals renders string constants first (in first-referenced
// order), then variable globals (in declaration order).
func (m *ModuleContext) RenderGlobals() []string {
	var out []string
	for _, s := range m.strings {
		out = append(out, fmt.Sprintf("@%s = private unnamed_addr constant [%d x i8] c\"%s\"", s.Name, s.Len, s.Value))
	}
	for _, g := range m.Tables.Globals {
		out = append(out, fmt.Sprintf("@%s = global %s %s", g.Name, g.Type, g.Init))
	}
	return out
}

// RenderExterns renders the extern declarations alphabetically, dropping
// any declaration whose name is defined in this module.
func (m *ModuleContext) RenderExterns() []string {
	var decls []string
	for decl := range m.externs {
		if name, ok := externDeclName(decl); ok && m.defined[name] {
			continue
		}
		decls = append(decls, decl)
	}
	sort.Strings(decls)
	return decls
}

// externDeclName extracts the symbol name from a declaration line like
// `declare i64 @foo(...)`.
func externDeclName(decl string) (string, bool) {
	at := strings.IndexByte(decl, '@')
	if at < 0 {
		return "", false
	}
	rest := decl[at+1:]
	end := strings.IndexByte(rest, '(')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// escapeLLVMString escapes text for an LLVM c"..." constant and appends
// the NUL terminator. Returns the escaped text and the byte length
// including NUL.
func escapeLLVMString(s string) (string, int) {
	var escaped strings.Builder
	for _, b := range []byte(s) {
		switch {
		case b == '"':
			escaped.WriteString("\\22")
		case b == '\\':
			escaped.WriteString("\\5C")
		case b == '\n':
			escaped.WriteString("\\0A")
		case b == '\t':
			escaped.WriteString("\\09")
		case b == '\r':
			escaped.WriteString("\\0D")
		case b >= 32 && b <= 126:
			escaped.WriteByte(b)
		default:
			escaped.WriteString(fmt.Sprintf("\\%02X", b))
		}
	}
	escaped.WriteString("\\00")
	return escaped.String(), len(s) + 1
}

// gepForString renders the byte-pointer view of an interned constant.
func gepForString(global string, length int) string {
	return fmt.Sprintf("bitcast ([%d x i8]* @%s to i8*)", length, global)
}
