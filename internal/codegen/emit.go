package codegen

import (
	"fmt"
	"strings"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/mono"
	"github.com/tokynblast/minis/internal/types"
)

// emitter carries the module context through one emission run.
type emitter struct {
	module *ModuleContext
}

// EmitModule serializes the whole module: preamble, named-type
// declarations, globals (string constants then variable globals), externs
// (alphabetic), and function definitions in source order. Two runs on
// identical input yield byte-identical IR.
func EmitModule(tables *collect.Module, instances []*mono.FuncInstance, sourceName, targetTriple string) string {
	module := NewModuleContext(tables)
	g := &emitter{module: module}

	// The defined-function set must be complete before any call site is
	// emitted so extern pruning sees every definition.
	for _, inst := range instances {
		module.MarkDefined(inst.Name)
	}
	for _, className := range tables.ClassOrder {
		for _, method := range tables.Classes[className].Methods {
			module.MarkDefined(MangleMethodName(className, method.Name))
		}
	}

	var functions []string
	for _, inst := range instances {
		functions = append(functions, g.emitFunction(inst))
	}
	for _, className := range tables.ClassOrder {
		classDef := tables.Classes[className]
		for i := range classDef.Methods {
			functions = append(functions, g.emitMethod(classDef, &classDef.Methods[i]))
		}
	}

	var out strings.Builder
	out.WriteString("; ModuleID = 'minis'\n")
	out.WriteString(fmt.Sprintf("source_filename = \"%s\"\n", sourceName))
	out.WriteString(fmt.Sprintf("target triple = \"%s\"\n\n", targetTriple))

	structs := module.RenderStructs()
	for _, s := range structs {
		out.WriteString(s)
		out.WriteByte('\n')
	}
	if len(structs) > 0 {
		out.WriteByte('\n')
	}

	globals := module.RenderGlobals()
	for _, line := range globals {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if len(globals) > 0 {
		out.WriteByte('\n')
	}

	externs := module.RenderExterns()
	for _, decl := range externs {
		out.WriteString(decl)
		out.WriteByte('\n')
	}
	if len(externs) > 0 {
		out.WriteByte('\n')
	}

	for i, fn := range functions {
		out.WriteString(fn)
		if i+1 < len(functions) {
			out.WriteByte('\n')
		}
	}

	return out.String()
}

// emitFunction emits one concrete function instance.
func (g *emitter) emitFunction(inst *mono.FuncInstance) string {
	selfName := ""
	if inst.ClassName != "" {
		selfName = "__self"
	}
	return g.emitFunctionBody(inst.Name, inst.Ret, inst.Params, inst.Body, inst.ClassName, selfName)
}

// emitMethod lowers one class method: the symbol is mangled as
// ClassName_MethodName and a leading self parameter typed as
// pointer-to-struct is inserted.
func (g *emitter) emitMethod(classDef *collect.ClassDef, method *collect.ClassMethod) string {
	params := make([]collect.Param, 0, len(method.Params)+1)
	params = append(params, collect.Param{Type: "%" + classDef.Name + "*", Name: "__self"})
	params = append(params, method.Params...)

	inst := &mono.FuncInstance{
		Name:      MangleMethodName(classDef.Name, method.Name),
		Ret:       method.Ret,
		Params:    params,
		Body:      method.Body,
		ClassName: classDef.Name,
	}
	return g.emitFunction(inst)
}

// emitFunctionBody is the shared emission path for functions and lowered
// methods: an implicit entry block with a stack slot per parameter, the
// statement walk, and a default return when control falls off the end.
func (g *emitter) emitFunctionBody(name, ret string, params []collect.Param, body *ast.Block, className, selfName string) string {
	retTy := types.LLVMType(ret)

	paramDecls := make([]string, len(params))
	for i, p := range params {
		paramDecls[i] = fmt.Sprintf("%s %%%s", types.LLVMType(p.Type), p.Name)
	}

	f := newFunctionContext(retTy, className, selfName)
	for _, p := range params {
		llvmTy := types.LLVMType(p.Type)
		s := f.newTemp()
		f.emit(fmt.Sprintf("%s = alloca %s", s, llvmTy))
		f.emit(fmt.Sprintf("store %s %%%s, %s* %s", llvmTy, p.Name, llvmTy, s))
		f.locals[p.Name] = slot{Ty: llvmTy, Slot: s}
	}

	terminated := false
	if body != nil {
		terminated = g.emitBlock(f, body.Stmts)
	}

	if !terminated {
		f.emit(types.DefaultReturn(retTy))
	}

	var bodyText strings.Builder
	for _, line := range f.lines {
		if strings.HasSuffix(line, ":") {
			bodyText.WriteString(line)
		} else {
			bodyText.WriteString("  ")
			bodyText.WriteString(line)
		}
		bodyText.WriteByte('\n')
	}

	return fmt.Sprintf("define %s @%s(%s) {\n%s\n}\n",
		retTy, name, strings.Join(paramDecls, ", "),
		strings.TrimRight(bodyText.String(), "\n"))
}
