package codegen

import (
	"fmt"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/types"
)

// emitBlock emits the statements of a block in order. It reports whether
// the block terminated (emitted a returning path), in which case the
// remaining statements are unreachable and emission stops.
func (g *emitter) emitBlock(f *FunctionContext, stmts []ast.Stmt) bool {
	for _, stmt := range stmts {
		if g.emitStatement(f, stmt) {
			return true
		}
	}
	return false
}

// emitStatement emits one statement, reporting whether it terminated the
// current control path.
func (g *emitter) emitStatement(f *FunctionContext, stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return g.emitReturn(f, s)
	case *ast.AssignStmt:
		g.emitAssign(f, s)
		return false
	case *ast.VarDeclStmt:
		g.emitVarDecl(f, s)
		return false
	case *ast.IfStmt:
		return g.emitIf(f, s)
	case *ast.ExprStmt:
		g.emitExpr(f, s.X)
		return false
	case *ast.Block:
		return g.emitBlock(f, s.Stmts)
	default:
		return false
	}
}

// emitReturn evaluates the return value, coerces it to the function's
// return type, and emits ret. A bare return (or a value that failed to
// evaluate) emits the default return for the type.
func (g *emitter) emitReturn(f *FunctionContext, s *ast.ReturnStmt) bool {
	if s.Value != nil {
		if value, ok := g.emitExpr(f, s.Value); ok {
			coerced := g.coerce(f, value, f.retTy)
			f.emit(fmt.Sprintf("ret %s %s", coerced.Ty, coerced.Val))
			return true
		}
	}
	f.emit(types.DefaultReturn(f.retTy))
	return true
}

// emitAssign resolves the assignment target in precedence order: an
// existing local slot, a class field reachable via self, a declared
// global, and finally a new local inferred from the value's type.
func (g *emitter) emitAssign(f *FunctionContext, s *ast.AssignStmt) {
	value, ok := g.emitExpr(f, s.Value)
	if !ok {
		return
	}

	if _, exists := f.locals[s.Name]; !exists {
		if g.emitSelfFieldStore(f, s.Name, value) {
			return
		}
		if globalTy, ok := g.module.Tables.GlobalType(s.Name); ok {
			stored := g.coerce(f, value, globalTy)
			f.emit(fmt.Sprintf("store %s %s, %s* @%s", stored.Ty, stored.Val, globalTy, s.Name))
			return
		}
		sl := f.newTemp()
		f.emit(fmt.Sprintf("%s = alloca %s", sl, value.Ty))
		f.locals[s.Name] = slot{Ty: value.Ty, Slot: sl}
	}

	target := f.locals[s.Name]
	stored := g.coerce(f, value, target.Ty)
	f.emit(fmt.Sprintf("store %s %s, %s* %s", stored.Ty, stored.Val, target.Ty, target.Slot))
}

// emitVarDecl allocates one slot per declarator and stores the coerced
// initializer when present. The slot is allocated before the initializer
// is evaluated.
func (g *emitter) emitVarDecl(f *FunctionContext, s *ast.VarDeclStmt) {
	llvmTy := types.LLVMType(s.Type)
	for _, d := range s.Decls {
		sl := f.newTemp()
		f.emit(fmt.Sprintf("%s = alloca %s", sl, llvmTy))
		f.locals[d.Name] = slot{Ty: llvmTy, Slot: sl}

		if d.Init == nil {
			continue
		}
		if value, ok := g.emitExpr(f, d.Init); ok {
			stored := g.coerce(f, value, llvmTy)
			f.emit(fmt.Sprintf("store %s %s, %s* %s", stored.Ty, stored.Val, llvmTy, sl))
		}
	}
}

// emitIf lowers if/else with then/else/end labels. Each arm reports
// whether it terminated; the shared end block is emitted only when at
// least one arm can fall through to it.
func (g *emitter) emitIf(f *FunctionContext, s *ast.IfStmt) bool {
	cond, ok := g.emitExpr(f, s.Cond)
	if !ok {
		return false
	}

	thenLabel := f.newLabel("if.then")
	elseLabel := f.newLabel("if.else")
	endLabel := f.newLabel("if.end")

	f.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cond.Val, thenLabel, elseLabel))
	f.emit(thenLabel + ":")
	thenTerm := g.emitBlock(f, s.Then.Stmts)
	if !thenTerm {
		f.emit(fmt.Sprintf("br label %%%s", endLabel))
	}

	f.emit(elseLabel + ":")
	elseTerm := false
	if s.Else != nil {
		elseTerm = g.emitBlock(f, s.Else.Stmts)
	}
	if !elseTerm {
		f.emit(fmt.Sprintf("br label %%%s", endLabel))
	}

	if thenTerm && elseTerm {
		return true
	}
	f.emit(endLabel + ":")
	return false
}
