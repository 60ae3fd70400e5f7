package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/types"
)

// emitExpr produces a typed IR value for an expression. The second return
// is false when the expression yields no value (void calls, malformed
// literals); callers treat that as "nothing to store".
func (g *emitter) emitExpr(f *FunctionContext, expr ast.Expr) (Value, bool) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return g.emitIntLit(e)
	case *ast.FloatLit:
		return Value{Ty: "double", Val: e.String()}, true
	case *ast.StringLit:
		return Value{Ty: "i8*", Val: g.module.StringPtr(e.Value)}, true
	case *ast.BoolLit:
		if e.Value {
			return Value{Ty: "i1", Val: "1"}, true
		}
		return Value{Ty: "i1", Val: "0"}, true
	case *ast.TriboolLit:
		return Value{Ty: "i8", Val: "2"}, true
	case *ast.Ident:
		return g.emitIdent(f, e)
	case *ast.CallExpr:
		return g.emitCall(f, e)
	case *ast.MethodCallExpr:
		return g.emitMethodCall(f, e)
	case *ast.FieldExpr:
		return g.emitFieldAccess(f, e)
	case *ast.BinaryExpr:
		return g.emitBinary(f, e)
	case *ast.UnaryExpr:
		return g.emitUnary(f, e)
	case *ast.CircuitExpr:
		return g.emitCircuit(f, e)
	default:
		return Value{}, false
	}
}

// emitIntLit renders an integer literal as a 64-bit immediate. Decimal
// text passes through; hex and binary are decoded first.
func (g *emitter) emitIntLit(e *ast.IntLit) (Value, bool) {
	if e.Radix == 10 {
		return Value{Ty: "i64", Val: e.String()}, true
	}
	v, err := strconv.ParseInt(e.Text, e.Radix, 64)
	if err != nil {
		return Value{}, false
	}
	if e.Negative {
		v = -v
	}
	return Value{Ty: "i64", Val: strconv.FormatInt(v, 10)}, true
}

// emitIdent resolves a bare identifier: local slot load, then self field,
// then global load, then a zero fallback.
func (g *emitter) emitIdent(f *FunctionContext, e *ast.Ident) (Value, bool) {
	if local, ok := f.locals[e.Name]; ok {
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = load %s, %s* %s", tmp, local.Ty, local.Ty, local.Slot))
		return Value{Ty: local.Ty, Val: tmp}, true
	}

	if value, ok := g.emitSelfFieldLoad(f, e.Name); ok {
		return value, true
	}

	if globalTy, ok := g.module.Tables.GlobalType(e.Name); ok {
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = load %s, %s* @%s", tmp, globalTy, globalTy, e.Name))
		return Value{Ty: globalTy, Val: tmp}, true
	}

	return Value{Ty: "i64", Val: "0"}, true
}

// emitBinary lowers arithmetic, comparison, and logical operators.
// Operands are assumed pre-coerced; the left operand's type drives the
// instruction. Logical && and || are lowered as a left-operand
// passthrough pending grammar confirmation of short-circuit semantics.
func (g *emitter) emitBinary(f *FunctionContext, e *ast.BinaryExpr) (Value, bool) {
	left, ok := g.emitExpr(f, e.Left)
	if !ok {
		return Value{}, false
	}
	right, ok := g.emitExpr(f, e.Right)
	if !ok {
		return Value{}, false
	}

	switch e.Op {
	case "+", "-", "*", "/", "%":
		op := map[string]string{
			"+": "add", "-": "sub", "*": "mul", "/": "sdiv", "%": "srem",
		}[e.Op]
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = %s %s %s, %s", tmp, op, left.Ty, left.Val, right.Val))
		return Value{Ty: left.Ty, Val: tmp}, true

	case "==", "!=", "<", "<=", ">", ">=":
		pred := map[string]string{
			"==": "eq", "!=": "ne", "<": "slt", "<=": "sle", ">": "sgt", ">=": "sge",
		}[e.Op]
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = icmp %s %s %s, %s", tmp, pred, left.Ty, left.Val, right.Val))
		return Value{Ty: "i1", Val: tmp}, true

	case "&&", "||":
		return left, true

	default:
		return Value{}, false
	}
}

// emitUnary lowers numeric negation by subtracting from zero.
func (g *emitter) emitUnary(f *FunctionContext, e *ast.UnaryExpr) (Value, bool) {
	if e.Op != "-" {
		return Value{}, false
	}
	operand, ok := g.emitExpr(f, e.X)
	if !ok {
		return Value{}, false
	}
	tmp := f.newTemp()
	if operand.Ty == "double" {
		f.emit(fmt.Sprintf("%s = fsub double 0.0, %s", tmp, operand.Val))
	} else {
		f.emit(fmt.Sprintf("%s = sub %s 0, %s", tmp, operand.Ty, operand.Val))
	}
	return Value{Ty: operand.Ty, Val: tmp}, true
}

// emitCall lowers an unqualified call: class instantiation, the print and
// exit intrinsics, a same-class method via self, or an external call.
func (g *emitter) emitCall(f *FunctionContext, e *ast.CallExpr) (Value, bool) {
	if _, isClass := g.module.Tables.Classes[e.Name]; isClass && len(e.Args) == 0 {
		return g.emitClassNew(f, e.Name)
	}

	var args []Value
	for _, arg := range e.Args {
		if v, ok := g.emitExpr(f, arg); ok {
			args = append(args, v)
		}
	}

	switch e.Name {
	case "print":
		g.emitPrint(f, args)
		return Value{}, false

	case "exit":
		g.module.AddExtern("declare void @exit(i64)")
		arg := "i64 0"
		if len(args) > 0 {
			arg = fmt.Sprintf("%s %s", args[0].Ty, args[0].Val)
		}
		f.emit(fmt.Sprintf("call void @exit(%s)", arg))
		return Value{}, false
	}

	// Inside a method, an unqualified name may be a sibling method.
	if f.className != "" {
		if classDef, ok := g.module.Tables.Classes[f.className]; ok {
			if method := classDef.Method(e.Name); method != nil {
				selfSlot, ok := f.locals[f.selfName]
				if !ok {
					return Value{}, false
				}
				selfVal := f.newTemp()
				f.emit(fmt.Sprintf("%s = load %s, %s* %s", selfVal, selfSlot.Ty, selfSlot.Ty, selfSlot.Slot))
				args = append([]Value{{Ty: selfSlot.Ty, Val: selfVal}}, args...)
				return g.emitMethodInvoke(f, f.className, method.Name, types.LLVMType(method.Ret), args)
			}
		}
	}

	if !g.module.IsDefined(e.Name) {
		g.module.AddExtern(fmt.Sprintf("declare i64 @%s(...)", e.Name))
	}
	tmp := f.newTemp()
	f.emit(fmt.Sprintf("%s = call i64 @%s(%s)", tmp, e.Name, joinArgs(args)))
	return Value{Ty: "i64", Val: tmp}, true
}

// emitClassNew allocates a struct on the stack and returns the pointer.
// No user-defined constructor runs.
func (g *emitter) emitClassNew(f *FunctionContext, className string) (Value, bool) {
	tmp := f.newTemp()
	f.emit(fmt.Sprintf("%s = alloca %%%s", tmp, className))
	return Value{Ty: "%" + className + "*", Val: tmp}, true
}

// emitMethodCall lowers `recv.name(args...)` with static dispatch on the
// receiver's static type. An unknown method falls back to an untyped
// external call.
func (g *emitter) emitMethodCall(f *FunctionContext, e *ast.MethodCallExpr) (Value, bool) {
	recv, ok := g.emitExpr(f, e.Recv)
	if !ok {
		return Value{}, false
	}

	args := []Value{recv}
	for _, arg := range e.Args {
		if v, ok := g.emitExpr(f, arg); ok {
			args = append(args, v)
		}
	}

	className := types.ClassOf(recv.Ty)
	if className == "" {
		return Value{}, false
	}

	if classDef, ok := g.module.Tables.Classes[className]; ok {
		if method := classDef.Method(e.Name); method != nil {
			return g.emitMethodInvoke(f, className, method.Name, types.LLVMType(method.Ret), args)
		}
	}

	g.module.AddExtern(fmt.Sprintf("declare i64 @%s(...)", e.Name))
	tmp := f.newTemp()
	f.emit(fmt.Sprintf("%s = call i64 @%s(%s)", tmp, e.Name, joinArgs(args)))
	return Value{Ty: "i64", Val: tmp}, true
}

// emitMethodInvoke emits the call to a resolved class method.
func (g *emitter) emitMethodInvoke(f *FunctionContext, className, methodName, retTy string, args []Value) (Value, bool) {
	mangled := MangleMethodName(className, methodName)
	if retTy == "void" {
		f.emit(fmt.Sprintf("call void @%s(%s)", mangled, joinArgs(args)))
		return Value{}, false
	}
	tmp := f.newTemp()
	f.emit(fmt.Sprintf("%s = call %s @%s(%s)", tmp, retTy, mangled, joinArgs(args)))
	return Value{Ty: retTy, Val: tmp}, true
}

// emitFieldAccess lowers `recv.name` as GEP indices 0, field-index and a
// load of the field type.
func (g *emitter) emitFieldAccess(f *FunctionContext, e *ast.FieldExpr) (Value, bool) {
	recv, ok := g.emitExpr(f, e.Recv)
	if !ok {
		return Value{}, false
	}
	className := types.ClassOf(recv.Ty)
	if className == "" {
		return Value{}, false
	}

	fieldTy, ptr, ok := g.emitFieldPtr(f, className, e.Name, recv)
	if !ok {
		return Value{}, false
	}

	tmp := f.newTemp()
	f.emit(fmt.Sprintf("%s = load %s, %s* %s", tmp, fieldTy, fieldTy, ptr))
	return Value{Ty: fieldTy, Val: tmp}, true
}

// emitFieldPtr computes the address of a field through its layout index.
func (g *emitter) emitFieldPtr(f *FunctionContext, className, fieldName string, obj Value) (string, string, bool) {
	classDef, ok := g.module.Tables.Classes[className]
	if !ok {
		return "", "", false
	}
	idx := classDef.FieldIndex(fieldName)
	if idx < 0 {
		return "", "", false
	}
	fieldTy := types.LLVMType(classDef.Fields[idx].Type)

	ptr := f.newTemp()
	f.emit(fmt.Sprintf("%s = getelementptr %%%s, %%%s* %s, i32 0, i32 %d",
		ptr, className, className, obj.Val, idx))
	return fieldTy, ptr, true
}

// emitSelfFieldLoad resolves a bare identifier as a field of the
// enclosing method's class, loaded through self.
func (g *emitter) emitSelfFieldLoad(f *FunctionContext, fieldName string) (Value, bool) {
	if f.className == "" || f.selfName == "" {
		return Value{}, false
	}
	selfSlot, ok := f.locals[f.selfName]
	if !ok {
		return Value{}, false
	}
	classDef, ok := g.module.Tables.Classes[f.className]
	if !ok || classDef.FieldIndex(fieldName) < 0 {
		return Value{}, false
	}

	selfVal := f.newTemp()
	f.emit(fmt.Sprintf("%s = load %s, %s* %s", selfVal, selfSlot.Ty, selfSlot.Ty, selfSlot.Slot))
	obj := Value{Ty: selfSlot.Ty, Val: selfVal}

	fieldTy, ptr, ok := g.emitFieldPtr(f, f.className, fieldName, obj)
	if !ok {
		return Value{}, false
	}
	tmp := f.newTemp()
	f.emit(fmt.Sprintf("%s = load %s, %s* %s", tmp, fieldTy, fieldTy, ptr))
	return Value{Ty: fieldTy, Val: tmp}, true
}

// emitSelfFieldStore performs the symmetric store for assignment to a
// field through the self bare-name shortcut. It reports whether the name
// resolved to a field.
func (g *emitter) emitSelfFieldStore(f *FunctionContext, fieldName string, value Value) bool {
	if f.className == "" || f.selfName == "" {
		return false
	}
	selfSlot, ok := f.locals[f.selfName]
	if !ok {
		return false
	}
	classDef, ok := g.module.Tables.Classes[f.className]
	if !ok || classDef.FieldIndex(fieldName) < 0 {
		return false
	}

	selfVal := f.newTemp()
	f.emit(fmt.Sprintf("%s = load %s, %s* %s", selfVal, selfSlot.Ty, selfSlot.Ty, selfSlot.Slot))
	obj := Value{Ty: selfSlot.Ty, Val: selfVal}

	fieldTy, ptr, ok := g.emitFieldPtr(f, f.className, fieldName, obj)
	if !ok {
		return false
	}
	f.emit(fmt.Sprintf("store %s %s, %s* %s", fieldTy, value.Val, fieldTy, ptr))
	return true
}

// emitPrint lowers the print intrinsic: one printf per argument with a
// format specifier chosen from the value's IR type, single-space literals
// between arguments.
func (g *emitter) emitPrint(f *FunctionContext, args []Value) {
	for i, arg := range args {
		g.emitPrintValue(f, arg)
		if i+1 < len(args) {
			g.emitPrintfLiteral(f, " ")
		}
	}
}

// emitPrintValue prints one value by IR type. Bools render as "true" or
// "false" through a select over interned constants.
func (g *emitter) emitPrintValue(f *FunctionContext, arg Value) {
	switch {
	case arg.Ty == "i1":
		truePtr := g.module.StringPtr("true")
		falsePtr := g.module.StringPtr("false")
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = select i1 %s, i8* %s, i8* %s", tmp, arg.Val, truePtr, falsePtr))
		g.emitPrintfCall(f, "%s", []Value{{Ty: "i8*", Val: tmp}})
	case arg.Ty == "i8*":
		g.emitPrintfCall(f, "%s", []Value{arg})
	case arg.Ty == "double":
		g.emitPrintfCall(f, "%f", []Value{arg})
	case arg.Ty == "i64":
		g.emitPrintfCall(f, "%lld", []Value{arg})
	case arg.Ty == "i32" || arg.Ty == "i16" || arg.Ty == "i8":
		g.emitPrintfCall(f, "%d", []Value{arg})
	case types.IsPointer(arg.Ty):
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = bitcast %s %s to i8*", tmp, arg.Ty, arg.Val))
		g.emitPrintfCall(f, "%p", []Value{{Ty: "i8*", Val: tmp}})
	default:
		g.emitPrintfCall(f, "%d", []Value{arg})
	}
}

func (g *emitter) emitPrintfLiteral(f *FunctionContext, text string) {
	ptr := g.module.StringPtr(text)
	g.emitPrintfCall(f, "%s", []Value{{Ty: "i8*", Val: ptr}})
}

func (g *emitter) emitPrintfCall(f *FunctionContext, format string, values []Value) {
	g.module.AddExtern("declare i32 @printf(i8*, ...)")
	fmtPtr := g.module.StringPtr(format)
	args := []string{fmt.Sprintf("i8* %s", fmtPtr)}
	for _, v := range values {
		args = append(args, fmt.Sprintf("%s %s", v.Ty, v.Val))
	}
	f.emit(fmt.Sprintf("call i32 @printf(%s)", strings.Join(args, ", ")))
}

// joinArgs renders a call argument list.
func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = fmt.Sprintf("%s %s", v.Ty, v.Val)
	}
	return strings.Join(parts, ", ")
}
