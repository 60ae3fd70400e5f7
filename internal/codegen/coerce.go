package codegen

import (
	"fmt"

	"github.com/tokynblast/minis/internal/types"
)

// coerce converts value to the target IR type where an implicit coercion
// is defined: integer widening (sext) and narrowing (trunc), integer to
// float (sitofp), float to integer (fptosi), and pointer to pointer
// (bitcast). A value that matches or has no defined coercion is returned
// unchanged.
func (g *emitter) coerce(f *FunctionContext, value Value, targetTy string) Value {
	if value.Ty == targetTy {
		return value
	}

	fromW := types.IntWidth(value.Ty)
	toW := types.IntWidth(targetTy)
	if fromW > 0 && toW > 0 {
		if toW == fromW {
			return Value{Ty: targetTy, Val: value.Val}
		}
		tmp := f.newTemp()
		if toW > fromW {
			f.emit(fmt.Sprintf("%s = sext %s %s to %s", tmp, value.Ty, value.Val, targetTy))
		} else {
			f.emit(fmt.Sprintf("%s = trunc %s %s to %s", tmp, value.Ty, value.Val, targetTy))
		}
		return Value{Ty: targetTy, Val: tmp}
	}

	if targetTy == "double" && fromW > 0 {
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = sitofp %s %s to %s", tmp, value.Ty, value.Val, targetTy))
		return Value{Ty: targetTy, Val: tmp}
	}

	if toW > 0 && value.Ty == "double" {
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = fptosi %s %s to %s", tmp, value.Ty, value.Val, targetTy))
		return Value{Ty: targetTy, Val: tmp}
	}

	if types.IsPointer(value.Ty) && types.IsPointer(targetTy) {
		tmp := f.newTemp()
		f.emit(fmt.Sprintf("%s = bitcast %s %s to %s", tmp, value.Ty, value.Val, targetTy))
		return Value{Ty: targetTy, Val: tmp}
	}

	return value
}
