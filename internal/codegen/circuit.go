package codegen

import (
	"fmt"
	"strings"

	"github.com/tokynblast/minis/internal/ast"
)

// emitCircuit lowers a circuit expression to check/arm basic blocks
// joined by a phi at the end block. For each arm in order, a check label
// (skipped for arm 0, which falls through from the current block)
// conditionally branches to the arm's body; a bare default arm branches
// unconditionally. On non-match control jumps to the next check, or to
// the end after the last arm. The result is a 64-bit phi over all arm
// predecessors. When every arm body returns, the end block is emitted
// with an unreachable terminator.
func (g *emitter) emitCircuit(f *FunctionContext, e *ast.CircuitExpr) (Value, bool) {
	if len(e.Arms) == 0 {
		return Value{}, false
	}

	endLabel := f.newLabel("circuit.end")
	checkLabels := make([]string, len(e.Arms))
	for i := range e.Arms {
		checkLabels[i] = f.newLabel("circuit.check")
	}
	armLabels := make([]string, len(e.Arms))
	for i := range e.Arms {
		armLabels[i] = f.newLabel("circuit.arm")
	}

	type incomingEdge struct {
		val   string
		label string
	}
	var incoming []incomingEdge
	endUsed := false

	for idx, arm := range e.Arms {
		armLabel := armLabels[idx]
		nextLabel := endLabel
		if idx+1 < len(e.Arms) {
			nextLabel = checkLabels[idx+1]
		}

		// Arm 0 falls through from the current block; its check label
		// would be back-to-back with the predecessor.
		if idx > 0 {
			f.emit(checkLabels[idx] + ":")
		}

		if arm.Cond != nil {
			if cond, ok := g.emitExpr(f, arm.Cond); ok {
				f.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cond.Val, armLabel, nextLabel))
				if nextLabel == endLabel {
					endUsed = true
				}
			}
		} else {
			f.emit(fmt.Sprintf("br label %%%s", armLabel))
		}

		f.emit(armLabel + ":")

		value, terminated := g.emitCircuitArmBody(f, arm)
		if terminated {
			continue
		}

		result := "0"
		if value != nil {
			result = value.Val
		}
		incoming = append(incoming, incomingEdge{val: result, label: armLabel})
		f.emit(fmt.Sprintf("br label %%%s", endLabel))
		endUsed = true
	}

	if len(incoming) > 0 {
		f.emit(endLabel + ":")
		tmp := f.newTemp()
		parts := make([]string, len(incoming))
		for i, in := range incoming {
			parts[i] = fmt.Sprintf("[ %s, %%%s ]", in.val, in.label)
		}
		f.emit(fmt.Sprintf("%s = phi i64 %s", tmp, strings.Join(parts, ", ")))
		return Value{Ty: "i64", Val: tmp}, true
	}

	if endUsed {
		f.emit(endLabel + ":")
		f.emit("unreachable")
	}
	return Value{}, false
}

// emitCircuitArmBody evaluates one arm's body. An expression arm yields
// its value. A block arm's last expression statement is the value; a
// return statement inside the block short-circuits the enclosing
// function, in which case the arm contributes no phi edge.
func (g *emitter) emitCircuitArmBody(f *FunctionContext, arm *ast.CircuitArm) (*Value, bool) {
	if arm.Body == nil {
		if arm.Value == nil {
			return nil, false
		}
		if v, ok := g.emitExpr(f, arm.Value); ok {
			return &v, false
		}
		return nil, false
	}

	stmts := arm.Body.Stmts
	var last *Value
	for i, stmt := range stmts {
		if i == len(stmts)-1 {
			if exprStmt, ok := stmt.(*ast.ExprStmt); ok {
				if v, ok := g.emitExpr(f, exprStmt.X); ok {
					last = &v
				}
				break
			}
		}
		if g.emitStatement(f, stmt) {
			return nil, true
		}
	}
	return last, false
}
