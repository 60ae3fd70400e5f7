package collect

import (
	"strconv"

	"github.com/tokynblast/minis/internal/ast"
	"github.com/tokynblast/minis/internal/errors"
	"github.com/tokynblast/minis/internal/types"
)

// addGlobals interns every declarator of a top-level variable declaration.
// Only integer/float/bool/tribool (and class-pointer) globals are allowed;
// str/list/dict globals are rejected. Duplicate names keep the first
// definition.
func (m *Module) addGlobals(decl *ast.VarDeclStmt) error {
	switch decl.Type {
	case "str", "list", "dict":
		return errors.New(errors.COL001, "global string/list/dict values are not supported")
	}

	irType := types.LLVMType(decl.Type)
	for _, d := range decl.Decls {
		init := types.DefaultGlobalInit(irType)
		if d.Init != nil {
			folded, err := evalGlobalConst(d.Init, decl.Type, irType)
			if err != nil {
				return err
			}
			init = folded
		}
		m.addGlobal(d.Name, irType, init)
	}
	return nil
}

func (m *Module) addGlobal(name, irType, init string) {
	if _, exists := m.GlobalMap[name]; exists {
		return
	}
	m.Globals = append(m.Globals, GlobalVar{Name: name, Type: irType, Init: init})
	m.GlobalMap[name] = irType
}

// evalGlobalConst folds a global initializer, which must be a constant
// literal. Integer values are reduced modulo the destination width and
// rendered as the unsigned decimal of the two's-complement bit pattern.
func evalGlobalConst(expr ast.Expr, typeName, irType string) (string, error) {
	switch lit := expr.(type) {
	case *ast.IntLit:
		return formatIntLiteral(lit.Text, uint64(lit.Radix), lit.Negative, typeName, irType)
	case *ast.BoolLit:
		text := "0"
		if lit.Value {
			text = "1"
		}
		return formatIntLiteral(text, 10, false, typeName, irType)
	case *ast.TriboolLit:
		return formatIntLiteral("2", 10, false, typeName, irType)
	case *ast.FloatLit:
		if irType != "double" {
			return "", errors.New(errors.COL002, "global float initializer requires float type")
		}
		if lit.Negative {
			return "-" + lit.Text, nil
		}
		return lit.Text, nil
	default:
		return "", errors.New(errors.COL002, "global initializer must be a constant literal")
	}
}

// formatIntLiteral folds an integer literal into the destination type.
// bool accepts only 0/1 and tribool only 0/1/2; all other integer
// destinations wrap modulo 2^width.
func formatIntLiteral(text string, radix uint64, negative bool, typeName, irType string) (string, error) {
	width := types.IntWidth(irType)
	if width == 0 {
		return "", errors.New(errors.COL002, "global integer initializer requires integer type")
	}

	if typeName == "bool" {
		if negative {
			return "", errors.New(errors.COL003, "bool global initializer cannot be negative")
		}
		// Range-check the literal itself, not its value narrowed to i1.
		value, err := parseModulo(text, radix, 64)
		if err != nil {
			return "", err
		}
		if value > 1 {
			return "", errors.New(errors.COL003, "bool global initializer must be 0 or 1")
		}
		return formatUint(value), nil
	}

	if typeName == "tribool" {
		if negative {
			return "", errors.New(errors.COL003, "tribool global initializer cannot be negative")
		}
		value, err := parseModulo(text, radix, 64)
		if err != nil {
			return "", err
		}
		if value > 2 {
			return "", errors.New(errors.COL003, "tribool global initializer must be 0, 1, or 2")
		}
		return formatUint(value), nil
	}

	value, err := parseModulo(text, radix, width)
	if err != nil {
		return "", err
	}
	if negative {
		value = (-value) & widthMask(width)
	}

	// Signed destinations also emit the wrapped bit pattern as an
	// unsigned decimal.
	return formatUint(value), nil
}

// parseModulo accumulates digits of the given radix, wrapping modulo
// 2^width at every step.
func parseModulo(text string, radix uint64, width uint) (uint64, error) {
	mask := widthMask(width)
	var acc uint64
	for _, ch := range text {
		digit, ok := digitValue(ch, radix)
		if !ok {
			return 0, errors.New(errors.COL004, "invalid digit in integer literal")
		}
		acc = (acc*radix + digit) & mask
	}
	return acc, nil
}

func widthMask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func digitValue(ch rune, radix uint64) (uint64, bool) {
	var v uint64
	switch {
	case ch >= '0' && ch <= '9':
		v = uint64(ch - '0')
	case ch >= 'a' && ch <= 'z':
		v = uint64(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		v = uint64(ch-'A') + 10
	default:
		return 0, false
	}
	if v >= radix {
		return 0, false
	}
	return v, true
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
