// Package types maps minis surface types onto their LLVM IR spellings.
package types

// LLVMType returns the IR type for a surface type name. Class types arrive
// pre-mapped as "%Name*" and pass through, as do raw pointer spellings.
// Unknown names fall back to an opaque byte pointer.
func LLVMType(typeName string) string {
	if len(typeName) > 0 && (typeName[0] == '%' || typeName[len(typeName)-1] == '*') {
		return typeName
	}
	switch typeName {
	case "i8", "u8", "ui8":
		return "i8"
	case "i16", "u16", "ui16":
		return "i16"
	case "i32", "u32", "ui32":
		return "i32"
	case "i64", "u64", "ui64", "int":
		return "i64"
	case "float":
		return "double"
	case "bool":
		return "i1"
	case "tribool":
		return "i8"
	case "str", "list", "dict":
		return "i8*"
	case "void":
		return "void"
	default:
		return "i8*"
	}
}

// IntWidth returns the bit width of an integer IR type, or 0 when ty is
// not an integer type.
func IntWidth(ty string) uint {
	switch ty {
	case "i1":
		return 1
	case "i8":
		return 8
	case "i16":
		return 16
	case "i32":
		return 32
	case "i64":
		return 64
	default:
		return 0
	}
}

// IsUnsigned reports whether a surface type name is one of the unsigned
// integer spellings. Global-initializer folding treats signed and
// unsigned spellings alike (modulo 2^width, rendered as an unsigned
// decimal), and arithmetic uses signed opcodes throughout.
func IsUnsigned(typeName string) bool {
	switch typeName {
	case "u8", "u16", "u32", "u64", "ui8", "ui16", "ui32", "ui64":
		return true
	default:
		return false
	}
}

// IsPointer reports whether an IR type is a pointer.
func IsPointer(ty string) bool {
	return len(ty) > 0 && ty[len(ty)-1] == '*'
}

// DefaultReturn renders the default `ret` instruction for a function that
// falls off the end of its body.
func DefaultReturn(irType string) string {
	switch {
	case irType == "void":
		return "ret void"
	case IsPointer(irType):
		return "ret " + irType + " null"
	case irType == "double":
		return "ret " + irType + " 0.0"
	default:
		return "ret " + irType + " 0"
	}
}

// DefaultGlobalInit renders the zero initializer for a global of the
// given IR type.
func DefaultGlobalInit(irType string) string {
	switch {
	case irType == "double":
		return "0.0"
	case IsPointer(irType):
		return "null"
	default:
		return "0"
	}
}

// ClassOf extracts the class name from a "%Name*" IR type, or "" when the
// type is not a class pointer.
func ClassOf(irType string) string {
	if len(irType) > 2 && irType[0] == '%' && irType[len(irType)-1] == '*' {
		return irType[1 : len(irType)-1]
	}
	return ""
}
