package codegen

import "fmt"

// Value is a typed IR value: a register name or an immediate literal.
type Value struct {
	Ty  string
	Val string
}

// slot is one named local: its IR type and stack-slot register.
type slot struct {
	Ty   string
	Slot string
}

// FunctionContext is the per-function emission state. It is constructed
// and dropped inside the emission of one function.
type FunctionContext struct {
	locals    map[string]slot
	tempIdx   int
	labelIdx  int
	lines     []string
	retTy     string
	className string // owning class when emitting a method
	selfName  string // name of the self parameter, "" otherwise
}

// newFunctionContext creates emission state for one function.
func newFunctionContext(retTy, className, selfName string) *FunctionContext {
	return &FunctionContext{
		locals:    map[string]slot{},
		retTy:     retTy,
		className: className,
		selfName:  selfName,
	}
}

// newTemp allocates the next SSA register name.
func (f *FunctionContext) newTemp() string {
	name := fmt.Sprintf("%%t%d", f.tempIdx)
	f.tempIdx++
	return name
}

// newLabel allocates the next label with the given prefix. The counter is
// shared across prefixes so labels stay unique within the function.
func (f *FunctionContext) newLabel(prefix string) string {
	name := fmt.Sprintf("%s.%d", prefix, f.labelIdx)
	f.labelIdx++
	return name
}

// emit appends one instruction or label line to the body buffer.
func (f *FunctionContext) emit(line string) {
	f.lines = append(f.lines, line)
}
