package codegen

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/lexer"
	"github.com/tokynblast/minis/internal/mono"
	"github.com/tokynblast/minis/internal/parser"
)

const testTriple = "x86_64-unknown-linux-gnu"

// emitSource compiles source text straight through the front-end and
// returns the IR module.
func emitSource(t *testing.T, input string) string {
	t.Helper()

	l := lexer.New(input, "test.mi")
	p := parser.New(l)
	file := p.ParseFile()
	require.Empty(t, p.Errors(), "unexpected parser errors")

	tables, err := collect.Collect(file)
	require.NoError(t, err)

	instances := mono.Monomorphize(tables, io.Discard)
	return EmitModule(tables, instances, "test.mi", testTriple)
}

func TestHelloWorld(t *testing.T) {
	ir := emitSource(t, `void main() { print("hello"); }`)

	assert.Contains(t, ir, `c"hello\00"`)
	assert.Contains(t, ir, "declare i32 @printf(i8*, ...)")
	assert.Contains(t, ir, "define void @main()")
	assert.Contains(t, ir, `c"%s\00"`)
	assert.Contains(t, ir, "call i32 @printf(")
	assert.Contains(t, ir, "ret void")
}

func TestArithmeticReturn(t *testing.T) {
	ir := emitSource(t, `int add(int a, int b) { return a + b; }`)

	assert.Contains(t, ir, "define i64 @add(i64 %a, i64 %b)")
	assert.Contains(t, ir, "store i64 %a, i64*")
	assert.Contains(t, ir, "store i64 %b, i64*")
	assert.Equal(t, 1, strings.Count(ir, " = add i64 "))
	assert.Equal(t, 1, strings.Count(ir, "ret i64"))
}

func TestModulePreamble(t *testing.T) {
	ir := emitSource(t, `void main() {}`)

	assert.True(t, strings.HasPrefix(ir, "; ModuleID = 'minis'\n"))
	assert.Contains(t, ir, `source_filename = "test.mi"`)
	assert.Contains(t, ir, `target triple = "x86_64-unknown-linux-gnu"`)
}

func TestDeterminism(t *testing.T) {
	src := `
int counter = 3;
class point { public { int x; int y; } }
int add(int a, int b) { return a + b; }
void main() { print("hi", add(1, 2)); }
`
	first := emitSource(t, src)
	second := emitSource(t, src)
	assert.Equal(t, first, second)
}

func TestExternPruning(t *testing.T) {
	ir := emitSource(t, `
int helper() { return 1; }
void main() { helper(); missing(); }
`)

	assert.NotContains(t, ir, "declare i64 @helper")
	assert.Contains(t, ir, "declare i64 @missing(...)")
	assert.Contains(t, ir, "call i64 @helper()")
}

func TestStringDeduplication(t *testing.T) {
	ir := emitSource(t, `void main() { print("hello"); print("hello"); }`)

	assert.Equal(t, 1, strings.Count(ir, `c"hello\00"`))
}

func TestStructLayoutAndFieldAccess(t *testing.T) {
	ir := emitSource(t, `
class point {
  public {
    int x;
    int y;
  }
}
void main() {
  point p = point();
  x = p.y;
}
`)

	assert.Contains(t, ir, "%point = type { i64, i64 }")
	assert.Contains(t, ir, "alloca %point")
	assert.Contains(t, ir, "getelementptr %point, %point*")
	assert.Contains(t, ir, "i32 0, i32 1")
}

func TestCoercionRoundtrip(t *testing.T) {
	ir := emitSource(t, `
void main() {
  i32 a = 5;
  i64 b = a;
  i32 c = b;
}
`)

	assert.Contains(t, ir, "trunc i64 5 to i32")
	assert.Contains(t, ir, "sext i32")
	assert.Contains(t, ir, "trunc i64 %")
}

func TestCircuitPhi(t *testing.T) {
	ir := emitSource(t, `
int pick(int x) {
  int y = { (x == 1) -> 10; (x == 2) -> 20; -> 0; };
  return y;
}
`)

	assert.Equal(t, 3, countLabels(ir, "circuit.arm."), "three arm blocks")

	phiLine := findLine(ir, "phi i64")
	require.NotEmpty(t, phiLine)
	assert.Contains(t, phiLine, "[ 10, %circuit.arm.")
	assert.Contains(t, phiLine, "[ 20, %circuit.arm.")
	assert.Contains(t, phiLine, "[ 0, %circuit.arm.")
}

func TestCircuitAllArmsReturn(t *testing.T) {
	ir := emitSource(t, `
int f(int x) {
  int y = { (x == 1) -> { return 1; }; (x == 2) -> { return 2; }; };
  return y;
}
`)

	assert.Contains(t, ir, "unreachable")
	assert.NotContains(t, ir, "phi")
}

func TestCircuitBlockArmLastExprIsValue(t *testing.T) {
	ir := emitSource(t, `
int f(int x) {
  int y = { (x == 1) -> { print("one"); 11; }; -> 0; };
  return y;
}
`)

	phiLine := findLine(ir, "phi i64")
	require.NotEmpty(t, phiLine)
	assert.Contains(t, phiLine, "[ 11, %circuit.arm.")
	assert.Contains(t, phiLine, "[ 0, %circuit.arm.")
}

func TestMethodEmission(t *testing.T) {
	ir := emitSource(t, `
class player {
  public {
    int health;
    void heal(int amount) { health = health + amount; }
    int current() { return health; }
  }
}
void main() {
  player p = player();
  p.heal(5);
}
`)

	assert.Contains(t, ir, "define void @player_heal(%player* %__self, i64 %amount)")
	assert.Contains(t, ir, "define i64 @player_current(%player* %__self)")
	assert.Contains(t, ir, "call void @player_heal(%player* %t")
	// Field access through self uses layout index 0.
	assert.Contains(t, ir, "getelementptr %player, %player*")
	assert.Contains(t, ir, "i32 0, i32 0")
}

func TestMethodCallOnUnknownMethodFallsBack(t *testing.T) {
	ir := emitSource(t, `
class point { public { int x; } }
void main() {
  point p = point();
  p.magic(1);
}
`)

	assert.Contains(t, ir, "declare i64 @magic(...)")
	assert.Contains(t, ir, "call i64 @magic(%point*")
}

func TestIfElseLowering(t *testing.T) {
	ir := emitSource(t, `
void main() {
  if (1 == 1) { print("a"); } else { print("b"); }
  print("after");
}
`)

	assert.Contains(t, ir, "br i1 %t")
	assert.Contains(t, ir, "if.then.0:")
	assert.Contains(t, ir, "if.else.1:")
	assert.Contains(t, ir, "if.end.2:")
}

func TestIfBothArmsReturnSkipsEnd(t *testing.T) {
	ir := emitSource(t, `
int f(int x) {
  if (x == 1) { return 1; } else { return 2; }
}
`)

	assert.NotContains(t, ir, "if.end")
	// No default return after both arms returned.
	assert.Equal(t, 2, strings.Count(ir, "ret i64"))
}

func TestPrintFormats(t *testing.T) {
	ir := emitSource(t, `
void main() {
  print(42, 1.5, "s", true);
}
`)

	assert.Contains(t, ir, `c"%lld\00"`)
	assert.Contains(t, ir, `c"%f\00"`)
	assert.Contains(t, ir, `c"%s\00"`)
	assert.Contains(t, ir, "select i1 1, i8*")
	assert.Contains(t, ir, `c"true\00"`)
	assert.Contains(t, ir, `c"false\00"`)
	// Single-space separators between arguments.
	assert.Contains(t, ir, `c" \00"`)
}

func TestExitIntrinsic(t *testing.T) {
	ir := emitSource(t, `void main() { exit(3); }`)

	assert.Contains(t, ir, "declare void @exit(i64)")
	assert.Contains(t, ir, "call void @exit(i64 3)")
}

func TestGlobalsEmission(t *testing.T) {
	ir := emitSource(t, `
int counter = 42;
int wrapped = -5;
void main() { counter = 7; print(counter); }
`)

	assert.Contains(t, ir, "@counter = global i64 42")
	assert.Contains(t, ir, "@wrapped = global i64 18446744073709551611")
	assert.Contains(t, ir, "store i64 7, i64* @counter")
	assert.Contains(t, ir, "load i64, i64* @counter")
}

func TestDefaultReturns(t *testing.T) {
	ir := emitSource(t, `
int i() {}
float f() {}
str s() {}
void v() {}
`)

	assert.Contains(t, ir, "ret i64 0")
	assert.Contains(t, ir, "ret double 0.0")
	assert.Contains(t, ir, "ret i8* null")
	assert.Contains(t, ir, "ret void")
}

func TestVariantInstancesEmitted(t *testing.T) {
	ir := emitSource(t, `variant<int, float> id(variant<int, float> x) { return x; }`)

	assert.Contains(t, ir, "define i64 @_minis__id__i64__i64(i64 %x)")
	assert.Contains(t, ir, "define double @_minis__id__double__double(double %x)")
}

func TestUnknownIdentifierIsZero(t *testing.T) {
	ir := emitSource(t, `int f() { return nothere; }`)

	assert.Contains(t, ir, "ret i64 0")
}

func TestStringEscaping(t *testing.T) {
	ir := emitSource(t, `void main() { print("a\nb"); }`)

	assert.Contains(t, ir, `c"a\0Ab\00"`)
	// Byte length includes the NUL: a, \n, b, NUL = 4.
	assert.Contains(t, ir, "[4 x i8]")
}

func TestLogicalOpsPassThroughLeft(t *testing.T) {
	ir := emitSource(t, `
int f(int a, int b) {
  return a && b;
}
`)

	// Both operands evaluate; the left value is the result.
	assert.Equal(t, 2, strings.Count(ir, "load i64"))
	assert.Contains(t, ir, "ret i64 %t")
}

// findLine returns the first line containing substr.
func findLine(ir, substr string) string {
	for _, line := range strings.Split(ir, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// countLabels counts emitted label lines with the given prefix.
func countLabels(ir, prefix string) int {
	count := 0
	for _, line := range strings.Split(ir, "\n") {
		if strings.HasPrefix(line, prefix) && strings.HasSuffix(line, ":") {
			count++
		}
	}
	return count
}
