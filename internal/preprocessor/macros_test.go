package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariadicMacro(t *testing.T) {
	src := "#def log(fmt, $$*) print(fmt, $$*)\n" + `log("x", 1, 2);` + "\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, `print("x", [1, 2]);`)
}

func TestZeroParamMacroExpandsBare(t *testing.T) {
	src := "#def LIMIT 100\nint x = LIMIT;\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, "int x = 100;")
}

func TestParameterfulMacroWithoutParensLeftAlone(t *testing.T) {
	src := "#def square(v) v * v\nint x = square;\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, "int x = square;")
}

func TestMacroParamSubstitutesWholeIdentifiers(t *testing.T) {
	// The parameter a must not replace the a inside alpha.
	src := "#def wrap(a) a + alpha\nwrap(1);\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, "1 + alpha;")
}

func TestStringLiteralsAreOpaque(t *testing.T) {
	src := "#def LIMIT 100\n" + `print("LIMIT");` + "\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, `"LIMIT"`)
	assert.NotContains(t, out, `"100"`)
}

func TestSemicolonDeduplication(t *testing.T) {
	src := "#def done() exit(0);\ndone();\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, "exit(0);")
	assert.NotContains(t, out, "exit(0);;")
}

func TestConditionalInclusion(t *testing.T) {
	src := `#def DEBUG 1
#if DEBUG
print("dbg");
#endif
#if RELEASE
print("rel");
#endif
void main() {}
`
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, `print("dbg");`)
	assert.NotContains(t, out, `print("rel");`)
}

func TestConditionalNesting(t *testing.T) {
	src := `#def OUTER 1
#if OUTER
#if INNER
print("both");
#endif
print("outer");
#endif
`
	out := ExpandMacros(src, nil)
	assert.NotContains(t, out, "both")
	assert.Contains(t, out, `print("outer");`)
}

func TestPredefinedDefines(t *testing.T) {
	src := "#if FEATURE\nprint(\"on\");\n#endif\n"

	assert.NotContains(t, ExpandMacros(src, nil), "on")
	assert.Contains(t, ExpandMacros(src, []string{"FEATURE"}), `print("on");`)
}

func TestLineContinuation(t *testing.T) {
	src := "#def pair(a, b) a; \\\n  b;\npair(print(1), print(2));\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, "print(1);")
	assert.Contains(t, out, "print(2);")
}

func TestRecursiveMacroBounded(t *testing.T) {
	// A self-referential macro must terminate at the pass cap.
	src := "#def loop() loop()\nloop();\n"
	out := ExpandMacros(src, nil)
	assert.True(t, strings.Contains(out, "loop()"))
}

func TestNestedCallArguments(t *testing.T) {
	src := "#def id(v) v\nid(f(1, 2));\n"
	out := ExpandMacros(src, nil)
	assert.Contains(t, out, "f(1, 2);")
}
