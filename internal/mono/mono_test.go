package mono

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokynblast/minis/internal/collect"
	"github.com/tokynblast/minis/internal/lexer"
	"github.com/tokynblast/minis/internal/parser"
)

func collectSource(t *testing.T, input string) *collect.Module {
	t.Helper()

	l := lexer.New(input, "test.mi")
	p := parser.New(l)
	file := p.ParseFile()
	require.Empty(t, p.Errors())

	m, err := collect.Collect(file)
	require.NoError(t, err)
	return m
}

func TestMonomorphizeKeepsConcreteNames(t *testing.T) {
	m := collectSource(t, `int add(int a, int b) { return a + b; }`)

	instances := Monomorphize(m, io.Discard)
	require.Len(t, instances, 1)
	assert.Equal(t, "add", instances[0].Name)
	assert.Equal(t, "int", instances[0].Ret)
}

func TestMonomorphizeVariant(t *testing.T) {
	m := collectSource(t, `variant<int, float> id(variant<int, float> x) { return x; }`)

	var warnings bytes.Buffer
	instances := Monomorphize(m, &warnings)

	// The identical variant lists advance together: one instance per
	// element, not per tuple.
	require.Len(t, instances, 2)
	assert.Equal(t, "_minis__id__i64__i64", instances[0].Name)
	assert.Equal(t, "_minis__id__double__double", instances[1].Name)

	assert.Equal(t, "int", instances[0].Ret)
	assert.Equal(t, "float", instances[1].Ret)
	assert.Equal(t, "float", instances[1].Params[0].Type)

	// Bodies are shared by reference.
	assert.Same(t, instances[0].Body, instances[1].Body)

	assert.Equal(t, 1, strings.Count(warnings.String(), "experimental"))
}

func TestMonomorphizeDistinctVariantLists(t *testing.T) {
	m := collectSource(t, `int f(variant<int, float> a, variant<bool, tribool> b) { return 0; }`)

	instances := Monomorphize(m, io.Discard)
	require.Len(t, instances, 4)

	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.Name
	}
	assert.Equal(t, []string{
		"_minis__f__i64__i64__i1",
		"_minis__f__i64__i64__i8",
		"_minis__f__i64__double__i1",
		"_minis__f__i64__double__i8",
	}, names)
}

func TestExperimentalVariantSuppressesWarning(t *testing.T) {
	m := collectSource(t, `!variant<int, float> id(!variant<int, float> x) { return x; }`)

	var warnings bytes.Buffer
	instances := Monomorphize(m, &warnings)

	require.Len(t, instances, 2)
	assert.Empty(t, warnings.String())
}

func TestWarningFiresOncePerModule(t *testing.T) {
	m := collectSource(t, `
variant<int, float> one(variant<int, float> x) { return x; }
variant<int, float> two(variant<int, float> x) { return x; }
`)

	var warnings bytes.Buffer
	Monomorphize(m, &warnings)
	assert.Equal(t, 1, strings.Count(warnings.String(), "warning:"))
}

func TestMangleName(t *testing.T) {
	assert.Equal(t, "_minis__id__i64__double",
		MangleName("id", []string{"int", "float"}))
}
