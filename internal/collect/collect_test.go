package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokynblast/minis/internal/lexer"
	"github.com/tokynblast/minis/internal/parser"
)

func collectSource(t *testing.T, input string) (*Module, error) {
	t.Helper()

	l := lexer.New(input, "test.mi")
	p := parser.New(l)
	file := p.ParseFile()
	require.Empty(t, p.Errors(), "unexpected parser errors")

	return Collect(file)
}

func mustCollect(t *testing.T, input string) *Module {
	t.Helper()
	m, err := collectSource(t, input)
	require.NoError(t, err)
	return m
}

func TestCollectFunctions(t *testing.T) {
	m := mustCollect(t, `
int add(int a, int b) { return a + b; }
void main() {}
`)

	require.Len(t, m.Templates, 2)
	assert.Equal(t, "add", m.Templates[0].Name)
	assert.False(t, m.Templates[0].HasVariant)
	assert.True(t, m.HasMain())
}

func TestCollectVariantTemplate(t *testing.T) {
	m := mustCollect(t, `
variant<int, float> id(variant<int, float> x) { return x; }
void main() {}
`)

	assert.True(t, m.Templates[0].HasVariant)
	assert.Equal(t, []string{"int", "float"}, m.Templates[0].Ret.Variant)
}

func TestCollectClassFlattensSections(t *testing.T) {
	m := mustCollect(t, `
class player {
  public {
    int health;
    void heal(int amount) { health = health + amount; }
  }
  private {
    int secret;
  }
}
void main() {}
`)

	c := m.Classes["player"]
	require.NotNil(t, c)

	// Field order is textual across sections and drives struct layout.
	require.Len(t, c.Fields, 2)
	assert.Equal(t, "health", c.Fields[0].Name)
	assert.Equal(t, "secret", c.Fields[1].Name)
	assert.Equal(t, 0, c.FieldIndex("health"))
	assert.Equal(t, 1, c.FieldIndex("secret"))

	require.NotNil(t, c.Method("heal"))
	assert.Equal(t, []string{"player"}, m.ClassOrder)
}

func TestGlobalIntFolding(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain", "int g = 42;", "42"},
		{"negative wraps", "int g = -5;", "18446744073709551611"},
		{"narrow wraps", "i8 g = 300;", "44"},
		{"hex", "int g = 0xFF;", "255"},
		{"binary", "i16 g = 0b1010;", "10"},
		{"unsigned", "ui16 g = 70000;", "4464"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustCollect(t, tt.source+"\nvoid main() {}")
			require.Len(t, m.Globals, 1)
			assert.Equal(t, tt.want, m.Globals[0].Init)
		})
	}
}

func TestGlobalDefaults(t *testing.T) {
	m := mustCollect(t, `
int a;
float b;
void main() {}
`)

	assert.Equal(t, "0", m.Globals[0].Init)
	assert.Equal(t, "0.0", m.Globals[1].Init)
}

func TestGlobalBoolRange(t *testing.T) {
	_, err := collectSource(t, "bool b = 2;\nvoid main() {}")
	require.Error(t, err)

	m := mustCollect(t, "bool b = true;\nvoid main() {}")
	assert.Equal(t, "1", m.Globals[0].Init)
}

func TestGlobalTriboolRange(t *testing.T) {
	m := mustCollect(t, "tribool tb = unknown;\nvoid main() {}")
	assert.Equal(t, "2", m.Globals[0].Init)
	assert.Equal(t, "i8", m.Globals[0].Type)

	_, err := collectSource(t, "tribool tb = 3;\nvoid main() {}")
	require.Error(t, err)
}

func TestGlobalStringRejected(t *testing.T) {
	_, err := collectSource(t, `str s = "no";`+"\nvoid main() {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestGlobalFloatTypeMismatch(t *testing.T) {
	_, err := collectSource(t, "int g = 1.5;\nvoid main() {}")
	require.Error(t, err)
}

func TestGlobalNonConstantRejected(t *testing.T) {
	_, err := collectSource(t, "int g = 1 + 2;\nvoid main() {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constant literal")
}

func TestDuplicateGlobalKeepsFirst(t *testing.T) {
	m := mustCollect(t, `
int g = 1;
int g = 2;
void main() {}
`)

	require.Len(t, m.Globals, 1)
	assert.Equal(t, "1", m.Globals[0].Init)
}

func TestMissingMain(t *testing.T) {
	m := mustCollect(t, "int helper() { return 1; }")
	assert.False(t, m.HasMain())
}

func TestVariantWarnLatch(t *testing.T) {
	m := NewModule()
	assert.True(t, m.WarnVariantOnce())
	assert.False(t, m.WarnVariantOnce())
}

func TestMultiDeclaratorGlobals(t *testing.T) {
	m := mustCollect(t, "int a = 1, b = 2;\nvoid main() {}")

	require.Len(t, m.Globals, 2)
	assert.Equal(t, GlobalVar{Name: "a", Type: "i64", Init: "1"}, m.Globals[0])
	assert.Equal(t, GlobalVar{Name: "b", Type: "i64", Init: "2"}, m.Globals[1])
}
