package preprocessor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExpandIncludesBasic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.mi", "int helper() { return 1; }\n")

	out, objects, err := ExpandIncludes(`include "lib.mi";`+"\nvoid main() {}\n", dir)
	require.NoError(t, err)
	assert.Empty(t, objects)
	assert.Contains(t, out, "int helper()")
	assert.Contains(t, out, "void main()")
}

func TestExpandIncludesCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mi", `include "b.mi";`+"\n")
	writeFile(t, dir, "b.mi", `include "a.mi";`+"\nvoid main() {}\n")

	aText, err := os.ReadFile(filepath.Join(dir, "a.mi"))
	require.NoError(t, err)

	out, _, err := ExpandIncludes(string(aText), dir)
	require.NoError(t, err)

	// Each file is included exactly once; main appears once.
	assert.Equal(t, 1, strings.Count(out, "void main()"))
}

func TestExpandIncludesObjects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.o", "")
	writeFile(t, dir, "more.obj", "")

	src := `include "extra.o";` + "\n" + `include "more.obj";` + "\n" + `include "extra.o";` + "\nvoid main() {}\n"
	out, objects, err := ExpandIncludes(src, dir)
	require.NoError(t, err)

	// Order preserved, duplicates allowed.
	require.Len(t, objects, 3)
	assert.Equal(t, filepath.Join(dir, "extra.o"), objects[0])
	assert.Equal(t, filepath.Join(dir, "more.obj"), objects[1])
	assert.Equal(t, filepath.Join(dir, "extra.o"), objects[2])
	assert.NotContains(t, out, "include")
}

func TestExpandIncludesMissingSemicolon(t *testing.T) {
	_, _, err := ExpandIncludes(`include "lib.mi"`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "';'")
}

func TestExpandIncludesNonStringPath(t *testing.T) {
	_, _, err := ExpandIncludes(`include lib.mi;`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string literal")
}

func TestExpandIncludesUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.txt", "")

	_, _, err := ExpandIncludes(`include "bad.txt";`, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported include file type")
}

func TestExpandIncludesReadFailure(t *testing.T) {
	_, _, err := ExpandIncludes(`include "missing.mi";`, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.mi")
}

func TestExpandIncludesCaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.MI", "int x = 1;\n")

	out, _, err := ExpandIncludes(`include "lib.MI";`, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "int x = 1;")
}
