package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
opt: -O1
triple: aarch64-unknown-linux-gnu
objects:
  - runtime.o
defines:
  - VERBOSE
  - TRACE
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "-O1", cfg.Opt)
	assert.Equal(t, "aarch64-unknown-linux-gnu", cfg.Triple)
	assert.Equal(t, []string{"runtime.o"}, cfg.Objects)
	assert.Equal(t, []string{"VERBOSE", "TRACE"}, cfg.Defines)
}

func TestLoadRejectsBadOptLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("opt: -O9\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-O9")
}

func TestLoadNearFindsManifestBesideSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("opt: -O0\n"), 0o644))

	cfg, err := LoadNear(filepath.Join(dir, "prog.mi"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "-O0", cfg.Opt)
}

func TestLoadNearMissingIsNil(t *testing.T) {
	cfg, err := LoadNear(filepath.Join(t.TempDir(), "prog.mi"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("opt: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
