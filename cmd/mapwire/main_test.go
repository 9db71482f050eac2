package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapwire/internal/config"
	"mapwire/internal/diagnostic"
)

const (
	examples     = "mapwire/examples/..."
	pirateMapper = "mapwire/examples/pirates.PirateMapper"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDebug, "")

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestScan(t *testing.T) {
	out, err := run(t, "scan", examples)
	require.NoError(t, err)

	assert.Contains(t, out, "mapwire/examples/profiles (10 types, registered transient)")
	assert.Contains(t, out, "  DependencyValueConverter\n")
	assert.Contains(t, out, "mapwire/examples/pirates (1 types, registered transient)")
	assert.Contains(t, out, "  proxy PirateMapper (5 methods)")
}

func TestScan_Dump(t *testing.T) {
	out, err := run(t, "scan", "--dump", "mapwire/examples/invalid")
	require.NoError(t, err)

	assert.Contains(t, out, "analyze.Package")
	assert.Contains(t, out, `"InvalidProfile"`)
}

func TestScan_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
packages: [mapwire/examples/...]
candidate_lifetime: singleton
exclude: [mapwire/examples/profiles]
`), 0o600))

	out, err := run(t, "--config", path, "scan")
	require.NoError(t, err)

	assert.Contains(t, out, "mapwire/examples/pirates (1 types, registered singleton)")
	assert.NotContains(t, out, "mapwire/examples/profiles")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "scan")
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("candidate_lifetime: forever\n"), 0o600))

	_, err = run(t, "--config", bad, "scan")
	require.ErrorContains(t, err, diagnostic.CodeInvalidLifetime)
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", pirateMapper)
	require.NoError(t, err)

	assert.Contains(t, out, "PATTERN")
	assert.Contains(t, out, "Convert(Person) (Pirate, error)")
	assert.Contains(t, out, "Map(any, reflect.Type, reflect.Type) (any, error)")
	assert.Contains(t, out, "DynamicInto")

	_, err = run(t, "describe", "PirateMapper")
	require.Error(t, err)

	_, err = run(t, "describe", "mapwire/examples/pirates.Missing")
	require.ErrorContains(t, err, "not found")
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "--proxy", pirateMapper, examples)
	require.NoError(t, err)
	assert.Contains(t, out, "4 generated files up to date")
}

func TestCheck_Stale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
packages: [mapwire/examples/invalid]
assembly_file: zz_mapwire_catalog.go
`), 0o600))

	_, err := run(t, "--config", path, "check")
	require.ErrorContains(t, err, diagnostic.CodeStaleFile)
	require.ErrorContains(t, err, "zz_mapwire_catalog.go")

	_, statErr := os.Stat(filepath.Join("..", "..", "examples", "invalid", "zz_mapwire_catalog.go"))
	assert.ErrorIs(t, statErr, os.ErrNotExist, "check writes nothing")
}

func TestGen_UpToDate(t *testing.T) {
	out, err := run(t, "gen", "--proxy", pirateMapper, "mapwire/examples/invalid")
	require.NoError(t, err)
	assert.Contains(t, out, "3 generated files up to date")
}
