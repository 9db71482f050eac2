package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapwire/internal/diagnostic"
	"mapwire/internal/gen"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
	assert.Equal(t, "1", f.Version)
	assert.Equal(t, []string{"./..."}, f.Packages)
	assert.Equal(t, gen.DefaultAssemblyFile, f.AssemblyFile)
	assert.Equal(t, gen.DefaultProxyFile, f.ProxyFile)
	assert.Equal(t, "transient", f.CandidateLifetime)
	assert.False(t, Validate(f).HasErrors())
}

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(`
version: "1"
packages:
  - ./examples/...
proxies:
  - mapwire/examples/pirates.PirateMapper
proxy_file: zz_adapters.go
candidate_lifetime: scoped
exclude:
  - mapwire/examples/invalid
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"./examples/..."}, f.Packages)
	assert.Equal(t, []string{"mapwire/examples/pirates.PirateMapper"}, f.Proxies)
	assert.Equal(t, gen.GeneratorConfig{AssemblyFile: gen.DefaultAssemblyFile, ProxyFile: "zz_adapters.go"}, f.GeneratorConfig())
	assert.Equal(t, "scoped", f.CandidateLifetime)
	assert.True(t, f.Excluded("mapwire/examples/invalid"))
	assert.False(t, f.Excluded("mapwire/examples/pirates"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("packages: [unterminated"))
	require.ErrorContains(t, err, "failed to parse config YAML")

	_, err = Parse([]byte("pakages: [./...]"))
	require.ErrorContains(t, err, "pakages")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	f := Default()
	f.Version = "2"
	f.CandidateLifetime = "forever"
	f.ProxyFile = f.AssemblyFile
	f.Proxies = []string{"PirateMapper", "a/b.C", "a/b.C"}

	diags := Validate(f)

	codes := make([]string, 0, len(diags.Errors))
	for _, d := range diags.Errors {
		codes = append(codes, d.Code)
	}

	assert.ElementsMatch(t, []string{diagnostic.CodeUnsupportedVersion, diagnostic.CodeInvalidLifetime, diagnostic.CodeFileClash, diagnostic.CodeInvalidProxy}, codes)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeDuplicateProxy, diags.Warnings[0].Code)
	assert.ErrorContains(t, diags.Err(), "did you mean transient, scoped, singleton?")

	assert.True(t, Validate(nil).HasErrors())

	f = Default()
	f.AssemblyFile = "sub/zz.go"
	assert.Equal(t, diagnostic.CodeInvalidFileName, Validate(f).Errors[0].Code)
}

func TestExcluded(t *testing.T) {
	t.Parallel()

	f := &File{Exclude: []string{"example.com/app/internal/...", "example.com/*/testdata"}}

	assert.True(t, f.Excluded("example.com/app/internal"))
	assert.True(t, f.Excluded("example.com/app/internal/store"))
	assert.False(t, f.Excluded("example.com/app/internalx"))
	assert.True(t, f.Excluded("example.com/app/testdata"))
	assert.False(t, f.Excluded("example.com/app/cmd"))
}

func TestWriteFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFile)

	f := Default()
	f.Proxies = []string{"mapwire/examples/pirates.PirateMapper"}
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MAPWIRE_CONFIG=from-dotenv.yaml\nMAPWIRE_DEBUG=true\n"), 0o600))

	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDebug, "")
	require.NoError(t, os.Unsetenv(EnvConfig))
	require.NoError(t, os.Unsetenv(EnvDebug))

	env, err := LoadEnv(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Env{ConfigPath: "from-dotenv.yaml", Debug: true}, env)

	t.Setenv(EnvConfig, "explicit.yaml")
	t.Setenv(EnvDebug, "nope")

	_, err = LoadEnv(envFile)
	require.ErrorContains(t, err, EnvDebug)

	t.Setenv(EnvDebug, "0")

	env, err = LoadEnv(envFile)
	require.NoError(t, err)
	assert.Equal(t, Env{ConfigPath: "explicit.yaml"}, env)
}
