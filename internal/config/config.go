// Package config loads mapwire.yaml, the generator configuration, and the
// environment overrides of the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"mapwire/di"
	"mapwire/internal/common"
	"mapwire/internal/diagnostic"
	"mapwire/internal/gen"
)

// DefaultFile is the configuration file read when no other is named.
const DefaultFile = "mapwire.yaml"

// File is the content of mapwire.yaml.
type File struct {
	Version string `yaml:"version"`
	// Packages are the go/packages patterns scanned for profiles and capability types.
	Packages []string `yaml:"packages"`
	// Proxies are the interfaces ("import/path.Name") adapters are generated for.
	Proxies []string `yaml:"proxies,omitempty"`
	// AssemblyFile and ProxyFile name the generated files.
	AssemblyFile string `yaml:"assembly_file,omitempty"`
	ProxyFile    string `yaml:"proxy_file,omitempty"`
	// CandidateLifetime is reported for scanned capability types.
	CandidateLifetime string `yaml:"candidate_lifetime,omitempty"`
	// Exclude drops packages whose import path matches one of these patterns.
	// A trailing "/..." matches the path and everything below it.
	Exclude   []string `yaml:"exclude,omitempty"`
	BuildTags []string `yaml:"build_tags,omitempty"`
}

// LoadFile loads and parses the configuration at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// Default returns the configuration used when no file exists.
func Default() *File {
	var f File
	applyDefaults(&f)

	return &f
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if len(f.Packages) == 0 {
		f.Packages = []string{"./..."}
	}

	if f.AssemblyFile == "" {
		f.AssemblyFile = gen.DefaultAssemblyFile
	}

	if f.ProxyFile == "" {
		f.ProxyFile = gen.DefaultProxyFile
	}

	if f.CandidateLifetime == "" {
		f.CandidateLifetime = di.Transient.String()
	}
}

// Validate checks the configuration.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeConfigIsNil, "config file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError(diagnostic.CodeUnsupportedVersion, fmt.Sprintf("unsupported version %q", f.Version), DefaultFile, "version")
	}

	if !di.Lifetime(f.CandidateLifetime).Valid() {
		res.AddError(diagnostic.CodeInvalidLifetime, fmt.Sprintf("invalid lifetime %q", f.CandidateLifetime),
			DefaultFile, "candidate_lifetime", di.Transient.String(), di.Scoped.String(), di.Singleton.String())
	}

	if f.AssemblyFile == f.ProxyFile {
		res.AddError(diagnostic.CodeFileClash, "assembly_file and proxy_file must differ", DefaultFile, "proxy_file")
	}

	for _, name := range []string{f.AssemblyFile, f.ProxyFile} {
		if !strings.HasSuffix(name, ".go") || strings.ContainsRune(name, '/') {
			res.AddError(diagnostic.CodeInvalidFileName, fmt.Sprintf("%q is not a Go file name", name), DefaultFile, "")
		}
	}

	seen := make(map[string]struct{}, len(f.Proxies))

	for _, p := range f.Proxies {
		if pkg, _ := common.SplitQualifiedName(p); pkg == "" {
			res.AddError(diagnostic.CodeInvalidProxy, fmt.Sprintf("%q is not of the form import/path.Interface", p), DefaultFile, "proxies")
		}

		if _, ok := seen[p]; ok {
			res.AddWarning(diagnostic.CodeDuplicateProxy, fmt.Sprintf("%s is listed twice", p), DefaultFile, "proxies")
		}

		seen[p] = struct{}{}
	}

	return res
}

// Excluded reports whether the package at importPath is excluded.
func (f *File) Excluded(importPath string) bool {
	for _, pattern := range f.Exclude {
		if prefix, ok := strings.CutSuffix(pattern, "/..."); ok {
			if importPath == prefix || strings.HasPrefix(importPath, prefix+"/") {
				return true
			}

			continue
		}

		if ok, _ := path.Match(pattern, importPath); ok {
			return true
		}
	}

	return false
}

// GeneratorConfig returns the generator settings of the file.
func (f *File) GeneratorConfig() gen.GeneratorConfig {
	return gen.GeneratorConfig{AssemblyFile: f.AssemblyFile, ProxyFile: f.ProxyFile}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
