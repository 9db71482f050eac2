package analyze

import (
	"slices"
	"strings"

	"mapwire/internal/common"
	"mapwire/proxy"
	"mapwire/scan"
)

// GeneratedPrefix starts the names of files the generator writes. Types
// declared in them are not catalogued.
const GeneratedPrefix = "zz_mapwire_"

// CatalogMethods are the method names that make a type worth cataloguing:
// Configure for profiles, the rest for capability types.
var CatalogMethods = []string{"Configure", "Resolve", "Convert", "Process"}

// Package is a loaded package.
type Package struct {
	Path   string // Import path, e.g. "mapwire/examples/pirates"
	Name   string // Package name
	Dir    string // Directory holding the package sources
	Module string // Path of the enclosing module, empty for the standard library
	// Types are the names of the types declared outside generated files whose
	// method set (or pointer method set) has one of CatalogMethods. They are
	// in go/types scope order.
	Types      []string
	Interfaces []*Interface
}

// Interface is a named interface declared in a package.
type Interface struct {
	Name     string
	Exported bool
	Methods  []proxy.Signature
	// Imports are the packages the method signatures reference.
	Imports []Import
}

// Import is a package referenced by generated code.
type Import struct {
	Path     string
	Name     string
	Standard bool
}

// QualifiedName returns the interface name qualified by pkg's import path.
func (i *Interface) QualifiedName(pkg *Package) string {
	return common.QualifiedName(pkg.Path, i.Name)
}

// Describe classifies the interface methods into mapper call patterns.
func (i *Interface) Describe(pkg *Package) (*proxy.Descriptor, error) {
	return proxy.DescribeSignatures(i.QualifiedName(pkg), i.Exported, i.Methods)
}

// Interface returns the interface called name.
func (p *Package) Interface(name string) (*Interface, bool) {
	i := slices.IndexFunc(p.Interfaces, func(iface *Interface) bool { return iface.Name == name })
	if i < 0 {
		return nil, false
	}

	return p.Interfaces[i], true
}

// Result holds the loaded packages and the import graph reachable from them.
type Result struct {
	Packages  []*Package
	Libraries []scan.Library
}

// Package returns the loaded package with the given import path.
func (r *Result) Package(path string) (*Package, bool) {
	i := slices.IndexFunc(r.Packages, func(p *Package) bool { return p.Path == path })
	if i < 0 {
		return nil, false
	}

	return r.Packages[i], true
}

// Candidates returns the loaded packages depending on one of references
// (by default the mapping engine), in import path order.
func (r *Result) Candidates(references ...string) ([]*Package, error) {
	resolver, err := scan.NewCandidateResolver(r.Libraries, references...)
	if err != nil {
		return nil, err
	}

	var out []*Package

	for _, p := range r.Packages {
		if resolver.Classify(p.Path) == scan.CandidateLibrary {
			out = append(out, p)
		}
	}

	slices.SortFunc(out, func(a, b *Package) int { return strings.Compare(a.Path, b.Path) })

	return out, nil
}

// LookupInterface finds an interface by "import/path.Name".
func (r *Result) LookupInterface(qualified string) (*Package, *Interface, bool) {
	path, name := common.SplitQualifiedName(qualified)
	if path == "" {
		return nil, nil, false
	}

	pkg, ok := r.Package(path)
	if !ok {
		return nil, nil, false
	}

	iface, ok := pkg.Interface(name)
	if !ok {
		return nil, nil, false
	}

	return pkg, iface, true
}
