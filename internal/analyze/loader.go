package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"mapwire/proxy"
	"mapwire/scan"
)

// LoadMode specifies what information to load from the requested packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedImports |
	packages.NeedModule

// GraphMode loads the import graph, without types, for every dependency.
const GraphMode = packages.NeedName |
	packages.NeedImports |
	packages.NeedDeps

// Analyzer loads Go packages for the generator.
type Analyzer struct {
	dir    string
	tags   []string
	logger *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDir loads patterns relative to dir.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// WithBuildTags loads with extra build tags.
func WithBuildTags(tags ...string) Option {
	return func(a *Analyzer) { a.tags = append(a.tags, tags...) }
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Analyzer) config(mode packages.LoadMode) *packages.Config {
	cfg := &packages.Config{Mode: mode, Dir: a.dir}
	if len(a.tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(a.tags, ",")}
	}

	return cfg
}

// LoadPackages loads the packages matching patterns (e.g. "./...",
// "mapwire/examples/pirates") and the import graph below them.
func (a *Analyzer) LoadPackages(patterns ...string) (*Result, error) {
	pkgs, err := packages.Load(a.config(LoadMode), patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	if err := packageErrors(pkgs); err != nil {
		return nil, err
	}

	res := &Result{}

	for _, pkg := range pkgs {
		p, err := a.processPackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("processing package %s: %w", pkg.PkgPath, err)
		}

		res.Packages = append(res.Packages, p)
	}

	slices.SortFunc(res.Packages, func(x, y *Package) int { return strings.Compare(x.Path, y.Path) })

	res.Libraries, err = a.loadGraph(patterns)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("packages loaded",
		zap.Strings("patterns", patterns),
		zap.Int("packages", len(res.Packages)),
		zap.Int("libraries", len(res.Libraries)))

	return res, nil
}

func packageErrors(pkgs []*packages.Package) error {
	var errs []error

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	return nil
}

// loadGraph returns every package reachable from patterns with its direct imports.
func (a *Analyzer) loadGraph(patterns []string) ([]scan.Library, error) {
	pkgs, err := packages.Load(a.config(GraphMode), patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading import graph: %w", err)
	}

	var libs []scan.Library

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		deps := make([]string, 0, len(pkg.Imports))
		for path := range pkg.Imports {
			deps = append(deps, path)
		}

		slices.Sort(deps)
		libs = append(libs, scan.Library{Name: pkg.PkgPath, Dependencies: deps})
	})

	slices.SortFunc(libs, func(x, y scan.Library) int { return strings.Compare(x.Name, y.Name) })

	return libs, nil
}

// processPackage extracts catalogue types and interfaces from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) (*Package, error) {
	if pkg.Types == nil {
		return nil, fmt.Errorf("no type information")
	}

	p := &Package{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	if pkg.Module != nil {
		p.Module = pkg.Module.Path
	}

	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		// Only type names (not variables, constants, functions)
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		if strings.HasPrefix(filepath.Base(pkg.Fset.Position(typeName.Pos()).Filename), GeneratedPrefix) {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		if types.IsInterface(named) {
			p.Interfaces = append(p.Interfaces, a.analyzeInterface(pkg.Types, p.Module, named))
			continue
		}

		if named.TypeParams().Len() == 0 && hasCatalogMethod(named) {
			p.Types = append(p.Types, name)
		}
	}

	a.logger.Debug("package analyzed",
		zap.String("package", p.Path),
		zap.Int("types", len(p.Types)),
		zap.Int("interfaces", len(p.Interfaces)))

	return p, nil
}

func hasCatalogMethod(named *types.Named) bool {
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := range mset.Len() {
		if slices.Contains(CatalogMethods, mset.At(i).Obj().Name()) {
			return true
		}
	}

	return false
}

// analyzeInterface converts the method set of an interface into proxy signatures.
func (a *Analyzer) analyzeInterface(pkg *types.Package, module string, named *types.Named) *Interface {
	iface := named.Underlying().(*types.Interface)
	q := newQualifier(pkg, module)

	out := &Interface{
		Name:     named.Obj().Name(),
		Exported: named.Obj().Exported(),
	}

	for i := range iface.NumMethods() {
		m := iface.Method(i)
		sig := m.Type().(*types.Signature)

		ps := proxy.Signature{
			Name:     m.Name(),
			Exported: m.Exported(),
			Variadic: sig.Variadic(),
		}

		for j := range sig.Params().Len() {
			ps.Params = append(ps.Params, slotOf(sig.Params().At(j).Type(), q.qualify))
		}

		for j := range sig.Results().Len() {
			ps.Results = append(ps.Results, slotOf(sig.Results().At(j).Type(), q.qualify))
		}

		out.Methods = append(out.Methods, ps)
	}

	for _, imp := range q.imports {
		out.Imports = append(out.Imports, imp)
	}

	slices.SortFunc(out.Imports, func(x, y Import) int { return strings.Compare(x.Path, y.Path) })

	return out
}
