package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"mapwire/internal/analyze"
	"mapwire/internal/common"
	"mapwire/proxy"
	"mapwire/scan"
)

// Default file names.
const (
	DefaultAssemblyFile = "zz_mapwire_assembly.go"
	DefaultProxyFile    = "zz_mapwire_proxies.go"
)

var (
	scanPackage   = reflect.TypeFor[scan.Assembly]().PkgPath()
	mapperPackage = scan.MapperPackage
	proxyPackage  = reflect.TypeFor[proxy.Type]().PkgPath()
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// AssemblyFile is the name of the catalog file written per package.
	AssemblyFile string
	// ProxyFile is the name of the adapter file written per package.
	ProxyFile string
	// DebugDir, when set, receives unformatted output of files that fail to format.
	DebugDir string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		AssemblyFile: DefaultAssemblyFile,
		ProxyFile:    DefaultProxyFile,
	}
}

// Generator generates assembly catalogs and proxy adapters.
type Generator struct {
	config GeneratorConfig
	logger *zap.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, logger *zap.Logger) *Generator {
	defaults := DefaultGeneratorConfig()
	if config.AssemblyFile == "" {
		config.AssemblyFile = defaults.AssemblyFile
	}

	if config.ProxyFile == "" {
		config.ProxyFile = defaults.ProxyFile
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{config: config, logger: logger}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the package directory the file belongs in.
	Dir string
	// Filename is the name of the file (e.g., "zz_mapwire_assembly.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the file's full path.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate generates the catalog of every candidate package that declares
// catalogue types, and adapters for the interfaces named in proxies
// ("import/path.Interface").
func (g *Generator) Generate(res *analyze.Result, proxies []string) ([]GeneratedFile, error) {
	candidates, err := res.Candidates()
	if err != nil {
		return nil, err
	}

	var files []GeneratedFile

	for _, pkg := range candidates {
		if len(pkg.Types) == 0 {
			continue
		}

		file, err := g.Assembly(pkg)
		if err != nil {
			return nil, fmt.Errorf("generating assembly for %s: %w", pkg.Path, err)
		}

		files = append(files, *file)
	}

	byPackage := make(map[string][]*analyze.Interface)

	for _, name := range common.Dedupe(proxies, func(s string) string { return s }) {
		pkg, iface, ok := res.LookupInterface(name)
		if !ok {
			return nil, fmt.Errorf("interface %s not found in loaded packages", name)
		}

		byPackage[pkg.Path] = append(byPackage[pkg.Path], iface)
	}

	for _, path := range common.SortedKeys(byPackage) {
		pkg, _ := res.Package(path)

		file, err := g.Proxies(pkg, byPackage[path]...)
		if err != nil {
			return nil, fmt.Errorf("generating proxies for %s: %w", path, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// Assembly generates the catalog file of pkg.
func (g *Generator) Assembly(pkg *analyze.Package) (*GeneratedFile, error) {
	data := &assemblyData{
		PackageName: pkg.Name,
		Imports:     groupImports([]string{"reflect", scanPackage}, pkg.Module),
		Path:        pkg.Path,
		Types:       pkg.Types,
	}

	g.logger.Debug("generating assembly",
		zap.String("package", pkg.Path),
		zap.Strings("types", pkg.Types))

	return g.render(assemblyTemplate, data, pkg.Dir, g.config.AssemblyFile)
}

// Proxies generates the adapter file for ifaces, all declared in pkg.
func (g *Generator) Proxies(pkg *analyze.Package, ifaces ...*analyze.Interface) (*GeneratedFile, error) {
	if len(ifaces) == 0 {
		return nil, fmt.Errorf("no interfaces to generate for %s", pkg.Path)
	}

	imports := []string{mapperPackage, proxyPackage}
	data := &proxyData{PackageName: pkg.Name}

	slices.SortFunc(ifaces, func(a, b *analyze.Interface) int { return strings.Compare(a.Name, b.Name) })

	for _, iface := range ifaces {
		desc, err := iface.Describe(pkg)
		if err != nil {
			return nil, err
		}

		for _, imp := range iface.Imports {
			if imp.Path != pkg.Path {
				imports = append(imports, imp.Path)
			}
		}

		data.Proxies = append(data.Proxies, proxyTypeOf(iface.Name, desc))

		g.logger.Debug("generating proxy",
			zap.String("interface", desc.Interface),
			zap.Int("methods", len(desc.Methods())))
	}

	data.Imports = groupImports(imports, pkg.Module)

	return g.render(proxyTemplate, data, pkg.Dir, g.config.ProxyFile)
}

func proxyTypeOf(name string, desc *proxy.Descriptor) proxyType {
	pt := proxyType{
		Interface:   name,
		Impl:        lowerFirst(name) + "Proxy",
		Constructor: "new" + name + "Proxy",
	}

	for _, m := range desc.Methods() {
		pt.Methods = append(pt.Methods, methodOf(m))
	}

	return pt
}

// methodOf renders the adapter method forwarding m to the mapper.
func methodOf(m *proxy.Method) methodData {
	params := m.Signature.Params
	md := methodData{Name: m.Name(), ReturnsError: m.ReturnsError}

	result := m.Signature.Results[0].Name
	if m.ReturnsError {
		md.Results = "(" + result + ", error)"
	} else {
		md.Results = result
	}

	src, dst := m.Source.Name, m.Destination.Name

	switch m.Pattern {
	case proxy.DestinationOnly:
		md.Params = "source " + params[0].Name
		md.Call = fmt.Sprintf("mapper.Map[%s](p.mapper, source)", dst)
	case proxy.Typed:
		md.Params = "source " + src
		md.Call = fmt.Sprintf("mapper.MapTo[%s, %s](p.mapper, source)", src, dst)
	case proxy.TypedInto:
		md.Params = "source " + src + ", destination " + dst
		md.Call = fmt.Sprintf("mapper.MapInto[%s, %s](p.mapper, source, destination)", src, dst)
	case proxy.Dynamic:
		md.Params = fmt.Sprintf("source %s, sourceType, destinationType %s", params[0].Name, params[1].Name)
		md.Call = "p.mapper.MapType(source, sourceType, destinationType)"
	case proxy.DynamicInto:
		md.Params = fmt.Sprintf("source, destination %s, sourceType, destinationType %s", params[0].Name, params[2].Name)
		md.Call = "p.mapper.MapTypeInto(source, destination, sourceType, destinationType)"
	}

	return md
}

// groupImports sorts paths into the standard library group and the rest.
func groupImports(paths []string, module string) importGroups {
	var groups importGroups

	paths = slices.Clone(paths)
	slices.Sort(paths)

	for _, path := range slices.Compact(paths) {
		if analyze.IsStandard(path, module) {
			groups.Standard = append(groups.Standard, importSpec{Path: path})
		} else {
			groups.Other = append(groups.Other, importSpec{Path: path})
		}
	}

	return groups
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// render executes tmpl and formats the result.
func (g *Generator) render(tmpl *template.Template, data any, dir, filename string) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code for debugging.
		if g.config.DebugDir != "" {
			_ = writeDebugUnformatted(g.config.DebugDir, filename, buf.Bytes())
		}

		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}

	return &GeneratedFile{Dir: dir, Filename: filename, Content: formatted}, nil
}
