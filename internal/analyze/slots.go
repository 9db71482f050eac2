package analyze

import (
	"go/types"
	"path"
	"reflect"
	"strconv"
	"strings"

	"mapwire/proxy"
)

// slotOf describes a go/types type the way proxy.SlotOf describes the
// matching reflect type, so both front ends classify alike. Name is the
// type as written in pkg, with q recording the packages it references.
func slotOf(t types.Type, q types.Qualifier) proxy.Slot {
	s := proxy.Slot{Key: typeKey(t), Name: typeName(t, q)}

	switch {
	case isReflectType(t):
		s.Kind = proxy.SlotType
	case types.Identical(t, types.Universe.Lookup("error").Type()):
		s.Kind = proxy.SlotError
	case types.IsInterface(t) && isEmptyInterface(t):
		s.Kind = proxy.SlotAny
	case types.IsInterface(t):
		s.Kind = proxy.SlotInterface
	default:
		s.Kind = proxy.SlotValue
	}

	return s
}

func isReflectType(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj.Pkg() != nil && obj.Pkg().Path() == "reflect" && obj.Name() == "Type"
}

func isEmptyInterface(t types.Type) bool {
	iface, ok := types.Unalias(t).Underlying().(*types.Interface)
	return ok && iface.Empty()
}

// typeKey renders t with full package paths; it agrees with proxy.TypeKey.
func typeKey(t types.Type) string {
	switch tt := types.Unalias(t).(type) {
	case *types.Named:
		obj := tt.Obj()

		name := obj.Name()
		if args := tt.TypeArgs(); args.Len() > 0 {
			keys := make([]string, args.Len())
			for i := range args.Len() {
				keys[i] = typeKey(args.At(i))
			}

			// reflect names instantiations with unspaced commas.
			name += "[" + strings.Join(keys, ",") + "]"
		}

		if obj.Pkg() == nil {
			return name
		}

		return obj.Pkg().Path() + "." + name
	case *types.Basic:
		return tt.Name()
	case *types.Pointer:
		return "*" + typeKey(tt.Elem())
	case *types.Slice:
		return "[]" + typeKey(tt.Elem())
	case *types.Array:
		return "[" + strconv.FormatInt(tt.Len(), 10) + "]" + typeKey(tt.Elem())
	case *types.Map:
		return "map[" + typeKey(tt.Key()) + "]" + typeKey(tt.Elem())
	case *types.Chan:
		switch tt.Dir() {
		case types.RecvOnly:
			return "<-chan " + typeKey(tt.Elem())
		case types.SendOnly:
			return "chan<- " + typeKey(tt.Elem())
		default:
			return "chan " + typeKey(tt.Elem())
		}
	case *types.Interface:
		if tt.Empty() {
			return "any"
		}
	}

	return types.TypeString(t, nil)
}

// typeName renders t as Go source in the package q qualifies for.
func typeName(t types.Type, q types.Qualifier) string {
	if _, ok := t.(*types.Interface); ok && isEmptyInterface(t) {
		return "any"
	}

	return types.TypeString(t, q)
}

// qualifier writes package-local names for pkg and records every other
// package it is asked about.
type qualifier struct {
	pkg     *types.Package
	module  string
	imports map[string]Import
}

func newQualifier(pkg *types.Package, module string) *qualifier {
	return &qualifier{pkg: pkg, module: module, imports: make(map[string]Import)}
}

func (q *qualifier) qualify(p *types.Package) string {
	if p == q.pkg {
		return ""
	}

	q.imports[p.Path()] = Import{Path: p.Path(), Name: p.Name(), Standard: IsStandard(p.Path(), q.module)}

	return p.Name()
}

// libraryModule is the module of the packages generated code imports.
var libraryModule = path.Dir(reflect.TypeFor[proxy.Type]().PkgPath())

// IsStandard reports whether importPath looks like a standard library
// package: no dot in its first element, and inside neither module nor the
// module generated code imports.
func IsStandard(importPath, module string) bool {
	for _, m := range []string{module, libraryModule} {
		if m != "" && (importPath == m || strings.HasPrefix(importPath, m+"/")) {
			return false
		}
	}

	first, _, _ := strings.Cut(importPath, "/")

	return !strings.Contains(first, ".")
}
