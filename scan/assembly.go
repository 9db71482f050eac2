package scan

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"mapwire/internal/common"
)

// Assembly is a catalogued package and its defined types.
type Assembly struct {
	Path  string
	Types []reflect.Type
}

func (a *Assembly) clone() *Assembly {
	return &Assembly{Path: a.Path, Types: slices.Clone(a.Types)}
}

// UnknownAssemblyError is returned when a marker names a package that was
// never registered in the catalog.
type UnknownAssemblyError struct {
	Marker reflect.Type
	Path   string
}

func (e *UnknownAssemblyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("marker %v does not belong to a package", e.Marker)
	}

	return fmt.Sprintf("package %s of marker %v is not catalogued; run mapwire gen for it", e.Path, e.Marker)
}

var catalog = struct {
	byPath map[string]*Assembly
	mu     sync.RWMutex
}{byPath: make(map[string]*Assembly)}

// Register adds a to the process catalog. Registering a path twice merges the
// type lists. It returns a snapshot of the stored assembly.
func Register(a *Assembly) *Assembly {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	stored, ok := catalog.byPath[a.Path]
	if !ok {
		stored = &Assembly{Path: a.Path}
		catalog.byPath[a.Path] = stored
	}

	for _, t := range a.Types {
		if t != nil && !slices.Contains(stored.Types, t) {
			stored.Types = append(stored.Types, t)
		}
	}

	return stored.clone()
}

// Lookup returns the catalogued assembly for a package path.
func Lookup(path string) (*Assembly, bool) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	a, ok := catalog.byPath[path]
	if !ok {
		return nil, false
	}

	return a.clone(), true
}

// Assemblies returns every catalogued assembly ordered by path.
func Assemblies() []*Assembly {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	out := make([]*Assembly, 0, len(catalog.byPath))
	for _, path := range common.SortedKeys(catalog.byPath) {
		out = append(out, catalog.byPath[path].clone())
	}

	return out
}

// Of returns the assemblies containing the marker values' types, one per
// package. A marker may be a value or a reflect.Type; pointers are followed.
func Of(markers ...any) ([]*Assembly, error) {
	var out []*Assembly

	for _, marker := range markers {
		t, ok := marker.(reflect.Type)
		if !ok {
			t = reflect.TypeOf(marker)
		}

		for t != nil && t.Kind() == reflect.Pointer && t.Name() == "" {
			t = t.Elem()
		}

		if t == nil || t.PkgPath() == "" {
			return nil, &UnknownAssemblyError{Marker: t}
		}

		a, ok := Lookup(t.PkgPath())
		if !ok {
			return nil, &UnknownAssemblyError{Marker: t, Path: t.PkgPath()}
		}

		out = append(out, a)
	}

	return Dedupe(out), nil
}

// Dedupe collapses assemblies with the same path, keeping the first.
func Dedupe(assemblies []*Assembly) []*Assembly {
	return common.Dedupe(assemblies, func(a *Assembly) string { return a.Path })
}
