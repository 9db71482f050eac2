package proxy

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"mapwire/mapper"
)

type adapter struct {
	implementation reflect.Type
	ctor           func(m *mapper.Mapper) any
}

// module holds the adapters generated code emitted into this process.
var module = struct {
	adapters map[reflect.Type]adapter
	mu       sync.RWMutex
}{adapters: make(map[reflect.Type]adapter)}

// Emit registers ctor as the adapter constructor for interface I. Generated
// code calls it from init; a later Emit for the same interface replaces the
// earlier one.
func Emit[I any](ctor func(m *mapper.Mapper) I) {
	iface := reflect.TypeFor[I]()

	module.mu.Lock()
	defer module.mu.Unlock()

	module.adapters[iface] = adapter{
		implementation: reflect.TypeOf(ctor(nil)),
		ctor: func(m *mapper.Mapper) any {
			return ctor(m)
		},
	}
}

// Emitted returns the interfaces that have an adapter, sorted by name.
func Emitted() []reflect.Type {
	module.mu.RLock()
	defer module.mu.RUnlock()

	out := make([]reflect.Type, 0, len(module.adapters))
	for t := range module.adapters {
		out = append(out, t)
	}

	slices.SortFunc(out, func(a, b reflect.Type) int {
		return strings.Compare(TypeKey(a), TypeKey(b))
	})

	return out
}

func lookupAdapter(iface reflect.Type) (adapter, bool) {
	module.mu.RLock()
	defer module.mu.RUnlock()

	a, ok := module.adapters[iface]

	return a, ok
}
