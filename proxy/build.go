package proxy

import (
	"fmt"
	"reflect"
	"sync"

	"mapwire/mapper"
)

// Type is a validated interface together with its generated adapter.
type Type struct {
	Interface      reflect.Type
	Implementation reflect.Type
	Descriptor     *Descriptor

	ctor func(m *mapper.Mapper) any
}

// New returns an adapter forwarding to m. The result implements Interface.
func (t *Type) New(m *mapper.Mapper) any {
	return t.ctor(m)
}

var cache = struct {
	types map[reflect.Type]*Type
	mu    sync.Mutex
}{types: make(map[reflect.Type]*Type)}

// Build describes iface and binds it to its generated adapter. Successful
// results are cached; repeated calls return the same *Type.
func Build(iface reflect.Type) (*Type, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if t, ok := cache.types[iface]; ok {
		return t, nil
	}

	d, err := Describe(iface)
	if err != nil {
		return nil, err
	}

	a, ok := lookupAdapter(iface)
	if !ok {
		return nil, &NotGeneratedError{Interface: d.Interface}
	}

	if a.implementation == nil || !a.implementation.Implements(iface) {
		return nil, &NotGeneratedError{
			Interface: d.Interface,
			Reason:    fmt.Sprintf("adapter %v does not implement the interface", a.implementation),
		}
	}

	t := &Type{
		Interface:      iface,
		Implementation: a.implementation,
		Descriptor:     d,
		ctor:           a.ctor,
	}
	cache.types[iface] = t

	return t, nil
}

// Factory returns a constructor of adapters for I.
func Factory[I any]() (func(m *mapper.Mapper) I, error) {
	t, err := Build(reflect.TypeFor[I]())
	if err != nil {
		return nil, err
	}

	return func(m *mapper.Mapper) I {
		return t.New(m).(I)
	}, nil
}
