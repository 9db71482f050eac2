// Package dowire registers a mapper configuration and mapper into a
// github.com/samber/do injector.
//
// do services are keyed by generic type, so services the mapper resolves by
// reflect.Type must be bound with Bind:
//
//	dowire.Provide(injector, opts, dowire.Bind[SomeService]())
package dowire

import (
	"reflect"

	"github.com/samber/do"

	"mapwire"
	"mapwire/di"
	"mapwire/mapper"
	"mapwire/proxy"
)

// Binding makes the do service of one type resolvable by reflect.Type.
type Binding struct {
	typ    reflect.Type
	invoke func(i *do.Injector) (any, error)
}

// Bind returns the binding for service type T.
func Bind[T any]() Binding {
	return Binding{
		typ: reflect.TypeFor[T](),
		invoke: func(i *do.Injector) (any, error) {
			return do.Invoke[T](i)
		},
	}
}

// Type returns the bound service type.
func (b Binding) Type() reflect.Type {
	return b.typ
}

type resolver struct {
	injector *do.Injector
	bindings map[reflect.Type]Binding
}

// Resolver resolves the bound types from i. Unbound types resolve to
// *di.NotRegisteredError.
func Resolver(i *do.Injector, bindings ...Binding) di.Resolver {
	r := &resolver{injector: i, bindings: make(map[reflect.Type]Binding, len(bindings))}
	for _, b := range bindings {
		r.bindings[b.typ] = b
	}

	return r
}

func (r *resolver) Resolve(t reflect.Type) (any, error) {
	b, ok := r.bindings[t]
	if !ok {
		return nil, &di.NotRegisteredError{Type: t}
	}

	v, err := b.invoke(r.injector)
	if err != nil {
		return nil, &di.ResolutionError{ServiceType: t, Cause: err}
	}

	return v, nil
}

// Provide registers *mapper.Configuration and *mapper.Mapper into i. Both
// are lazy singletons; the configuration is built from opts on first
// invocation.
func Provide(i *do.Injector, opts mapwire.Options, bindings ...Binding) {
	r := Resolver(i, bindings...)

	do.Provide(i, func(*do.Injector) (*mapper.Configuration, error) {
		cfg, _, err := mapwire.Build(r, opts)
		return cfg, err
	})

	do.Provide(i, func(i *do.Injector) (*mapper.Mapper, error) {
		cfg, err := do.Invoke[*mapper.Configuration](i)
		if err != nil {
			return nil, err
		}

		return cfg.NewMapper(mapwire.ServiceCtor(r)), nil
	})
}

// ProvideProxy registers the generated adapter for interface I.
func ProvideProxy[I any](i *do.Injector) error {
	newProxy, err := proxy.Factory[I]()
	if err != nil {
		return err
	}

	do.Provide(i, func(i *do.Injector) (I, error) {
		m, err := do.Invoke[*mapper.Mapper](i)
		if err != nil {
			var zero I
			return zero, err
		}

		return newProxy(m), nil
	})

	return nil
}
