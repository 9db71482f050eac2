// Package digwire registers a mapper configuration and mapper into a
// go.uber.org/dig container.
package digwire

import (
	"reflect"

	"go.uber.org/dig"

	"mapwire"
	"mapwire/di"
	"mapwire/mapper"
	"mapwire/proxy"
)

type resolver struct {
	c *dig.Container
}

// Resolver resolves services from c. A type c does not provide, or provides
// as its zero value, resolves to *di.NotRegisteredError.
func Resolver(c *dig.Container) di.Resolver {
	return resolver{c: c}
}

func (r resolver) Resolve(t reflect.Type) (any, error) {
	params := reflect.StructOf([]reflect.StructField{
		{Name: "In", Type: reflect.TypeFor[dig.In](), Anonymous: true},
		{Name: "Value", Type: t, Tag: `optional:"true"`},
	})

	var out reflect.Value

	fn := reflect.MakeFunc(reflect.FuncOf([]reflect.Type{params}, nil, false), func(args []reflect.Value) []reflect.Value {
		out = args[0].Field(1)
		return nil
	})

	if err := r.c.Invoke(fn.Interface()); err != nil {
		return nil, &di.ResolutionError{ServiceType: t, Cause: err}
	}

	if !out.IsValid() || out.IsZero() {
		return nil, &di.NotRegisteredError{Type: t}
	}

	return out.Interface(), nil
}

// Provide registers *mapper.Configuration and *mapper.Mapper into c. The
// configuration is built on first use from opts; profile dependencies and
// mapper services are resolved from c, and capability types c does not
// provide are constructed with their `inject` fields resolved from c.
func Provide(c *dig.Container, opts mapwire.Options) error {
	r := Resolver(c)

	if err := c.Provide(func() (*mapper.Configuration, error) {
		cfg, _, err := mapwire.Build(r, opts)
		return cfg, err
	}); err != nil {
		return err
	}

	return c.Provide(func(cfg *mapper.Configuration) *mapper.Mapper {
		return cfg.NewMapper(mapwire.ServiceCtor(r))
	})
}

// ProvideProxy registers the generated adapter for interface I, built on
// the container's mapper.
func ProvideProxy[I any](c *dig.Container) error {
	newProxy, err := proxy.Factory[I]()
	if err != nil {
		return err
	}

	return c.Provide(func(m *mapper.Mapper) I {
		return newProxy(m)
	})
}
