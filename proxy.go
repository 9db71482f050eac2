package mapwire

import (
	"errors"
	"reflect"

	"mapwire/di"
	"mapwire/mapper"
	"mapwire/proxy"
)

// ErrMapperNotRegistered is returned by AddProxy before AddMapper.
var ErrMapperNotRegistered = errors.New("mapper not registered; call AddMapper first")

// AddProxy registers interface I, implemented by its generated adapter around
// the mapper of the resolving scope. It fails when I is not a valid mapper
// interface or has no generated adapter. I is registered with the mapper's
// lifetime; a second call is a no-op.
func AddProxy[I any](c *di.Container) error {
	d, ok := c.Descriptor(reflect.TypeFor[*mapper.Mapper]())
	if !ok {
		return ErrMapperNotRegistered
	}

	newProxy, err := proxy.Factory[I]()
	if err != nil {
		return err
	}

	_, err = di.TryAdd(c, d.Lifetime, func(r di.Resolver) (I, error) {
		m, err := di.Get[*mapper.Mapper](r)
		if err != nil {
			var zero I
			return zero, err
		}

		return newProxy(m), nil
	})

	return err
}
