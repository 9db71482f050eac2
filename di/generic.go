package di

import (
	"fmt"
	"reflect"
)

// Add registers factory under T.
func Add[T any](c *Container, lifetime Lifetime, factory func(r Resolver) (T, error)) error {
	return c.Add(descriptorFor(lifetime, factory))
}

// TryAdd registers factory under T unless T is already registered.
func TryAdd[T any](c *Container, lifetime Lifetime, factory func(r Resolver) (T, error)) (bool, error) {
	return c.TryAdd(descriptorFor(lifetime, factory))
}

// Instance registers v as the singleton for T.
func Instance[T any](c *Container, v T) error {
	return Add(c, Singleton, func(Resolver) (T, error) {
		return v, nil
	})
}

// Get resolves T from r.
func Get[T any](r Resolver) (T, error) {
	var zero T

	v, err := r.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{
			ServiceType: reflect.TypeFor[T](),
			Cause:       fmt.Errorf("resolved %T", v),
		}
	}

	return typed, nil
}

// MustGet resolves T from r and panics on failure.
func MustGet[T any](r Resolver) T {
	v, err := Get[T](r)
	if err != nil {
		panic(err)
	}

	return v
}

func descriptorFor[T any](lifetime Lifetime, factory func(r Resolver) (T, error)) Descriptor {
	d := Descriptor{ServiceType: reflect.TypeFor[T](), Lifetime: lifetime}
	if factory != nil {
		d.Factory = func(r Resolver) (any, error) {
			return factory(r)
		}
	}

	return d
}
