package mapper

import (
	"errors"
	"reflect"
)

// ValueResolver computes a destination member from the whole source.
type ValueResolver[S, D, M any] interface {
	Resolve(source S, destination D, destMember M, ctx *ResolutionContext) (M, error)
}

// MemberValueResolver computes a destination member from one source member.
type MemberValueResolver[S, D, SM, DM any] interface {
	Resolve(source S, destination D, sourceMember SM, destMember DM, ctx *ResolutionContext) (DM, error)
}

// TypeConverter maps a whole source value to a destination value.
type TypeConverter[S, D any] interface {
	Convert(source S, destination D, ctx *ResolutionContext) (D, error)
}

// ValueConverter converts a single member value.
type ValueConverter[SM, DM any] interface {
	Convert(sourceMember SM, ctx *ResolutionContext) (DM, error)
}

// MappingAction runs against a source and the destination being filled.
type MappingAction[S, D any] interface {
	Process(source S, destination *D, ctx *ResolutionContext) error
}

// ServiceCtor constructs resolver, converter and action instances by type.
type ServiceCtor func(t reflect.Type) (any, error)

// DefaultServiceCtor allocates pointer-to-struct types and zero values of
// struct types. Anything else needs a real service constructor.
func DefaultServiceCtor(t reflect.Type) (any, error) {
	switch {
	case t == nil:
		return nil, &ServiceError{Err: errors.New("nil service type")}
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()).Interface(), nil
	case t.Kind() == reflect.Struct:
		return reflect.Zero(t).Interface(), nil
	default:
		return nil, &ServiceError{Type: t, Err: errors.New("no service constructor for non-struct type")}
	}
}

// ResolutionContext is passed through one top-level mapping call.
type ResolutionContext struct {
	// Items carries caller data through nested resolvers.
	Items map[string]any

	mapper *Mapper
	depth  int
}

// Mapper returns the mapper running the current mapping.
func (c *ResolutionContext) Mapper() *Mapper {
	return c.mapper
}

// Service constructs an instance of t through the mapper's ServiceCtor.
func (c *ResolutionContext) Service(t reflect.Type) (any, error) {
	v, err := c.mapper.serviceCtor(t)
	if err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, err
		}

		return nil, &ServiceError{Type: t, Err: err}
	}

	if v == nil {
		return nil, &ServiceError{Type: t, Err: errors.New("service constructor returned nil")}
	}

	return v, nil
}

func service[T any](ctx *ResolutionContext) (T, error) {
	var zero T

	t := reflect.TypeFor[T]()

	v, err := ctx.Service(t)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, &ServiceError{Type: t, Err: &InvalidTypeError{Type: reflect.TypeOf(v), Reason: "does not implement " + t.String()}}
	}

	return out, nil
}
