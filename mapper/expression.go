package mapper

import (
	"reflect"
)

// MapExpression configures one type map.
type MapExpression[S, D any] struct {
	tm      *TypeMap
	profile *ProfileExpression
}

// CreateMap declares a map from S to D in the profile.
func CreateMap[S, D any](p *ProfileExpression) *MapExpression[S, D] {
	return &MapExpression[S, D]{
		tm:      p.add(reflect.TypeFor[S](), reflect.TypeFor[D]()),
		profile: p,
	}
}

// TypeMap returns the type map being configured.
func (e *MapExpression[S, D]) TypeMap() *TypeMap {
	return e.tm
}

// ForMember configures how destination member name is filled.
func (e *MapExpression[S, D]) ForMember(name string, opt MemberOption[S, D]) *MapExpression[S, D] {
	opt(e.tm.member(name))
	return e
}

// Ignore leaves the named destination members untouched.
func (e *MapExpression[S, D]) Ignore(names ...string) *MapExpression[S, D] {
	for _, name := range names {
		e.tm.member(name).ignore = true
	}

	return e
}

// BeforeMap runs fn before any member is mapped.
func (e *MapExpression[S, D]) BeforeMap(fn func(source S, destination *D)) *MapExpression[S, D] {
	e.tm.before = append(e.tm.before, func(_ *ResolutionContext, src, dst reflect.Value) error {
		fn(typed[S](src), dst.Addr().Interface().(*D))
		return nil
	})

	return e
}

// AfterMap runs fn after all members are mapped.
func (e *MapExpression[S, D]) AfterMap(fn func(source S, destination *D)) *MapExpression[S, D] {
	e.tm.after = append(e.tm.after, func(_ *ResolutionContext, src, dst reflect.Value) error {
		fn(typed[S](src), dst.Addr().Interface().(*D))
		return nil
	})

	return e
}

// ConvertUsingFunc replaces member mapping with fn.
func (e *MapExpression[S, D]) ConvertUsingFunc(fn func(source S, destination D, ctx *ResolutionContext) (D, error)) *MapExpression[S, D] {
	e.tm.converter = func(ctx *ResolutionContext, src, dst reflect.Value) (reflect.Value, error) {
		out, err := fn(typed[S](src), typed[D](dst), ctx)
		return valueOf(out), err
	}

	return e
}

// ReverseMap declares the convention-only map from D back to S in the same profile.
func (e *MapExpression[S, D]) ReverseMap() *MapExpression[D, S] {
	return CreateMap[D, S](e.profile)
}

// ConvertUsing replaces member mapping with a TypeConverter constructed
// through the ServiceCtor on every mapping.
func ConvertUsing[C TypeConverter[S, D], S, D any](e *MapExpression[S, D]) *MapExpression[S, D] {
	e.tm.converterType = reflect.TypeFor[C]()
	e.tm.converter = func(ctx *ResolutionContext, src, dst reflect.Value) (reflect.Value, error) {
		c, err := service[C](ctx)
		if err != nil {
			return reflect.Value{}, err
		}

		out, err := c.Convert(typed[S](src), typed[D](dst), ctx)

		return valueOf(out), err
	}

	return e
}

// BeforeMapAction runs a MappingAction constructed through the ServiceCtor
// before members are mapped.
func BeforeMapAction[A MappingAction[S, D], S, D any](e *MapExpression[S, D]) *MapExpression[S, D] {
	e.tm.before = append(e.tm.before, actionHook[A, S, D]())
	return e
}

// AfterMapAction runs a MappingAction constructed through the ServiceCtor
// after members are mapped.
func AfterMapAction[A MappingAction[S, D], S, D any](e *MapExpression[S, D]) *MapExpression[S, D] {
	e.tm.after = append(e.tm.after, actionHook[A, S, D]())
	return e
}

func actionHook[A MappingAction[S, D], S, D any]() hook {
	return func(ctx *ResolutionContext, src, dst reflect.Value) error {
		a, err := service[A](ctx)
		if err != nil {
			return err
		}

		return a.Process(typed[S](src), dst.Addr().Interface().(*D), ctx)
	}
}

// MemberOption configures one destination member.
type MemberOption[S, D any] func(m *memberMap)

// MapFrom fills the member with fn(source).
func MapFrom[S, D, M any](fn func(source S) M) MemberOption[S, D] {
	return func(m *memberMap) {
		m.resolve = func(_ *ResolutionContext, src, _, _ reflect.Value) (reflect.Value, error) {
			return valueOf(fn(typed[S](src))), nil
		}
	}
}

// UseValue fills the member with a constant.
func UseValue[S, D, M any](v M) MemberOption[S, D] {
	return func(m *memberMap) {
		m.resolve = func(_ *ResolutionContext, _, _, _ reflect.Value) (reflect.Value, error) {
			return valueOf(v), nil
		}
	}
}

// ResolveUsing fills the member with a ValueResolver constructed through the ServiceCtor.
func ResolveUsing[R ValueResolver[S, D, M], S, D, M any]() MemberOption[S, D] {
	return func(m *memberMap) {
		m.serviceType = reflect.TypeFor[R]()
		m.resolve = func(ctx *ResolutionContext, src, dst, current reflect.Value) (reflect.Value, error) {
			r, err := service[R](ctx)
			if err != nil {
				return reflect.Value{}, err
			}

			out, err := r.Resolve(typed[S](src), typed[D](dst), typed[M](current), ctx)

			return valueOf(out), err
		}
	}
}

// ResolveMemberUsing fills the member with a MemberValueResolver applied to from(source).
func ResolveMemberUsing[R MemberValueResolver[S, D, SM, DM], S, D, SM, DM any](from func(source S) SM) MemberOption[S, D] {
	return func(m *memberMap) {
		m.serviceType = reflect.TypeFor[R]()
		m.resolve = func(ctx *ResolutionContext, src, dst, current reflect.Value) (reflect.Value, error) {
			r, err := service[R](ctx)
			if err != nil {
				return reflect.Value{}, err
			}

			s := typed[S](src)
			out, err := r.Resolve(s, typed[D](dst), from(s), typed[DM](current), ctx)

			return valueOf(out), err
		}
	}
}

// ConvertFrom fills the member with a ValueConverter applied to from(source).
func ConvertFrom[C ValueConverter[SM, DM], S, D, SM, DM any](from func(source S) SM) MemberOption[S, D] {
	return func(m *memberMap) {
		m.serviceType = reflect.TypeFor[C]()
		m.resolve = func(ctx *ResolutionContext, src, _, _ reflect.Value) (reflect.Value, error) {
			c, err := service[C](ctx)
			if err != nil {
				return reflect.Value{}, err
			}

			out, err := c.Convert(from(typed[S](src)), ctx)

			return valueOf(out), err
		}
	}
}

func valueOf[T any](v T) reflect.Value {
	return reflect.ValueOf(&v).Elem()
}

// typed reads a reflect.Value as T, converting where reflect allows it.
func typed[T any](v reflect.Value) T {
	var zero T

	if !v.IsValid() || !v.CanInterface() {
		return zero
	}

	if out, ok := v.Interface().(T); ok {
		return out
	}

	t := reflect.TypeFor[T]()
	if v.Type().ConvertibleTo(t) {
		if out, ok := v.Convert(t).Interface().(T); ok {
			return out
		}
	}

	return zero
}
