package mapper

import (
	"errors"
	"reflect"
)

// Mapper runs mappings against a configuration. It is cheap to create and
// holds no per-call state.
type Mapper struct {
	config      *Configuration
	serviceCtor ServiceCtor
}

// Configuration returns the configuration the mapper runs against.
func (m *Mapper) Configuration() *Configuration {
	return m.config
}

// ServiceCtor returns the service constructor used for resolvers and converters.
func (m *Mapper) ServiceCtor() ServiceCtor {
	return m.serviceCtor
}

// MapType maps source to a new value of destinationType.
func (m *Mapper) MapType(source any, sourceType, destinationType reflect.Type) (any, error) {
	return m.MapTypeInto(source, nil, sourceType, destinationType)
}

// MapTypeInto maps source onto destination and returns the result. Pointer
// destinations are filled in place; value destinations are copied first.
// A nil sourceType is taken from the source value.
func (m *Mapper) MapTypeInto(source, destination any, sourceType, destinationType reflect.Type) (any, error) {
	if sourceType == nil {
		if source == nil {
			return nil, &InvalidTypeError{Reason: "source type is required for a nil source"}
		}

		sourceType = reflect.TypeOf(source)
	}

	if destinationType == nil {
		return nil, &InvalidTypeError{Reason: "destination type is required"}
	}

	src, err := valueAs(source, sourceType)
	if err != nil {
		return nil, err
	}

	dst := reflect.New(destinationType).Elem()

	if destination != nil {
		dv, err := valueAs(destination, destinationType)
		if err != nil {
			return nil, err
		}

		dst.Set(dv)
	}

	ctx := &ResolutionContext{Items: make(map[string]any), mapper: m}
	if err := m.convert(ctx, src, dst); err != nil {
		return nil, err
	}

	return dst.Interface(), nil
}

// Map maps source, typed by its dynamic type, to a new D. A nil source yields the zero D.
func Map[D any](m *Mapper, source any) (D, error) {
	if source == nil {
		var zero D
		return zero, nil
	}

	out, err := m.MapTypeInto(source, nil, reflect.TypeOf(source), reflect.TypeFor[D]())
	if err != nil {
		var zero D
		return zero, err
	}

	return as[D](out)
}

// MapTo maps a typed source to a new D.
func MapTo[S, D any](m *Mapper, source S) (D, error) {
	out, err := m.MapTypeInto(source, nil, reflect.TypeFor[S](), reflect.TypeFor[D]())
	if err != nil {
		var zero D
		return zero, err
	}

	return as[D](out)
}

// MapInto maps a typed source onto destination and returns it.
func MapInto[S, D any](m *Mapper, source S, destination D) (D, error) {
	out, err := m.MapTypeInto(source, destination, reflect.TypeFor[S](), reflect.TypeFor[D]())
	if err != nil {
		var zero D
		return zero, err
	}

	return as[D](out)
}

func as[D any](v any) (D, error) {
	var zero D
	if v == nil {
		return zero, nil
	}

	out, ok := v.(D)
	if !ok {
		return zero, &InvalidTypeError{Type: reflect.TypeOf(v), Reason: "mapping result is not " + reflect.TypeFor[D]().String()}
	}

	return out, nil
}

func valueAs(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return rv, nil
	}

	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)

		return out, nil
	}

	return reflect.Value{}, &InvalidTypeError{Type: rv.Type(), Reason: "not assignable to " + t.String()}
}

// IsMissingMap reports whether err was caused by a missing type map.
func IsMissingMap(err error) bool {
	var mm *MissingMapError
	return errors.As(err, &mm)
}
