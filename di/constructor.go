package di

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Constructor turns a constructor function into a Factory. fn must have the
// form func(deps...) T or func(deps...) (T, error); each parameter is resolved
// by type. The returned type is T.
func Constructor(fn any) (Factory, reflect.Type, error) {
	if fn == nil {
		return nil, nil, &InvalidConstructorError{Reason: "constructor is nil"}
	}

	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, nil, &InvalidConstructorError{Type: fnType, Reason: "not a function"}
	}

	if fnType.IsVariadic() {
		return nil, nil, &InvalidConstructorError{Type: fnType, Reason: "variadic constructors are not supported"}
	}

	var hasError bool

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, nil, &InvalidConstructorError{Type: fnType, Reason: "second return value must be error"}
		}

		hasError = true
	default:
		return nil, nil, &InvalidConstructorError{Type: fnType, Reason: "must return T or (T, error)"}
	}

	serviceType := fnType.Out(0)

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	factory := func(r Resolver) (any, error) {
		args := make([]reflect.Value, len(params))

		for i, p := range params {
			dep, err := r.Resolve(p)
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%v): %w", i, p, err)
			}

			args[i] = reflect.ValueOf(dep)
		}

		out := fnValue.Call(args)

		if hasError && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}

		return out[0].Interface(), nil
	}

	return factory, serviceType, nil
}

// AddConstructor registers fn, parsed by Constructor, under its return type.
func AddConstructor(c *Container, lifetime Lifetime, fn any) error {
	factory, serviceType, err := Constructor(fn)
	if err != nil {
		return err
	}

	return c.Add(Descriptor{ServiceType: serviceType, Lifetime: lifetime, Factory: factory})
}
