package di

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const injectTag = "inject"

// injectOptions represents parsed options from an inject tag.
type injectOptions struct {
	skip     bool
	optional bool
}

// parseInjectTag parses an inject struct tag.
// Supported formats:
//   - `inject:""` - required injection
//   - `inject:"optional"` - left zero when the type is not registered
//   - `inject:"-"` - never injected
func parseInjectTag(tag string) injectOptions {
	opts := injectOptions{}

	if tag == "-" {
		opts.skip = true
		return opts
	}

	for part := range strings.SplitSeq(tag, ",") {
		if strings.TrimSpace(part) == "optional" {
			opts.optional = true
		}
	}

	return opts
}

// Construct builds an instance of t, which must be a struct or a pointer to a
// struct, resolving every `inject` tagged field from r. t need not be
// registered. An unresolvable required field fails the whole construction.
func Construct(r Resolver, t reflect.Type) (any, error) {
	if t == nil {
		return nil, &ResolutionError{Cause: errors.New("cannot construct nil type")}
	}

	structType := t
	if t.Kind() == reflect.Pointer {
		structType = t.Elem()
	}

	if structType.Kind() != reflect.Struct {
		return nil, &ResolutionError{
			ServiceType: t,
			Cause:       fmt.Errorf("only structs and pointers to structs can be constructed, got %v", t.Kind()),
		}
	}

	ptr := reflect.New(structType)
	if err := inject(r, ptr.Elem()); err != nil {
		return nil, &ResolutionError{ServiceType: t, Cause: err}
	}

	if t.Kind() == reflect.Pointer {
		return ptr.Interface(), nil
	}

	return ptr.Elem().Interface(), nil
}

// Inject fills the `inject` tagged fields of the struct target points to.
func Inject(r Resolver, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("inject requires a non-nil pointer to struct, got %T", target)
	}

	return inject(r, v.Elem())
}

func inject(r Resolver, structValue reflect.Value) error {
	structType := structValue.Type()

	for i := range structType.NumField() {
		field := structType.Field(i)

		tag, ok := field.Tag.Lookup(injectTag)
		if !ok {
			continue
		}

		opts := parseInjectTag(tag)
		if opts.skip {
			continue
		}

		if !field.IsExported() {
			return fmt.Errorf("field %s is tagged for injection but unexported", field.Name)
		}

		dep, err := r.Resolve(field.Type)
		if err != nil {
			var notRegistered *NotRegisteredError
			if opts.optional && errors.As(err, &notRegistered) && notRegistered.Type == field.Type {
				continue
			}

			return fmt.Errorf("failed to inject field %s: %w", field.Name, err)
		}

		structValue.Field(i).Set(reflect.ValueOf(dep))
	}

	return nil
}
