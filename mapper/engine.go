package mapper

import (
	"reflect"
)

// convert writes src into dst. dst must be settable.
func (m *Mapper) convert(ctx *ResolutionContext, src, dst reflect.Value) error {
	s := m.config.plan(src.Type(), dst.Type())

	switch s.kind {
	case stepTypeMap:
		return m.run(ctx, s.tm, src, dst)
	case stepCopy:
		dst.Set(src)
	case stepConvert:
		dst.Set(src.Convert(dst.Type()))
	case stepUnwrap, stepDeref:
		if src.IsNil() {
			dst.SetZero()
			return nil
		}

		return m.convert(ctx, src.Elem(), dst)
	case stepAlloc:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}

		return m.convert(ctx, src, dst.Elem())
	case stepSlice:
		return m.convertSlice(ctx, src, dst)
	case stepMap:
		return m.convertMap(ctx, src, dst)
	default:
		return &MissingMapError{Source: src.Type(), Destination: dst.Type()}
	}

	return nil
}

func (m *Mapper) convertSlice(ctx *ResolutionContext, src, dst reflect.Value) error {
	if src.Kind() == reflect.Slice && src.IsNil() {
		dst.SetZero()
		return nil
	}

	out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
	for i := range src.Len() {
		if err := m.convert(ctx, src.Index(i), out.Index(i)); err != nil {
			return err
		}
	}

	dst.Set(out)

	return nil
}

func (m *Mapper) convertMap(ctx *ResolutionContext, src, dst reflect.Value) error {
	if src.IsNil() {
		dst.SetZero()
		return nil
	}

	dt := dst.Type()
	out := reflect.MakeMapWithSize(dt, src.Len())

	iter := src.MapRange()
	for iter.Next() {
		k := reflect.New(dt.Key()).Elem()
		if err := m.convert(ctx, iter.Key(), k); err != nil {
			return err
		}

		v := reflect.New(dt.Elem()).Elem()
		if err := m.convert(ctx, iter.Value(), v); err != nil {
			return err
		}

		out.SetMapIndex(k, v)
	}

	dst.Set(out)

	return nil
}

// run applies a type map. src has the map's source type, dst its destination type.
func (m *Mapper) run(ctx *ResolutionContext, tm *TypeMap, src, dst reflect.Value) error {
	ctx.depth++
	defer func() { ctx.depth-- }()

	if ctx.depth > m.config.maxDepth {
		return tm.fail("", &DepthError{Limit: m.config.maxDepth})
	}

	if tm.converter != nil {
		out, err := tm.converter(ctx, src, dst)
		if err != nil {
			return tm.fail("", err)
		}

		if out.IsValid() {
			dst.Set(out)
		}

		return nil
	}

	for _, h := range tm.before {
		if err := h(ctx, src, dst); err != nil {
			return tm.fail("", err)
		}
	}

	target := dst
	if target.Kind() == reflect.Pointer {
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}

		target = target.Elem()
	}

	if target.Kind() == reflect.Struct {
		for i := range tm.bindings {
			if err := m.bind(ctx, tm, &tm.bindings[i], src, dst, target); err != nil {
				return err
			}
		}
	}

	for _, h := range tm.after {
		if err := h(ctx, src, dst); err != nil {
			return tm.fail("", err)
		}
	}

	return nil
}

func (m *Mapper) bind(ctx *ResolutionContext, tm *TypeMap, b *binding, src, dst, target reflect.Value) error {
	field, ok := fieldByIndexAlloc(target, b.index)
	if !ok {
		return nil
	}

	var (
		v   reflect.Value
		err error
	)

	switch {
	case b.member != nil && b.member.ignore:
		return nil
	case b.member != nil && b.member.resolve != nil:
		v, err = b.member.resolve(ctx, src, dst, field)
	case b.source != nil:
		v, err = b.source.read(src)
	default:
		return nil
	}

	if err != nil {
		return tm.fail(b.name, err)
	}

	if !v.IsValid() {
		return nil
	}

	if err := m.convert(ctx, v, field); err != nil {
		return tm.fail(b.name, err)
	}

	return nil
}

// fieldByIndexAlloc walks index, allocating nil embedded pointers on the way.
func fieldByIndexAlloc(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, v.CanSet()
}
