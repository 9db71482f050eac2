package proxy

import (
	"go/token"
	"reflect"
)

// Method is an interface method matched to a pattern.
type Method struct {
	Pattern Pattern
	// Source is the source parameter for Typed and TypedInto.
	Source Slot
	// Destination is R for DestinationOnly, Typed and TypedInto.
	Destination  Slot
	ReturnsError bool
	Signature    Signature
}

// Name returns the interface method name.
func (m *Method) Name() string {
	return m.Signature.Name
}

// Descriptor records, for each pattern, the interface method matching it.
type Descriptor struct {
	Interface string
	methods   [PatternTotal]*Method
}

// Method returns the method matching p, or nil.
func (d *Descriptor) Method(p Pattern) *Method {
	if p < 0 || int(p) >= PatternTotal {
		return nil
	}

	return d.methods[p]
}

// Methods returns the matched methods in pattern order.
func (d *Descriptor) Methods() []*Method {
	out := make([]*Method, 0, PatternTotal)

	for _, m := range d.methods {
		if m != nil {
			out = append(out, m)
		}
	}

	return out
}

// Describe classifies the methods of interface type t.
func Describe(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, &NotInterfaceError{Type: "<nil>"}
	}

	if t.Kind() != reflect.Interface {
		return nil, &NotInterfaceError{Type: t.String()}
	}

	name := t.String()
	if t.Name() != "" {
		name = t.PkgPath() + "." + t.Name()
	}

	sigs := make([]Signature, t.NumMethod())
	for i := range sigs {
		sigs[i] = methodSignature(t.Method(i))
	}

	return DescribeSignatures(name, t.Name() != "" && token.IsExported(t.Name()), sigs)
}

// DescribeSignatures classifies methods of the interface called name.
// exported reports whether the interface itself is a named exported type.
func DescribeSignatures(name string, exported bool, methods []Signature) (*Descriptor, error) {
	if !exported {
		return nil, &NotPublicError{Interface: name}
	}

	for _, sig := range methods {
		if !sig.Exported {
			return nil, &UnsupportedMemberError{Interface: name, Member: sig.Name, Kind: "unexported method"}
		}
	}

	d := &Descriptor{Interface: name}

	for _, sig := range methods {
		m, ok := match(sig)
		if !ok {
			return nil, &UnmatchedMethodError{Interface: name, Method: sig.String()}
		}

		if prev := d.methods[m.Pattern]; prev != nil {
			return nil, &AmbiguousMethodError{
				Interface: name,
				Pattern:   m.Pattern,
				First:     prev.Signature.String(),
				Second:    sig.String(),
			}
		}

		d.methods[m.Pattern] = m
	}

	if len(d.Methods()) == 0 {
		return nil, &EmptyInterfaceError{Interface: name}
	}

	return d, nil
}

// match classifies one signature.
func match(sig Signature) (*Method, bool) {
	if sig.Variadic {
		return nil, false
	}

	m := &Method{Signature: sig}

	switch len(sig.Results) {
	case 1:
	case 2:
		if sig.Results[1].Kind != SlotError {
			return nil, false
		}

		m.ReturnsError = true
	default:
		return nil, false
	}

	r := sig.Results[0]
	p := sig.Params

	kinds := func(want ...SlotKind) bool {
		if len(p) != len(want) {
			return false
		}

		for i, k := range want {
			if p[i].Kind != k {
				return false
			}
		}

		return true
	}

	switch {
	case r.Kind == SlotValue && kinds(SlotAny):
		m.Pattern = DestinationOnly
		m.Destination = r
	case r.Kind == SlotValue && kinds(SlotValue):
		m.Pattern = Typed
		m.Source = p[0]
		m.Destination = r
	case r.Kind == SlotValue && kinds(SlotValue, SlotValue) && p[1].Key == r.Key:
		m.Pattern = TypedInto
		m.Source = p[0]
		m.Destination = r
	case r.Kind == SlotAny && kinds(SlotAny, SlotType, SlotType):
		m.Pattern = Dynamic
	case r.Kind == SlotAny && kinds(SlotAny, SlotAny, SlotType, SlotType):
		m.Pattern = DynamicInto
	default:
		return nil, false
	}

	return m, true
}
