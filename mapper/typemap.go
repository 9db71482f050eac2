package mapper

import (
	"reflect"
	"slices"

	"mapwire/internal/match"
)

var errorType = reflect.TypeFor[error]()

type typePair struct {
	source      reflect.Type
	destination reflect.Type
}

func (p typePair) String() string {
	return typeString(p.source) + " -> " + typeString(p.destination)
}

type (
	memberResolver func(ctx *ResolutionContext, src, dst, current reflect.Value) (reflect.Value, error)
	hook           func(ctx *ResolutionContext, src, dst reflect.Value) error
	converterFunc  func(ctx *ResolutionContext, src, dst reflect.Value) (reflect.Value, error)
)

type memberMap struct {
	name        string
	ignore      bool
	resolve     memberResolver
	serviceType reflect.Type
}

// TypeMap is the sealed mapping between one source and one destination type.
type TypeMap struct {
	pair          typePair
	profile       string
	members       map[string]*memberMap
	memberOrder   []string
	converter     converterFunc
	converterType reflect.Type
	before        []hook
	after         []hook

	bindings       []binding
	unknownMembers []string
}

type binding struct {
	name   string
	index  []int
	typ    reflect.Type
	member *memberMap
	source *sourceMember
}

type sourceMember struct {
	name   string
	index  []int
	method string
	addr   bool
	typ    reflect.Type
}

func newTypeMap(pair typePair, profile string) *TypeMap {
	return &TypeMap{
		pair:    pair,
		profile: profile,
		members: make(map[string]*memberMap),
	}
}

// Source returns the source type.
func (tm *TypeMap) Source() reflect.Type { return tm.pair.source }

// Destination returns the destination type.
func (tm *TypeMap) Destination() reflect.Type { return tm.pair.destination }

// Profile returns the name of the profile that declared the map.
func (tm *TypeMap) Profile() string { return tm.profile }

// HasConverter reports whether the map replaces member mapping with a converter.
func (tm *TypeMap) HasConverter() bool { return tm.converter != nil }

// ServiceTypes lists the resolver, converter and action types the map asks
// the ServiceCtor for, in declaration order.
func (tm *TypeMap) ServiceTypes() []reflect.Type {
	var out []reflect.Type
	if tm.converterType != nil {
		out = append(out, tm.converterType)
	}

	for _, name := range tm.memberOrder {
		if t := tm.members[name].serviceType; t != nil {
			out = append(out, t)
		}
	}

	return out
}

func (tm *TypeMap) String() string {
	return tm.pair.String()
}

func (tm *TypeMap) member(name string) *memberMap {
	if m, ok := tm.members[name]; ok {
		return m
	}

	m := &memberMap{name: name}
	tm.members[name] = m
	tm.memberOrder = append(tm.memberOrder, name)

	return m
}

// seal computes destination member bindings. It runs once, before the
// configuration is published.
func (tm *TypeMap) seal() {
	if tm.converter != nil {
		return
	}

	dt := indirectType(tm.pair.destination)
	if dt.Kind() != reflect.Struct {
		return
	}

	bound := make(map[string]bool)

	for _, f := range reflect.VisibleFields(dt) {
		if !f.IsExported() || (f.Anonymous && indirectType(f.Type).Kind() == reflect.Struct) {
			continue
		}

		b := binding{name: f.Name, index: f.Index, typ: f.Type}
		if m, ok := tm.members[f.Name]; ok {
			b.member = m
			bound[f.Name] = true
		} else {
			b.source = findSourceMember(tm.pair.source, f.Name)
		}

		tm.bindings = append(tm.bindings, b)
	}

	for _, name := range tm.memberOrder {
		if !bound[name] {
			tm.unknownMembers = append(tm.unknownMembers, name)
		}
	}
}

func (tm *TypeMap) destinationNames() []string {
	names := make([]string, 0, len(tm.bindings))
	for _, b := range tm.bindings {
		names = append(names, b.name)
	}

	return names
}

func (tm *TypeMap) fail(member string, err error) error {
	return &MappingError{
		Source:      tm.pair.source,
		Destination: tm.pair.destination,
		Member:      member,
		Err:         err,
	}
}

func indirectType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}

// findSourceMember looks for a field, then a getter, matching a destination
// member name. Exact names win over normalized matches.
func findSourceMember(st reflect.Type, name string) *sourceMember {
	base := indirectType(st)
	if base.Kind() == reflect.Struct {
		var fuzzy *sourceMember

		for _, f := range reflect.VisibleFields(base) {
			if !f.IsExported() {
				continue
			}

			if f.Name == name {
				return &sourceMember{name: f.Name, index: f.Index, typ: f.Type}
			}

			if fuzzy == nil && match.SameMember(f.Name, name) {
				fuzzy = &sourceMember{name: f.Name, index: f.Index, typ: f.Type}
			}
		}

		if fuzzy != nil {
			return fuzzy
		}
	}

	for _, candidate := range []string{name, "Get" + name} {
		if m := findGetter(st, candidate, false); m != nil {
			return m
		}

		if st.Kind() != reflect.Pointer && st.Kind() != reflect.Interface {
			if m := findGetter(reflect.PointerTo(st), candidate, true); m != nil {
				return m
			}
		}
	}

	return nil
}

func findGetter(t reflect.Type, name string, addr bool) *sourceMember {
	m, ok := t.MethodByName(name)
	if !ok {
		return nil
	}

	in := m.Type.NumIn()
	if t.Kind() != reflect.Interface {
		in--
	}

	if in != 0 {
		return nil
	}

	switch {
	case m.Type.NumOut() == 1:
	case m.Type.NumOut() == 2 && m.Type.Out(1) == errorType:
	default:
		return nil
	}

	return &sourceMember{name: name, method: name, addr: addr, typ: m.Type.Out(0)}
}

func sourceMemberNames(st reflect.Type) []string {
	var names []string

	base := indirectType(st)
	if base.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(base) {
			if f.IsExported() {
				names = append(names, f.Name)
			}
		}
	}

	for i := range st.NumMethod() {
		names = append(names, st.Method(i).Name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// read returns the source member value, or an invalid Value when a nil
// pointer is on the way.
func (s *sourceMember) read(src reflect.Value) (reflect.Value, error) {
	if (src.Kind() == reflect.Pointer || src.Kind() == reflect.Interface) && src.IsNil() {
		return reflect.Value{}, nil
	}

	if s.method != "" {
		recv := src
		if s.addr {
			p := reflect.New(src.Type())
			p.Elem().Set(src)
			recv = p
		}

		out := recv.MethodByName(s.method).Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			err, _ := out[1].Interface().(error)
			return reflect.Value{}, err
		}

		return out[0], nil
	}

	v := src
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	f, err := v.FieldByIndexErr(s.index)
	if err != nil {
		return reflect.Value{}, nil
	}

	return f, nil
}
