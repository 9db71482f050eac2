package scan

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"mapwire/internal/common"
	"mapwire/mapper"
)

// CapabilityKind names one of the mapper capability interfaces.
type CapabilityKind int

const (
	ValueResolver CapabilityKind = iota
	MemberValueResolver
	TypeConverter
	ValueConverter
	MappingAction
)

func (k CapabilityKind) String() string {
	switch k {
	case ValueResolver:
		return "ValueResolver"
	case MemberValueResolver:
		return "MemberValueResolver"
	case TypeConverter:
		return "TypeConverter"
	case ValueConverter:
		return "ValueConverter"
	case MappingAction:
		return "MappingAction"
	default:
		return fmt.Sprintf("CapabilityKind(%d)", int(k))
	}
}

// Capability is one closed capability interface a candidate implements.
// Args are the type arguments in declaration order, for example
// [S, D, M] for ValueResolver.
type Capability struct {
	Kind CapabilityKind
	Args []reflect.Type
}

func (c Capability) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}

	return c.Kind.String() + "[" + strings.Join(args, ", ") + "]"
}

// Candidate is a type to register in the container so the mapper can
// construct it at map time. Type is the type whose method set matched.
type Candidate struct {
	Type         reflect.Type
	Capabilities []Capability
	Assembly     string
}

// Result is the outcome of a scan.
type Result struct {
	Profiles   []reflect.Type
	Candidates []Candidate
}

var (
	profileType = reflect.TypeFor[mapper.Profile]()
	contextType = reflect.TypeFor[*mapper.ResolutionContext]()
	errorType   = reflect.TypeFor[error]()

	// MapperPackage is the import path of the mapping engine, never scanned.
	MapperPackage = profileType.PkgPath()
)

// Scan classifies the types of the given assemblies. Assemblies are
// deduplicated by path and the mapping engine's own package is skipped.
// Results are sorted by type string.
func Scan(assemblies []*Assembly) Result {
	var res Result

	seen := make(map[reflect.Type]struct{})

	for _, a := range Dedupe(slices.DeleteFunc(slices.Clone(assemblies), func(a *Assembly) bool { return a == nil })) {
		if a.Path == MapperPackage {
			continue
		}

		for _, t := range a.Types {
			t = definedType(t)
			if t == nil || t.PkgPath() == MapperPackage {
				continue
			}

			if _, ok := seen[t]; ok {
				continue
			}

			seen[t] = struct{}{}

			if p := ProfileType(t); p != nil {
				res.Profiles = append(res.Profiles, p)
			}

			if c, ok := Classify(t); ok {
				c.Assembly = a.Path
				res.Candidates = append(res.Candidates, c)
			}
		}
	}

	slices.SortFunc(res.Profiles, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	slices.SortFunc(res.Candidates, func(a, b Candidate) int {
		return strings.Compare(a.Type.String(), b.Type.String())
	})

	return res
}

// definedType strips pointers and rejects interface types.
func definedType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}

	return t
}

// ProfileType returns t or *t, whichever implements mapper.Profile first, or
// nil when neither does.
func ProfileType(t reflect.Type) reflect.Type {
	t = definedType(t)
	if t == nil {
		return nil
	}

	for _, candidate := range []reflect.Type{t, reflect.PointerTo(t)} {
		if candidate.Implements(profileType) {
			return candidate
		}
	}

	return nil
}

// Classify reports the capabilities of t. The value type is registered when
// its method set carries every capability; otherwise the pointer type is.
func Classify(t reflect.Type) (Candidate, bool) {
	t = definedType(t)
	if t == nil {
		return Candidate{}, false
	}

	candidate := Candidate{Type: t, Capabilities: Capabilities(t)}

	ptr := reflect.PointerTo(t)
	if caps := Capabilities(ptr); len(caps) > len(candidate.Capabilities) {
		candidate = Candidate{Type: ptr, Capabilities: caps}
	}

	return candidate, len(candidate.Capabilities) > 0
}

// Capabilities returns the capabilities found in the method set of t.
func Capabilities(t reflect.Type) []Capability {
	var caps []Capability

	for i := range t.NumMethod() {
		m := t.Method(i)
		in, out := methodSignature(t, m)
		if c, ok := capabilityOf(m.Name, in, out); ok {
			caps = append(caps, c)
		}
	}

	slices.SortStableFunc(caps, func(a, b Capability) int { return int(a.Kind) - int(b.Kind) })

	return caps
}

// methodSignature returns the parameter and result types of m without the
// receiver.
func methodSignature(t reflect.Type, m reflect.Method) (in, out []reflect.Type) {
	ft := m.Type

	first := 1
	if t.Kind() == reflect.Interface {
		first = 0
	}

	if ft.IsVariadic() {
		return nil, nil
	}

	for i := first; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}

	for i := range ft.NumOut() {
		out = append(out, ft.Out(i))
	}

	return in, out
}

func capabilityOf(name string, in, out []reflect.Type) (Capability, bool) {
	if len(in) == 0 || in[len(in)-1] != contextType {
		return Capability{}, false
	}

	in = in[:len(in)-1]

	switch name {
	case "Resolve":
		if !resultAndError(out) {
			return Capability{}, false
		}

		switch {
		case len(in) == 3 && in[2] == out[0]:
			return Capability{Kind: ValueResolver, Args: in}, true
		case len(in) == 4 && in[3] == out[0]:
			return Capability{Kind: MemberValueResolver, Args: in}, true
		}
	case "Convert":
		if !resultAndError(out) {
			return Capability{}, false
		}

		switch {
		case len(in) == 2 && in[1] == out[0]:
			return Capability{Kind: TypeConverter, Args: in}, true
		case len(in) == 1:
			return Capability{Kind: ValueConverter, Args: []reflect.Type{in[0], out[0]}}, true
		}
	case "Process":
		if len(out) == 1 && out[0] == errorType && len(in) == 2 && in[1].Kind() == reflect.Pointer {
			return Capability{Kind: MappingAction, Args: []reflect.Type{in[0], in[1].Elem()}}, true
		}
	}

	return Capability{}, false
}

func resultAndError(out []reflect.Type) bool {
	return len(out) == 2 && out[1] == errorType
}

// ServiceTypes returns the registered service type of each candidate.
func (r Result) ServiceTypes() []reflect.Type {
	out := make([]reflect.Type, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Type
	}

	return common.Dedupe(out, func(t reflect.Type) reflect.Type { return t })
}
