package proxy

import (
	"reflect"
	"strconv"
	"strings"
)

// SlotKind is the category of a parameter or result type.
type SlotKind int

const (
	// SlotValue is any type that is not an interface.
	SlotValue SlotKind = iota
	// SlotAny is the empty interface.
	SlotAny
	// SlotType is reflect.Type.
	SlotType
	// SlotError is the error interface.
	SlotError
	// SlotInterface is any other interface.
	SlotInterface
)

// Slot is a parameter or result of a method. Key identifies the type with
// full package paths (the go/types notation); two slots with the same key
// hold identical types. Name is the type as written for display.
type Slot struct {
	Kind SlotKind
	Key  string
	Name string
}

// Signature is a method as seen by the classifier. Both the reflect and the
// go/types front ends produce it.
type Signature struct {
	Name     string
	Exported bool
	Variadic bool
	Params   []Slot
	Results  []Slot
}

func (s Signature) String() string {
	var b strings.Builder

	b.WriteString(s.Name)
	b.WriteString("(")

	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		if s.Variadic && i == len(s.Params)-1 {
			b.WriteString("..." + strings.TrimPrefix(p.Name, "[]"))
			continue
		}

		b.WriteString(p.Name)
	}

	b.WriteString(")")

	switch len(s.Results) {
	case 0:
	case 1:
		b.WriteString(" " + s.Results[0].Name)
	default:
		names := make([]string, len(s.Results))
		for i, r := range s.Results {
			names[i] = r.Name
		}

		b.WriteString(" (" + strings.Join(names, ", ") + ")")
	}

	return b.String()
}

var (
	reflectTypeType = reflect.TypeFor[reflect.Type]()
	errorType       = reflect.TypeFor[error]()
)

// SlotOf describes a reflect type.
func SlotOf(t reflect.Type) Slot {
	s := Slot{Key: TypeKey(t), Name: t.String()}

	switch {
	case t == reflectTypeType:
		s.Kind = SlotType
	case t == errorType:
		s.Kind = SlotError
	case t.Kind() == reflect.Interface && t.NumMethod() == 0:
		s.Kind = SlotAny
	case t.Kind() == reflect.Interface:
		s.Kind = SlotInterface
	default:
		s.Kind = SlotValue
	}

	return s
}

// TypeKey renders t with full package paths, matching types.TypeString with a
// nil qualifier for the types interface methods usually carry.
func TypeKey(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}

		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + TypeKey(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + TypeKey(t.Elem())
	case reflect.Map:
		return "map[" + TypeKey(t.Key()) + "]" + TypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + TypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + TypeKey(t.Elem())
		default:
			return "chan " + TypeKey(t.Elem())
		}
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return "any"
		}
	}

	return t.String()
}

// methodSignature describes method m of interface type t.
func methodSignature(m reflect.Method) Signature {
	ft := m.Type

	sig := Signature{
		Name:     m.Name,
		Exported: m.IsExported(),
		Variadic: ft.IsVariadic(),
	}

	for i := range ft.NumIn() {
		sig.Params = append(sig.Params, SlotOf(ft.In(i)))
	}

	for i := range ft.NumOut() {
		sig.Results = append(sig.Results, SlotOf(ft.Out(i)))
	}

	return sig
}
