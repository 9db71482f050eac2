package match

import (
	"reflect"
)

// Compatibility is how a source member value can reach a destination member.
type Compatibility int

const (
	// Incompatible means no direct copy exists; a type map or resolver is required.
	Incompatible Compatibility = iota
	// Convertible means reflect.Value.Convert produces the destination type.
	Convertible
	// Assignable means the source value can be assigned as is.
	Assignable
	// Identical means both types are the same.
	Identical
)

// String returns a human-readable name for the compatibility level.
func (c Compatibility) String() string {
	switch c {
	case Identical:
		return "identical"
	case Assignable:
		return "assignable"
	case Convertible:
		return "convertible"
	case Incompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// Copyable reports whether a plain copy (with conversion) is enough.
func (c Compatibility) Copyable() bool {
	return c >= Convertible
}

// Compare scores how src values can be copied into dst.
// Conversions between strings and integers are refused: reflect allows
// int -> string (rune conversion), which is never what a member copy means.
// Struct conversions are refused too; structs are mapped member by member.
func Compare(src, dst reflect.Type) Compatibility {
	if src == nil || dst == nil {
		return Incompatible
	}

	if src == dst {
		return Identical
	}

	if src.AssignableTo(dst) {
		return Assignable
	}

	if isNumeric(src.Kind()) && dst.Kind() == reflect.String {
		return Incompatible
	}

	switch src.Kind() {
	case reflect.Slice, reflect.Pointer, reflect.Struct:
		return Incompatible
	}

	if src.ConvertibleTo(dst) {
		return Convertible
	}

	return Incompatible
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
