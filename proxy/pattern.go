package proxy

//go:generate go tool stringer -type=Pattern -output=pattern_string.go

// Pattern is one of the mapper call shapes an interface method can take.
// Every shape may return either R or (R, error).
type Pattern int

const (
	// DestinationOnly is func(source any) R.
	DestinationOnly Pattern = iota
	// Typed is func(source S) R.
	Typed
	// TypedInto is func(source S, destination R) R.
	TypedInto
	// Dynamic is func(source any, sourceType, destinationType reflect.Type) any.
	Dynamic
	// DynamicInto is func(source, destination any, sourceType, destinationType reflect.Type) any.
	DynamicInto

	// PatternTotal is the number of patterns.
	PatternTotal = int(iota)
)

// Shape returns the canonical signature of the pattern for messages.
func (p Pattern) Shape() string {
	switch p {
	case DestinationOnly:
		return "func(source any) R"
	case Typed:
		return "func(source S) R"
	case TypedInto:
		return "func(source S, destination R) R"
	case Dynamic:
		return "func(source any, sourceType, destinationType reflect.Type) any"
	case DynamicInto:
		return "func(source, destination any, sourceType, destinationType reflect.Type) any"
	default:
		return p.String()
	}
}
