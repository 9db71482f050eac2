package di

// Lifetime is how long a resolved instance is reused.
type Lifetime string

const (
	// Transient creates a new instance on every resolution.
	Transient Lifetime = "transient"
	// Scoped creates one instance per Scope.
	Scoped Lifetime = "scoped"
	// Singleton creates one instance per Container, lazily and exactly once.
	Singleton Lifetime = "singleton"
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	return string(l)
}

// Valid reports whether l is one of the known lifetimes.
func (l Lifetime) Valid() bool {
	switch l {
	case Transient, Scoped, Singleton:
		return true
	default:
		return false
	}
}
