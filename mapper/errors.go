package mapper

import (
	"fmt"
	"reflect"

	"mapwire/internal/diagnostic"
)

// MissingMapError is returned when no type map or built-in conversion
// connects the source and destination types.
type MissingMapError struct {
	Source      reflect.Type
	Destination reflect.Type
}

func (e *MissingMapError) Error() string {
	return fmt.Sprintf("missing type map configuration or unsupported mapping: %s -> %s",
		typeString(e.Source), typeString(e.Destination))
}

// MappingError wraps a failure inside a type map.
type MappingError struct {
	Source      reflect.Type
	Destination reflect.Type
	// Member is the destination member being mapped, empty for whole-type steps.
	Member string
	Err    error
}

func (e *MappingError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("mapping %s -> %s: %v", typeString(e.Source), typeString(e.Destination), e.Err)
	}

	return fmt.Sprintf("mapping %s -> %s, member %s: %v",
		typeString(e.Source), typeString(e.Destination), e.Member, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// ServiceError is returned when a resolver, converter or action cannot be constructed.
type ServiceError struct {
	Type reflect.Type
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("constructing service %s: %v", typeString(e.Type), e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// InvalidTypeError reports a value or type that cannot take part in a mapping call.
type InvalidTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type %s: %s", typeString(e.Type), e.Reason)
}

// ConfigurationError is returned by AssertConfigurationIsValid.
type ConfigurationError struct {
	Diagnostics diagnostic.Diagnostics
}

func (e *ConfigurationError) Error() string {
	return "mapper configuration is invalid: " + e.Diagnostics.Err().Error()
}

// DepthError stops runaway recursion through self-referencing object graphs.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("maximum mapping depth %d exceeded", e.Limit)
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
