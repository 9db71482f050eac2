package di

import (
	"fmt"
	"reflect"
	"strings"
)

// NotRegisteredError is returned when no descriptor exists for a service type.
type NotRegisteredError struct {
	Type reflect.Type
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no service registered for type %v", e.Type)
}

// InvalidDescriptorError is returned when a registration has invalid parameters.
type InvalidDescriptorError struct {
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("invalid service descriptor: %s", e.Reason)
}

// ResolutionError is returned when creating an instance fails.
type ResolutionError struct {
	ServiceType reflect.Type
	Context     string
	Cause       error
}

func (e *ResolutionError) Error() string {
	typeStr := "unknown"
	if e.ServiceType != nil {
		typeStr = e.ServiceType.String()
	}

	contextStr := ""
	if e.Context != "" {
		contextStr = ": " + e.Context
	}

	causeStr := ""
	if e.Cause != nil {
		causeStr = fmt.Sprintf(": %v", e.Cause)
	}

	return fmt.Sprintf("failed to resolve %s%s%s", typeStr, contextStr, causeStr)
}

// Unwrap returns the underlying cause error.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// CycleError is returned when a service depends on itself through its factories.
type CycleError struct {
	Chain []reflect.Type
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		parts[i] = t.String()
	}

	return "dependency cycle: " + strings.Join(parts, " -> ")
}

// ClosedScopeError is returned when resolving from a closed scope.
type ClosedScopeError struct{}

func (e *ClosedScopeError) Error() string {
	return "scope is closed"
}

// InvalidConstructorError is returned for functions that cannot serve as constructors.
type InvalidConstructorError struct {
	Type   reflect.Type
	Reason string
}

func (e *InvalidConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor %v: %s", e.Type, e.Reason)
}
