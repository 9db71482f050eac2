package proxy

import (
	"fmt"
)

// NotInterfaceError is returned when the described type is not an interface.
type NotInterfaceError struct {
	Type string
}

func (e *NotInterfaceError) Error() string {
	return fmt.Sprintf("%s is not an interface", e.Type)
}

// NotPublicError is returned for unnamed or unexported interfaces.
type NotPublicError struct {
	Interface string
}

func (e *NotPublicError) Error() string {
	return fmt.Sprintf("%s should be public interface", e.Interface)
}

// UnsupportedMemberError is returned when an interface has an unexported method.
type UnsupportedMemberError struct {
	Interface string
	Member    string
	Kind      string
}

func (e *UnsupportedMemberError) Error() string {
	return fmt.Sprintf("member %q (%s) found on interface %s; only exported methods are supported",
		e.Member, e.Kind, e.Interface)
}

// UnmatchedMethodError is returned when a method fits none of the patterns.
type UnmatchedMethodError struct {
	Interface string
	Method    string
}

func (e *UnmatchedMethodError) Error() string {
	return fmt.Sprintf("in interface %s, a method %s was found that cannot be matched to any of the mapper methods; "+
		"matching is done by signature, not name", e.Interface, e.Method)
}

// AmbiguousMethodError is returned when two methods share a pattern.
type AmbiguousMethodError struct {
	Interface string
	Pattern   Pattern
	First     string
	Second    string
}

func (e *AmbiguousMethodError) Error() string {
	return fmt.Sprintf("more than one match for %s (%s) found in interface %s:\n1) %s\n2) %s",
		e.Pattern, e.Pattern.Shape(), e.Interface, e.First, e.Second)
}

// EmptyInterfaceError is returned for interfaces without methods.
type EmptyInterfaceError struct {
	Interface string
}

func (e *EmptyInterfaceError) Error() string {
	return fmt.Sprintf("not a single method was found in interface %s", e.Interface)
}

// NotGeneratedError is returned by Build when no adapter was emitted for an interface.
type NotGeneratedError struct {
	Interface string
	Reason    string
}

func (e *NotGeneratedError) Error() string {
	reason := "no adapter was generated"
	if e.Reason != "" {
		reason = e.Reason
	}

	return fmt.Sprintf("%s for %s; run mapwire gen for its package", reason, e.Interface)
}
