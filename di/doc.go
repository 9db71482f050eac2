// Package di is a small reflection-based dependency-injection container.
//
// Services are registered as Descriptors keyed by reflect.Type, each with a
// Lifetime and a Factory. Singletons are created once per Container, scoped
// services once per Scope, transient services on every resolution. The
// Container itself acts as the root scope.
//
// Construct builds a struct that was never registered, filling its
// `inject` tagged fields from a Resolver:
//
//	type Handler struct {
//	    Mapper *mapper.Mapper `inject:""`
//	    Clock  Clock          `inject:"optional"`
//	}
package di
