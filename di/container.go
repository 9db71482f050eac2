package di

import (
	"reflect"
	"sync"
)

// Factory creates a service instance, resolving its dependencies from r.
type Factory func(r Resolver) (any, error)

// Resolver resolves service instances by type.
type Resolver interface {
	Resolve(t reflect.Type) (any, error)
}

// Descriptor describes one registered service.
type Descriptor struct {
	ServiceType reflect.Type
	Lifetime    Lifetime
	Factory     Factory
}

// Container holds service registrations and the singleton instances built from them.
// It acts as the root scope: scoped services resolved directly from the Container
// live as long as the Container.
type Container struct {
	descriptors []*Descriptor
	byType      map[reflect.Type]*Descriptor
	singletons  *instanceCache
	root        *Scope
	mu          sync.RWMutex
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		byType:     make(map[reflect.Type]*Descriptor),
		singletons: newInstanceCache(),
	}
	c.root = newScope(c)

	return c
}

// Add registers d. A later registration for the same service type replaces the
// earlier one for resolution; both remain visible through Descriptors.
func (c *Container) Add(d Descriptor) error {
	if err := validateDescriptor(d); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.add(d)

	return nil
}

// TryAdd registers d only when its service type has no registration yet.
// It reports whether d was added.
func (c *Container) TryAdd(d Descriptor) (bool, error) {
	if err := validateDescriptor(d); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byType[d.ServiceType]; ok {
		return false, nil
	}

	c.add(d)

	return true, nil
}

func (c *Container) add(d Descriptor) {
	stored := d
	c.descriptors = append(c.descriptors, &stored)
	c.byType[d.ServiceType] = &stored
}

// Has reports whether t is registered.
func (c *Container) Has(t reflect.Type) bool {
	_, ok := c.lookup(t)
	return ok
}

// Descriptors returns a copy of all registrations in registration order.
func (c *Container) Descriptors() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Descriptor, len(c.descriptors))
	for i, d := range c.descriptors {
		out[i] = *d
	}

	return out
}

// Descriptor returns the active registration for t.
func (c *Container) Descriptor(t reflect.Type) (Descriptor, bool) {
	d, ok := c.lookup(t)
	if !ok {
		return Descriptor{}, false
	}

	return *d, true
}

// Resolve resolves t from the root scope.
func (c *Container) Resolve(t reflect.Type) (any, error) {
	return c.root.Resolve(t)
}

// CreateScope creates a child scope. Scoped services resolved from it are
// cached in it until Close.
func (c *Container) CreateScope() *Scope {
	return newScope(c)
}

// Close closes the root scope, which owns singletons and root-resolved
// scoped and transient instances.
func (c *Container) Close() error {
	return c.root.Close()
}

func (c *Container) lookup(t reflect.Type) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.byType[t]

	return d, ok
}

func validateDescriptor(d Descriptor) error {
	switch {
	case d.ServiceType == nil:
		return &InvalidDescriptorError{Reason: "service type is nil"}
	case !d.Lifetime.Valid():
		return &InvalidDescriptorError{Reason: "unknown lifetime " + string(d.Lifetime) + " for " + d.ServiceType.String()}
	case d.Factory == nil:
		return &InvalidDescriptorError{Reason: "factory is nil for " + d.ServiceType.String()}
	}

	return nil
}
