package di

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
)

// Scope resolves services and owns the scoped and transient instances created
// through it.
type Scope struct {
	container *Container
	scoped    *instanceCache
	closers   []io.Closer
	closed    bool
	mu        sync.Mutex
}

func newScope(c *Container) *Scope {
	return &Scope{
		container: c,
		scoped:    newInstanceCache(),
	}
}

// Container returns the container the scope was created from.
func (s *Scope) Container() *Container {
	return s.container
}

// Resolve resolves t within the scope.
func (s *Scope) Resolve(t reflect.Type) (any, error) {
	return s.resolve(t, nil)
}

// Close closes every io.Closer instance created through the scope, in reverse
// creation order, and returns the joined errors. Close is idempotent.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func (s *Scope) resolve(t reflect.Type, chain []reflect.Type) (any, error) {
	if s.isClosed() {
		return nil, &ClosedScopeError{}
	}

	if slices.Contains(chain, t) {
		return nil, &CycleError{Chain: append(slices.Clone(chain), t)}
	}

	d, ok := s.container.lookup(t)
	if !ok {
		return nil, &NotRegisteredError{Type: t}
	}

	next := append(slices.Clone(chain), t)

	switch d.Lifetime {
	case Singleton:
		root := s.container.root
		return s.container.singletons.getOrCreate(d, func() (any, error) {
			return root.create(d, next)
		})
	case Scoped:
		return s.scoped.getOrCreate(d, func() (any, error) {
			return s.create(d, next)
		})
	default:
		return s.create(d, next)
	}
}

func (s *Scope) create(d *Descriptor, chain []reflect.Type) (any, error) {
	v, err := d.Factory(&resolution{scope: s, chain: chain})
	if err != nil {
		var cycle *CycleError
		if errors.As(err, &cycle) {
			return nil, err
		}

		return nil, &ResolutionError{ServiceType: d.ServiceType, Cause: err}
	}

	if v == nil {
		return nil, &ResolutionError{ServiceType: d.ServiceType, Cause: errors.New("factory returned nil")}
	}

	if vt := reflect.TypeOf(v); !vt.AssignableTo(d.ServiceType) {
		return nil, &ResolutionError{
			ServiceType: d.ServiceType,
			Cause:       fmt.Errorf("factory returned %v which is not assignable", vt),
		}
	}

	if closer, ok := v.(io.Closer); ok {
		s.mu.Lock()
		s.closers = append(s.closers, closer)
		s.mu.Unlock()
	}

	return v, nil
}

// resolution is the Resolver handed to factories; it carries the chain of
// service types being created so cycles fail instead of deadlocking.
type resolution struct {
	scope *Scope
	chain []reflect.Type
}

func (r *resolution) Resolve(t reflect.Type) (any, error) {
	return r.scope.resolve(t, r.chain)
}

// ScopeOf returns the scope behind r, for factories that keep a Resolver past
// their own invocation. It returns nil when r is not backed by this package.
func ScopeOf(r Resolver) *Scope {
	switch v := r.(type) {
	case *Scope:
		return v
	case *resolution:
		return v.scope
	case *Container:
		return v.root
	default:
		return nil
	}
}
