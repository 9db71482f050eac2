package mapwire

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"

	"mapwire/di"
	"mapwire/mapper"
	"mapwire/scan"
)

// ErrAlreadyBuilt is returned when registrations are added after the
// configuration has been built from them.
var ErrAlreadyBuilt = errors.New("mapper configuration already built")

// registration accumulates what the configuration is built from. One exists
// per container and key.
type registration struct {
	profileTypes []reflect.Type
	profiles     []mapper.Profile
	configure    []func(cfg *mapper.ConfigurationExpression, r di.Resolver)
	candidates   []reflect.Type
	logger       *zap.Logger
	built        bool
	mu           sync.Mutex
}

func newRegistration() *registration {
	return &registration{logger: zap.NewNop()}
}

// state is the container-held registration for key K.
type state[K any] struct {
	*registration
}

// registrations guards find-or-create of per-container state.
var registrations sync.Mutex

func registrationFor[K any](c *di.Container) (*registration, bool, error) {
	registrations.Lock()
	defer registrations.Unlock()

	if c.Has(reflect.TypeFor[*state[K]]()) {
		s, err := di.Get[*state[K]](c)
		if err != nil {
			return nil, false, err
		}

		return s.registration, false, nil
	}

	reg := newRegistration()
	if err := di.Instance(c, &state[K]{registration: reg}); err != nil {
		return nil, false, err
	}

	return reg, true, nil
}

func (r *registration) setLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}

	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

func (r *registration) log() *zap.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.logger
}

func (r *registration) addProfileTypes(types ...reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return ErrAlreadyBuilt
	}

	for _, t := range types {
		pt := scan.ProfileType(t)
		if pt == nil {
			return fmt.Errorf("%v does not implement mapper.Profile", t)
		}

		if !slices.Contains(r.profileTypes, pt) {
			r.profileTypes = append(r.profileTypes, pt)
		}
	}

	return nil
}

func (r *registration) addProfiles(profiles ...mapper.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return ErrAlreadyBuilt
	}

	r.profiles = append(r.profiles, profiles...)

	return nil
}

func (r *registration) addConfigure(fn func(cfg *mapper.ConfigurationExpression, res di.Resolver)) error {
	if fn == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return ErrAlreadyBuilt
	}

	r.configure = append(r.configure, fn)

	return nil
}

func (r *registration) addCandidate(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Contains(r.candidates, t) {
		r.candidates = append(r.candidates, t)
	}
}

// build freezes the registration and builds the configuration. res resolves
// profile dependencies and is handed to ConfigureWithServices callbacks.
func (r *registration) build(res di.Resolver) (*mapper.Configuration, error) {
	r.mu.Lock()
	r.built = true
	profileTypes := slices.Clone(r.profileTypes)
	profiles := slices.Clone(r.profiles)
	configure := slices.Clone(r.configure)
	logger := r.logger
	r.mu.Unlock()

	for _, t := range profileTypes {
		v, err := di.Construct(res, t)
		if err != nil {
			return nil, fmt.Errorf("constructing profile %v: %w", t, err)
		}

		p, ok := v.(mapper.Profile)
		if !ok {
			return nil, fmt.Errorf("constructed %T does not implement mapper.Profile", v)
		}

		profiles = append(profiles, p)
	}

	cfg, err := mapper.NewConfiguration(func(cfg *mapper.ConfigurationExpression) {
		cfg.SetLogger(logger)
		cfg.ConstructServicesUsing(ServiceCtor(scopeOf(res)))

		for _, fn := range configure {
			fn(cfg, res)
		}

		cfg.AddProfiles(profiles...)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("mapper configuration resolved",
		zap.Int("profiles", len(profiles)),
		zap.Int("type_maps", len(cfg.TypeMaps())))

	return cfg, nil
}

// ServiceCtor resolves resolver, converter and action types from r, and
// constructs unregistered struct types through di.Construct.
func ServiceCtor(r di.Resolver) mapper.ServiceCtor {
	if r == nil {
		return mapper.DefaultServiceCtor
	}

	return func(t reflect.Type) (any, error) {
		v, err := r.Resolve(t)
		if err == nil {
			return v, nil
		}

		var notRegistered *di.NotRegisteredError
		if errors.As(err, &notRegistered) && notRegistered.Type == t {
			return di.Construct(r, t)
		}

		return nil, err
	}
}

// candidateFactory builds a capability type through the container.
func candidateFactory(t reflect.Type) di.Factory {
	return func(r di.Resolver) (any, error) {
		switch {
		case t.Kind() == reflect.Struct, t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
			return di.Construct(r, t)
		case t.Kind() == reflect.Pointer:
			return reflect.New(t.Elem()).Interface(), nil
		default:
			return reflect.Zero(t).Interface(), nil
		}
	}
}
