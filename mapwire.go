// Package mapwire registers an object-mapping configuration and mapper into a
// dependency-injection container.
//
// AddMapper scans the given assemblies for profiles and capability types
// (value resolvers, member value resolvers, type converters, value converters
// and mapping actions), registers the capability types, and registers a lazily
// built *mapper.Configuration (singleton) and a *mapper.Mapper (scoped by
// default) whose services are resolved from the current scope:
//
//	c := di.New()
//	if _, err := mapwire.AddMapper(c, mapwire.Options{Markers: []any{pirates.Person{}}}); err != nil {
//	    return err
//	}
//
//	scope := c.CreateScope()
//	defer scope.Close()
//
//	m := di.MustGet[*mapper.Mapper](scope)
//	pirate, err := mapper.Map[pirates.Pirate](m, person)
package mapwire

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"mapwire/di"
	"mapwire/mapper"
	"mapwire/scan"
)

// Builder adds to the registration AddMapper created. Additions made after
// the configuration was first resolved fail with ErrAlreadyBuilt.
type Builder struct {
	container         *di.Container
	reg               *registration
	candidateLifetime di.Lifetime
}

// Container returns the container the builder registers into.
func (b *Builder) Container() *di.Container {
	return b.container
}

// AddMapper registers the mapper configuration and mapper into c. Calling it
// again on the same container adds to the same registration; the
// configuration and mapper are registered once.
func AddMapper(c *di.Container, opts Options) (*Builder, error) {
	return addMapper[defaultKey](c, opts, registerMapper)
}

type defaultKey struct{}

func addMapper[K any](c *di.Container, opts Options, register func(c *di.Container, reg *registration, opts Options) error) (*Builder, error) {
	if c == nil {
		return nil, fmt.Errorf("nil container")
	}

	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	reg, created, err := registrationFor[K](c)
	if err != nil {
		return nil, err
	}

	reg.setLogger(opts.Logger)

	b := &Builder{container: c, reg: reg, candidateLifetime: opts.CandidateLifetime}

	if err := b.apply(opts); err != nil {
		return nil, err
	}

	if created {
		if err := register(c, reg, opts); err != nil {
			return nil, err
		}
	} else if opts.MapperLifetime != di.Scoped {
		reg.log().Warn("mapper already registered; lifetime ignored",
			zap.Stringer("lifetime", opts.MapperLifetime))
	}

	return b, nil
}

// assemblies returns the explicit assemblies followed by those of the markers.
func (o Options) assemblies() ([]*scan.Assembly, error) {
	assemblies := slices.Clone(o.Assemblies)

	if len(o.Markers) > 0 {
		marked, err := scan.Of(o.Markers...)
		if err != nil {
			return nil, err
		}

		assemblies = append(assemblies, marked...)
	}

	return assemblies, nil
}

func (b *Builder) apply(opts Options) error {
	assemblies, err := opts.assemblies()
	if err != nil {
		return err
	}

	if err := b.AddAssemblies(assemblies...); err != nil {
		return err
	}

	if err := b.AddProfileTypes(opts.ProfileTypes...); err != nil {
		return err
	}

	if err := b.reg.addProfiles(opts.Profiles...); err != nil {
		return err
	}

	if opts.Configure != nil {
		if err := b.Configure(opts.Configure); err != nil {
			return err
		}
	}

	return b.ConfigureWithServices(opts.ConfigureWithServices)
}

// AddAssemblies scans assemblies, adds the profiles found and registers the
// capability types not registered yet.
func (b *Builder) AddAssemblies(assemblies ...*scan.Assembly) error {
	if len(assemblies) == 0 {
		return nil
	}

	res := scan.Scan(assemblies)
	logger := b.reg.log()

	if err := b.AddProfileTypes(res.Profiles...); err != nil {
		return err
	}

	for _, candidate := range res.Candidates {
		added, err := b.container.TryAdd(di.Descriptor{
			ServiceType: candidate.Type,
			Lifetime:    b.candidateLifetime,
			Factory:     candidateFactory(candidate.Type),
		})
		if err != nil {
			return fmt.Errorf("registering %v: %w", candidate.Type, err)
		}

		b.reg.addCandidate(candidate.Type)

		logger.Debug("capability type registered",
			zap.Stringer("type", candidate.Type),
			zap.String("assembly", candidate.Assembly),
			zap.Bool("added", added))
	}

	logger.Debug("assemblies scanned",
		zap.Int("assemblies", len(scan.Dedupe(assemblies))),
		zap.Int("profiles", len(res.Profiles)),
		zap.Int("candidates", len(res.Candidates)))

	return nil
}

// AddProfileTypes adds profile types constructed through the container.
func (b *Builder) AddProfileTypes(types ...reflect.Type) error {
	return b.reg.addProfileTypes(types...)
}

// AddProfiles adds profile values as they are.
func (b *Builder) AddProfiles(profiles ...mapper.Profile) error {
	return b.reg.addProfiles(profiles...)
}

// AddRelatedTypes adds the catalogued assemblies of the marker values.
func (b *Builder) AddRelatedTypes(markers ...any) error {
	assemblies, err := scan.Of(markers...)
	if err != nil {
		return err
	}

	return b.AddAssemblies(assemblies...)
}

// Configure adds a callback run against the configuration expression.
func (b *Builder) Configure(fn func(cfg *mapper.ConfigurationExpression)) error {
	if fn == nil {
		return nil
	}

	return b.reg.addConfigure(func(cfg *mapper.ConfigurationExpression, _ di.Resolver) {
		fn(cfg)
	})
}

// ConfigureWithServices adds a callback that may resolve services while configuring.
func (b *Builder) ConfigureWithServices(fn func(cfg *mapper.ConfigurationExpression, r di.Resolver)) error {
	return b.reg.addConfigure(fn)
}

// ProfileTypes returns the profile types added so far.
func (b *Builder) ProfileTypes() []reflect.Type {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()

	return append([]reflect.Type(nil), b.reg.profileTypes...)
}

// Candidates returns the capability types found so far.
func (b *Builder) Candidates() []reflect.Type {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()

	return append([]reflect.Type(nil), b.reg.candidates...)
}

func registerMapper(c *di.Container, reg *registration, opts Options) error {
	if err := di.Add(c, di.Singleton, func(r di.Resolver) (*mapper.Configuration, error) {
		return reg.build(r)
	}); err != nil {
		return err
	}

	return di.Add(c, opts.MapperLifetime, func(r di.Resolver) (*mapper.Mapper, error) {
		cfg, err := di.Get[*mapper.Configuration](r)
		if err != nil {
			return nil, err
		}

		return cfg.NewMapper(ServiceCtor(scopeOf(r))), nil
	})
}

// scopeOf returns the scope behind r so a mapper can keep resolving after
// its factory returns.
func scopeOf(r di.Resolver) di.Resolver {
	if s := di.ScopeOf(r); s != nil {
		return s
	}

	return r
}

// Build scans the assemblies of opts and builds a configuration without a
// container. Profile dependencies, ConfigureWithServices callbacks and the
// configuration's ServiceCtor resolve from r. The scanned capability types
// are returned for callers that register them elsewhere.
func Build(r di.Resolver, opts Options) (*mapper.Configuration, []scan.Candidate, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	assemblies, err := opts.assemblies()
	if err != nil {
		return nil, nil, err
	}

	reg := newRegistration()
	reg.setLogger(opts.Logger)

	res := scan.Scan(assemblies)

	if err := reg.addProfileTypes(append(res.Profiles, opts.ProfileTypes...)...); err != nil {
		return nil, nil, err
	}

	if err := reg.addProfiles(opts.Profiles...); err != nil {
		return nil, nil, err
	}

	if opts.Configure != nil {
		configure := opts.Configure
		if err := reg.addConfigure(func(cfg *mapper.ConfigurationExpression, _ di.Resolver) { configure(cfg) }); err != nil {
			return nil, nil, err
		}
	}

	if err := reg.addConfigure(opts.ConfigureWithServices); err != nil {
		return nil, nil, err
	}

	cfg, err := reg.build(r)
	if err != nil {
		return nil, nil, err
	}

	return cfg, res.Candidates, nil
}
