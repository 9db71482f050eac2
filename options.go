package mapwire

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"mapwire/di"
	"mapwire/mapper"
	"mapwire/scan"
)

// Options configures AddMapper. Every field is optional.
type Options struct {
	// Assemblies are scanned for profiles and capability types.
	Assemblies []*scan.Assembly
	// Markers select catalogued assemblies by the package of each value's type.
	Markers []any
	// Profiles are added as they are, after any scanned profiles.
	Profiles []mapper.Profile
	// ProfileTypes are constructed through the container, so their `inject`
	// tagged fields are filled.
	ProfileTypes []reflect.Type
	// Configure runs against the configuration expression before profiles are added.
	Configure func(cfg *mapper.ConfigurationExpression)
	// ConfigureWithServices is Configure with access to the container.
	ConfigureWithServices func(cfg *mapper.ConfigurationExpression, r di.Resolver)
	// CandidateLifetime is the lifetime of registered capability types.
	// Defaults to di.Transient.
	CandidateLifetime di.Lifetime
	// MapperLifetime is the lifetime of the registered *mapper.Mapper.
	// Defaults to di.Scoped. It is only honored by the first registration.
	MapperLifetime di.Lifetime
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.CandidateLifetime == "" {
		o.CandidateLifetime = di.Transient
	}

	if o.MapperLifetime == "" {
		o.MapperLifetime = di.Scoped
	}

	return o
}

func (o Options) validate() error {
	if !o.CandidateLifetime.Valid() {
		return fmt.Errorf("invalid candidate lifetime %q", o.CandidateLifetime)
	}

	if !o.MapperLifetime.Valid() {
		return fmt.Errorf("invalid mapper lifetime %q", o.MapperLifetime)
	}

	return nil
}
