// Package wireset provides the mapper configuration and mapper to
// github.com/google/wire injectors.
package wireset

import (
	"github.com/google/wire"

	"mapwire"
	"mapwire/di"
	"mapwire/mapper"
)

// Set provides *mapper.Configuration and *mapper.Mapper from a di.Resolver
// and mapwire.Options.
var Set = wire.NewSet(ProvideConfiguration, ProvideMapper)

// Mappers is what InitializeMappers returns.
type Mappers struct {
	Configuration *mapper.Configuration
	Mapper        *mapper.Mapper
}

// ProvideConfiguration builds the configuration of opts, resolving
// profile dependencies from r.
func ProvideConfiguration(r di.Resolver, opts mapwire.Options) (*mapper.Configuration, error) {
	cfg, _, err := mapwire.Build(r, opts)
	return cfg, err
}

// ProvideMapper returns a mapper resolving its services from r.
func ProvideMapper(cfg *mapper.Configuration, r di.Resolver) *mapper.Mapper {
	return cfg.NewMapper(mapwire.ServiceCtor(r))
}
