//go:build !wireinject
// +build !wireinject

// This file is written by hand in the layout wire emits for inject.go.
// Running go generate in this package replaces it with wire's own output.

package wireset

import (
	"mapwire"
	"mapwire/di"
)

// Injectors from inject.go:

// InitializeMappers builds the configuration and mapper of opts.
func InitializeMappers(r di.Resolver, opts mapwire.Options) (*Mappers, error) {
	configuration, err := ProvideConfiguration(r, opts)
	if err != nil {
		return nil, err
	}
	mapperMapper := ProvideMapper(configuration, r)
	mappers := &Mappers{
		Configuration: configuration,
		Mapper:        mapperMapper,
	}
	return mappers, nil
}
