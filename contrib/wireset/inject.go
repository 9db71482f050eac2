//go:build wireinject
// +build wireinject

//go:generate go run -mod=mod github.com/google/wire/cmd/wire

package wireset

import (
	"github.com/google/wire"

	"mapwire"
	"mapwire/di"
)

// InitializeMappers builds the configuration and mapper of opts.
func InitializeMappers(r di.Resolver, opts mapwire.Options) (*Mappers, error) {
	wire.Build(
		Set,
		wire.Struct(new(Mappers), "*"),
	)
	return &Mappers{}, nil
}
