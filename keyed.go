package mapwire

import (
	"mapwire/di"
	"mapwire/mapper"
)

// Config is a mapper configuration registered for key K. Keyed
// configurations let one container hold several independent maps for the
// same type pairs.
type Config[K any] struct {
	*mapper.Configuration
}

// Mapper is a mapper running against Config[K].
type Mapper[K any] struct {
	*mapper.Mapper
}

// AddKeyedMapper is AddMapper for an independent configuration keyed by K,
// registered as *Config[K] and *Mapper[K].
func AddKeyedMapper[K any](c *di.Container, opts Options) (*Builder, error) {
	return addMapper[K](c, opts, registerKeyedMapper[K])
}

func registerKeyedMapper[K any](c *di.Container, reg *registration, opts Options) error {
	if err := di.Add(c, di.Singleton, func(r di.Resolver) (*Config[K], error) {
		cfg, err := reg.build(r)
		if err != nil {
			return nil, err
		}

		return &Config[K]{Configuration: cfg}, nil
	}); err != nil {
		return err
	}

	return di.Add(c, opts.MapperLifetime, func(r di.Resolver) (*Mapper[K], error) {
		cfg, err := di.Get[*Config[K]](r)
		if err != nil {
			return nil, err
		}

		return &Mapper[K]{Mapper: cfg.NewMapper(ServiceCtor(scopeOf(r)))}, nil
	})
}
