package mapper

import (
	"errors"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// DefaultPlanCacheSize bounds cached runtime conversion plans.
	DefaultPlanCacheSize = 1024
	// DefaultMaxDepth bounds nested type-map recursion per mapping call.
	DefaultMaxDepth = 64
)

type duplicateMap struct {
	pair   typePair
	first  string
	second string
}

// Configuration is the immutable set of type maps built from profiles.
type Configuration struct {
	maps        map[typePair]*TypeMap
	list        []*TypeMap
	profiles    []string
	duplicates  []duplicateMap
	serviceCtor ServiceCtor
	maxDepth    int
	plans       *lru.Cache[typePair, step]
	logger      *zap.Logger
}

// NewConfiguration builds a configuration from the profiles and maps added by configure.
// A pair declared twice keeps the last declaration; AssertConfigurationIsValid reports it.
func NewConfiguration(configure func(cfg *ConfigurationExpression)) (*Configuration, error) {
	expr := &ConfigurationExpression{
		serviceCtor:   DefaultServiceCtor,
		logger:        zap.NewNop(),
		planCacheSize: DefaultPlanCacheSize,
		maxDepth:      DefaultMaxDepth,
	}

	if configure != nil {
		configure(expr)
	}

	if len(expr.errs) > 0 {
		return nil, fmt.Errorf("configuring mapper: %w", errors.Join(expr.errs...))
	}

	plans, err := lru.New[typePair, step](expr.planCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating plan cache: %w", err)
	}

	cfg := &Configuration{
		maps:        make(map[typePair]*TypeMap),
		serviceCtor: expr.serviceCtor,
		maxDepth:    expr.maxDepth,
		plans:       plans,
		logger:      expr.logger,
	}

	var order []typePair

	for _, p := range expr.profiles {
		cfg.profiles = append(cfg.profiles, p.name)

		for _, tm := range p.maps {
			if prev, ok := cfg.maps[tm.pair]; ok {
				cfg.duplicates = append(cfg.duplicates, duplicateMap{pair: tm.pair, first: prev.profile, second: tm.profile})
			} else {
				order = append(order, tm.pair)
			}

			cfg.maps[tm.pair] = tm
		}
	}

	for _, pair := range order {
		tm := cfg.maps[pair]
		tm.seal()
		cfg.list = append(cfg.list, tm)
	}

	cfg.logger.Debug("mapper configuration built",
		zap.Int("profiles", len(cfg.profiles)),
		zap.Int("type_maps", len(cfg.list)),
		zap.Int("duplicates", len(cfg.duplicates)))

	return cfg, nil
}

// TypeMaps returns every type map in declaration order.
func (c *Configuration) TypeMaps() []*TypeMap {
	out := make([]*TypeMap, len(c.list))
	copy(out, c.list)

	return out
}

// Profiles returns the names of the profiles folded into the configuration.
func (c *Configuration) Profiles() []string {
	out := make([]string, len(c.profiles))
	copy(out, c.profiles)

	return out
}

// FindTypeMap returns the type map declared for exactly src -> dst, or nil.
func (c *Configuration) FindTypeMap(src, dst reflect.Type) *TypeMap {
	return c.maps[typePair{source: src, destination: dst}]
}

// ServiceCtor returns the default service constructor for new mappers.
func (c *Configuration) ServiceCtor() ServiceCtor {
	return c.serviceCtor
}

// NewMapper returns a mapper resolving services with ctor, or with the
// configuration's ServiceCtor when ctor is nil.
func (c *Configuration) NewMapper(ctor ServiceCtor) *Mapper {
	if ctor == nil {
		ctor = c.serviceCtor
	}

	return &Mapper{config: c, serviceCtor: ctor}
}
