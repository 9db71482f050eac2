package mapper

import (
	"errors"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// Profile is a unit of mapping configuration.
type Profile interface {
	Configure(p *ProfileExpression)
}

// NamedProfile lets a profile choose the name used in diagnostics.
type NamedProfile interface {
	Profile
	ProfileName() string
}

// ProfileName returns the name a profile is reported under.
func ProfileName(p Profile) string {
	if np, ok := p.(NamedProfile); ok {
		if name := np.ProfileName(); name != "" {
			return name
		}
	}

	return strings.TrimPrefix(reflect.TypeOf(p).String(), "*")
}

// ProfileExpression collects the type maps declared by one profile.
type ProfileExpression struct {
	name string
	maps []*TypeMap
}

func newProfileExpression(name string) *ProfileExpression {
	return &ProfileExpression{name: name}
}

// Name returns the profile name.
func (p *ProfileExpression) Name() string {
	return p.name
}

func (p *ProfileExpression) add(src, dst reflect.Type) *TypeMap {
	tm := newTypeMap(typePair{source: src, destination: dst}, p.name)
	p.maps = append(p.maps, tm)

	return tm
}

// ConfigurationExpression is handed to the NewConfiguration callback.
type ConfigurationExpression struct {
	profiles      []*ProfileExpression
	serviceCtor   ServiceCtor
	logger        *zap.Logger
	planCacheSize int
	maxDepth      int
	errs          []error
}

// AddProfile runs the profile's Configure and keeps its type maps.
func (c *ConfigurationExpression) AddProfile(p Profile) {
	if p == nil || (reflect.ValueOf(p).Kind() == reflect.Pointer && reflect.ValueOf(p).IsNil()) {
		c.errs = append(c.errs, errors.New("nil profile"))
		return
	}

	expr := newProfileExpression(ProfileName(p))
	p.Configure(expr)
	c.profiles = append(c.profiles, expr)
}

// AddProfiles adds several profiles in order.
func (c *ConfigurationExpression) AddProfiles(profiles ...Profile) {
	for _, p := range profiles {
		c.AddProfile(p)
	}
}

// CreateMaps declares type maps inline, outside a profile type.
func (c *ConfigurationExpression) CreateMaps(name string, fn func(p *ProfileExpression)) {
	if name == "" {
		name = "inline"
	}

	expr := newProfileExpression(name)
	fn(expr)
	c.profiles = append(c.profiles, expr)
}

// ConstructServicesUsing sets the default ServiceCtor of mappers created
// from the configuration.
func (c *ConfigurationExpression) ConstructServicesUsing(ctor ServiceCtor) {
	if ctor != nil {
		c.serviceCtor = ctor
	}
}

// SetLogger sets the logger used while building and validating.
func (c *ConfigurationExpression) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetPlanCacheSize bounds the cache of runtime type-pair conversion plans.
func (c *ConfigurationExpression) SetPlanCacheSize(n int) {
	c.planCacheSize = n
}

// SetMaxDepth bounds nested type-map recursion per mapping call.
func (c *ConfigurationExpression) SetMaxDepth(n int) {
	if n > 0 {
		c.maxDepth = n
	}
}
