package mapwire

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mapwire/di"
	"mapwire/examples/invalid"
	"mapwire/examples/pirates"
	"mapwire/examples/profiles"
	"mapwire/mapper"
	"mapwire/scan"
)

func newContainer(t *testing.T) *di.Container {
	t.Helper()

	c := di.New()
	require.NoError(t, di.Add(c, di.Transient, func(di.Resolver) (profiles.SomeService, error) {
		return profiles.NewFooService(5), nil
	}))
	require.NoError(t, di.Add(c, di.Singleton, func(di.Resolver) (profiles.SomeService2, error) {
		return profiles.TrimStringService{}, nil
	}))

	t.Cleanup(func() { _ = c.Close() })

	return c
}

func countDescriptors(c *di.Container, t reflect.Type) int {
	n := 0

	for _, d := range c.Descriptors() {
		if d.ServiceType == t {
			n++
		}
	}

	return n
}

func TestAddMapper_ResolvesDependencies(t *testing.T) {
	t.Parallel()

	c := newContainer(t)

	b, err := AddMapper(c, Options{Markers: []any{profiles.Source{}}})
	require.NoError(t, err)

	assert.Len(t, b.ProfileTypes(), 3)
	assert.Len(t, b.Candidates(), 7)
	assert.Contains(t, b.Candidates(), reflect.TypeFor[*profiles.DependencyResolver]())

	d, ok := c.Descriptor(reflect.TypeFor[*profiles.DependencyResolver]())
	require.True(t, ok)
	assert.Equal(t, di.Transient, d.Lifetime)

	scope := c.CreateScope()
	defer scope.Close()

	cfg := di.MustGet[*mapper.Configuration](scope)
	assert.Len(t, cfg.TypeMaps(), 3)

	m := di.MustGet[*mapper.Mapper](scope)

	dest, err := mapper.MapTo[profiles.Source2, profiles.Dest2](m, profiles.Source2{})
	require.NoError(t, err)
	assert.Equal(t, 5, dest.ResolvedValue)
	assert.Equal(t, 5, dest.ConvertedValue)

	trimmed, err := mapper.Map[profiles.Dest4](m, profiles.Source4{Value: "  padded  "})
	require.NoError(t, err)
	assert.Equal(t, "padded", trimmed.Value)
}

func TestAddMapper_Lifetimes(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c := newContainer(t)
		_, err := AddMapper(c, Options{Markers: []any{pirates.Person{}}})
		require.NoError(t, err)

		d, ok := c.Descriptor(reflect.TypeFor[*mapper.Configuration]())
		require.True(t, ok)
		assert.Equal(t, di.Singleton, d.Lifetime)

		d, ok = c.Descriptor(reflect.TypeFor[*mapper.Mapper]())
		require.True(t, ok)
		assert.Equal(t, di.Scoped, d.Lifetime)

		s1, s2 := c.CreateScope(), c.CreateScope()

		assert.Same(t, di.MustGet[*mapper.Configuration](s1), di.MustGet[*mapper.Configuration](s2))
		assert.Same(t, di.MustGet[*mapper.Mapper](s1), di.MustGet[*mapper.Mapper](s1))
		assert.NotSame(t, di.MustGet[*mapper.Mapper](s1), di.MustGet[*mapper.Mapper](s2))
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()

		c := newContainer(t)
		_, err := AddMapper(c, Options{
			Markers:           []any{profiles.Source{}},
			CandidateLifetime: di.Singleton,
			MapperLifetime:    di.Transient,
		})
		require.NoError(t, err)

		lifetimes := make(map[reflect.Type]di.Lifetime)
		for _, d := range c.Descriptors() {
			lifetimes[d.ServiceType] = d.Lifetime
		}

		assert.Equal(t, di.Transient, lifetimes[reflect.TypeFor[*mapper.Mapper]()])
		assert.Equal(t, di.Singleton, lifetimes[reflect.TypeFor[*mapper.Configuration]()])
		assert.Equal(t, di.Singleton, lifetimes[reflect.TypeFor[*profiles.DependencyValueConverter]()])

		assert.NotSame(t, di.MustGet[*mapper.Mapper](c), di.MustGet[*mapper.Mapper](c))
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := AddMapper(di.New(), Options{MapperLifetime: "forever"})
		require.ErrorContains(t, err, "invalid mapper lifetime")

		_, err = AddMapper(nil, Options{})
		require.Error(t, err)
	})
}

func TestAddMapper_ScopedServices(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, di.Add(c, di.Scoped, func(di.Resolver) (profiles.SomeService, error) {
		return &profiles.MutableService{}, nil
	}))
	require.NoError(t, di.Instance[profiles.SomeService2](c, profiles.TrimStringService{}))

	_, err := AddMapper(c, Options{Markers: []any{profiles.Source{}}})
	require.NoError(t, err)

	s1, s2 := c.CreateScope(), c.CreateScope()
	di.MustGet[profiles.SomeService](s1).(*profiles.MutableService).Value = 10

	got1, err := mapper.MapTo[profiles.Source2, profiles.Dest2](di.MustGet[*mapper.Mapper](s1), profiles.Source2{})
	require.NoError(t, err)
	assert.Equal(t, 10, got1.ResolvedValue)

	got2, err := mapper.MapTo[profiles.Source2, profiles.Dest2](di.MustGet[*mapper.Mapper](s2), profiles.Source2{ConvertedValue: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, got2.ResolvedValue)
	assert.Equal(t, 1, got2.ConvertedValue)
}

func TestAddMapper_RepeatedRegistration(t *testing.T) {
	t.Parallel()

	c := newContainer(t)

	_, err := AddMapper(c, Options{Markers: []any{pirates.Person{}}})
	require.NoError(t, err)

	_, err = AddMapper(c, Options{Markers: []any{pirates.Pirate{}}})
	require.NoError(t, err)

	b, err := AddMapper(c, Options{})
	require.NoError(t, err)
	require.NoError(t, b.AddRelatedTypes(profiles.Source{}))

	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[*mapper.Configuration]()))
	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[*mapper.Mapper]()))
	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[*profiles.DependencyResolver]()))

	cfg := di.MustGet[*mapper.Configuration](c)
	assert.Len(t, cfg.TypeMaps(), 4)
	assert.Contains(t, cfg.Profiles(), "pirates.PirateProfile")

	assert.ErrorIs(t, b.AddProfiles(pirates.PirateProfile{}), ErrAlreadyBuilt)
}

func TestAddMapper_Concurrent(t *testing.T) {
	t.Parallel()

	const workers = 16

	c := newContainer(t)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, workers)
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			markers := []any{pirates.Person{}}
			if i%2 == 1 {
				markers = []any{profiles.Source{}}
			}

			<-start
			_, errs[i] = AddMapper(c, Options{Markers: markers})
		}()
	}

	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[*mapper.Configuration]()))
	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[*mapper.Mapper]()))
	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[*profiles.DependencyResolver]()))

	cfg := di.MustGet[*mapper.Configuration](c)
	assert.Len(t, cfg.TypeMaps(), 4)
	assert.Equal(t, 1, countString(cfg.Profiles(), "pirates.PirateProfile"), "profile types deduplicated")
}

func countString(values []string, want string) int {
	n := 0

	for _, v := range values {
		if v == want {
			n++
		}
	}

	return n
}

func TestAddMapper_Configure(t *testing.T) {
	t.Parallel()

	type note struct{ Text string }

	type noteDTO struct{ Text string }

	c := newContainer(t)

	b, err := AddMapper(c, Options{
		Profiles: []mapper.Profile{pirates.PirateProfile{}},
		Configure: func(cfg *mapper.ConfigurationExpression) {
			cfg.CreateMaps("notes", func(p *mapper.ProfileExpression) {
				mapper.CreateMap[note, noteDTO](p)
			})
		},
	})
	require.NoError(t, err)

	require.NoError(t, b.ConfigureWithServices(func(cfg *mapper.ConfigurationExpression, r di.Resolver) {
		svc := di.MustGet[profiles.SomeService2](r)

		cfg.CreateMaps("trimmed", func(p *mapper.ProfileExpression) {
			mapper.CreateMap[profiles.Source4, profiles.Dest4](p).
				ForMember("Value", mapper.MapFrom[profiles.Source4, profiles.Dest4](func(s profiles.Source4) string {
					return svc.Modify(s.Value)
				}))
		})
	}))

	cfg := di.MustGet[*mapper.Configuration](c)
	require.NoError(t, cfg.AssertConfigurationIsValid())
	assert.Equal(t, []string{"notes", "trimmed", "pirates.PirateProfile"}, cfg.Profiles())

	m := di.MustGet[*mapper.Mapper](c)

	got, err := mapper.Map[noteDTO](m, note{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Text)

	trimmed, err := mapper.Map[profiles.Dest4](m, profiles.Source4{Value: " x "})
	require.NoError(t, err)
	assert.Equal(t, "x", trimmed.Value)
}

func TestAddMapper_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown marker", func(t *testing.T) {
		t.Parallel()

		type uncatalogued struct{}

		_, err := AddMapper(di.New(), Options{Markers: []any{uncatalogued{}}})

		var unknown *scan.UnknownAssemblyError
		require.ErrorAs(t, err, &unknown)
	})

	t.Run("not a profile", func(t *testing.T) {
		t.Parallel()

		_, err := AddMapper(di.New(), Options{ProfileTypes: []reflect.Type{reflect.TypeFor[pirates.Person]()}})
		require.ErrorContains(t, err, "does not implement mapper.Profile")
	})

	t.Run("profile dependency missing", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		_, err := AddMapper(c, Options{ProfileTypes: []reflect.Type{reflect.TypeFor[*profiles.ProfileWithDependency]()}})
		require.NoError(t, err)

		_, err = di.Get[*mapper.Configuration](c)

		var notRegistered *di.NotRegisteredError
		require.ErrorAs(t, err, &notRegistered)
		assert.Equal(t, reflect.TypeFor[profiles.SomeService2](), notRegistered.Type)
	})
}

func TestAddMapper_Logging(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)

	c := newContainer(t)
	_, err := AddMapper(c, Options{Markers: []any{pirates.Person{}}, Logger: zap.New(core)})
	require.NoError(t, err)

	di.MustGet[*mapper.Configuration](c)

	assert.Equal(t, 1, logs.FilterMessage("assemblies scanned").Len())
	assert.Equal(t, 1, logs.FilterMessage("mapper configuration resolved").FilterField(zap.Int("profiles", 1)).Len())
}

func TestAddProxy(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, AddProxy[pirates.PirateMapper](di.New()), ErrMapperNotRegistered)

	c := newContainer(t)
	_, err := AddMapper(c, Options{Markers: []any{pirates.Person{}}})
	require.NoError(t, err)

	require.NoError(t, AddProxy[pirates.PirateMapper](c))
	require.NoError(t, AddProxy[pirates.PirateMapper](c))
	assert.Equal(t, 1, countDescriptors(c, reflect.TypeFor[pirates.PirateMapper]()))

	d, ok := c.Descriptor(reflect.TypeFor[pirates.PirateMapper]())
	require.True(t, ok)
	assert.Equal(t, di.Scoped, d.Lifetime)

	scope := c.CreateScope()
	defer scope.Close()

	pm := di.MustGet[pirates.PirateMapper](scope)
	assert.Equal(t, "Pirate Tom", pm.ToPirate(pirates.Person{Name: "Tom"}).Name)

	got, err := pm.Convert(pirates.Person{Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Pirate Ann", got.Name)

	dynamic, err := pm.Map(pirates.Person{Name: "Bo"}, reflect.TypeFor[pirates.Person](), reflect.TypeFor[pirates.Pirate]())
	require.NoError(t, err)
	assert.Equal(t, pirates.Pirate{Name: "Pirate Bo"}, dynamic)

	type NotAProxy interface {
		Hello(name string, times int) string
	}

	require.Error(t, AddProxy[NotAProxy](c))
}

type alphaKey struct{}

type betaKey struct{}

func TestAddKeyedMapper(t *testing.T) {
	t.Parallel()

	c := newContainer(t)

	_, err := AddKeyedMapper[alphaKey](c, Options{Markers: []any{pirates.Person{}}})
	require.NoError(t, err)

	_, err = AddKeyedMapper[betaKey](c, Options{Configure: func(cfg *mapper.ConfigurationExpression) {
		cfg.CreateMaps("beta", func(p *mapper.ProfileExpression) {
			mapper.CreateMap[pirates.Person, pirates.Pirate](p).
				ForMember("Name", mapper.UseValue[pirates.Person, pirates.Pirate]("Beta"))
		})
	}})
	require.NoError(t, err)

	assert.False(t, c.Has(reflect.TypeFor[*mapper.Configuration]()))

	scope := c.CreateScope()
	defer scope.Close()

	alpha := di.MustGet[*Mapper[alphaKey]](scope)
	beta := di.MustGet[*Mapper[betaKey]](scope)

	a, err := mapper.Map[pirates.Pirate](alpha.Mapper, pirates.Person{Name: "Tom"})
	require.NoError(t, err)
	assert.Equal(t, "Pirate Tom", a.Name)

	b, err := mapper.Map[pirates.Pirate](beta.Mapper, pirates.Person{Name: "Tom"})
	require.NoError(t, err)
	assert.Equal(t, "Beta", b.Name)

	assert.NotSame(t, di.MustGet[*Config[alphaKey]](scope).Configuration, di.MustGet[*Config[betaKey]](scope).Configuration)
}

func TestAssertValid(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, markers ...any) *httptest.ResponseRecorder {
		t.Helper()

		c := di.New()
		_, err := AddMapper(c, Options{Markers: markers})
		require.NoError(t, err)

		r := chi.NewRouter()
		r.Use(AssertValid(c))
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		return rec
	}

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, pirates.Person{})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, invalid.Source{})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "PropertyTwo")
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	c := newContainer(t)

	cfg, candidates, err := Build(c, Options{Markers: []any{profiles.Source{}}})
	require.NoError(t, err)
	assert.Len(t, candidates, 7)
	assert.Len(t, cfg.TypeMaps(), 3)
	assert.False(t, c.Has(reflect.TypeFor[*mapper.Configuration]()))

	got, err := mapper.MapTo[profiles.Source2, profiles.Dest2](cfg.NewMapper(nil), profiles.Source2{ConvertedValue: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, got.ResolvedValue)
	assert.Equal(t, 6, got.ConvertedValue)

	_, _, err = Build(c, Options{CandidateLifetime: "weekly"})
	require.ErrorContains(t, err, "invalid candidate lifetime")
}
