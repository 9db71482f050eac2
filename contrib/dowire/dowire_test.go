package dowire

import (
	"reflect"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapwire"
	"mapwire/di"
	"mapwire/examples/pirates"
	"mapwire/examples/profiles"
	"mapwire/mapper"
)

func newInjector() *do.Injector {
	i := do.New()
	do.Provide(i, func(*do.Injector) (profiles.SomeService, error) {
		return profiles.NewFooService(5), nil
	})
	do.ProvideValue[profiles.SomeService2](i, profiles.TrimStringService{})

	return i
}

func TestProvide(t *testing.T) {
	t.Parallel()

	i := newInjector()
	Provide(i, mapwire.Options{Markers: []any{profiles.Source{}}},
		Bind[profiles.SomeService](), Bind[profiles.SomeService2]())

	m := do.MustInvoke[*mapper.Mapper](i)
	assert.Same(t, m, do.MustInvoke[*mapper.Mapper](i))
	assert.Same(t, do.MustInvoke[*mapper.Configuration](i), m.Configuration())

	got, err := mapper.MapTo[profiles.Source2, profiles.Dest2](m, profiles.Source2{})
	require.NoError(t, err)
	assert.Equal(t, profiles.Dest2{ResolvedValue: 5, ConvertedValue: 5}, got)

	trimmed, err := mapper.Map[profiles.Dest4](m, profiles.Source4{Value: "\tdeck\n"})
	require.NoError(t, err)
	assert.Equal(t, "deck", trimmed.Value)
}

func TestProvide_UnboundService(t *testing.T) {
	t.Parallel()

	i := newInjector()
	Provide(i, mapwire.Options{Markers: []any{profiles.Source{}}})

	_, err := do.Invoke[*mapper.Mapper](i)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiles.SomeService2")
}

func TestProvideProxy(t *testing.T) {
	t.Parallel()

	i := do.New()
	Provide(i, mapwire.Options{Markers: []any{pirates.Person{}}})
	require.NoError(t, ProvideProxy[pirates.PirateMapper](i))

	pm := do.MustInvoke[pirates.PirateMapper](i)
	got, err := pm.Convert(pirates.Person{Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Pirate Ann", got.Name)
}

func TestResolver(t *testing.T) {
	t.Parallel()

	b := Bind[profiles.SomeService]()
	assert.Equal(t, reflect.TypeFor[profiles.SomeService](), b.Type())

	r := Resolver(newInjector(), b)

	v, err := r.Resolve(b.Type())
	require.NoError(t, err)
	assert.Equal(t, 7, v.(profiles.SomeService).Modify(2))

	_, err = r.Resolve(reflect.TypeFor[profiles.SomeService2]())

	var notRegistered *di.NotRegisteredError
	require.ErrorAs(t, err, &notRegistered)
}
