package proxy

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapwire/mapper"
)

type Person struct{ Name string }

type Pirate struct{ Name string }

type PirateMapper interface {
	ToPirate(source any) Pirate
	Convert(source Person) (Pirate, error)
	Into(source Person, destination Pirate) Pirate
	Dynamic(source any, sourceType, destinationType reflect.Type) (any, error)
	DynamicInto(source, destination any, sourceType, destinationType reflect.Type) any
}

// pirateMapperProxy has the shape mapwire gen emits.
type pirateMapperProxy struct {
	mapper *mapper.Mapper
}

func (p *pirateMapperProxy) ToPirate(source any) Pirate {
	out, err := mapper.Map[Pirate](p.mapper, source)
	if err != nil {
		panic(err)
	}

	return out
}

func (p *pirateMapperProxy) Convert(source Person) (Pirate, error) {
	return mapper.MapTo[Person, Pirate](p.mapper, source)
}

func (p *pirateMapperProxy) Into(source Person, destination Pirate) Pirate {
	out, err := mapper.MapInto[Person, Pirate](p.mapper, source, destination)
	if err != nil {
		panic(err)
	}

	return out
}

func (p *pirateMapperProxy) Dynamic(source any, sourceType, destinationType reflect.Type) (any, error) {
	return p.mapper.MapType(source, sourceType, destinationType)
}

func (p *pirateMapperProxy) DynamicInto(source, destination any, sourceType, destinationType reflect.Type) any {
	out, err := p.mapper.MapTypeInto(source, destination, sourceType, destinationType)
	if err != nil {
		panic(err)
	}

	return out
}

func init() {
	Emit(func(m *mapper.Mapper) PirateMapper {
		return &pirateMapperProxy{mapper: m}
	})
}

type pirateProfile struct{}

func (pirateProfile) Configure(p *mapper.ProfileExpression) {
	mapper.CreateMap[Person, Pirate](p).
		ForMember("Name", mapper.MapFrom[Person, Pirate](func(s Person) string { return "Pirate " + s.Name }))
}

func newMapper(t *testing.T) *mapper.Mapper {
	t.Helper()

	cfg, err := mapper.NewConfiguration(func(c *mapper.ConfigurationExpression) {
		c.AddProfile(pirateProfile{})
	})
	require.NoError(t, err)

	return cfg.NewMapper(nil)
}

type (
	lowerMapper interface{ ToPirate(source any) Pirate }

	Hidden interface {
		ToPirate(source any) Pirate
		hidden()
	}

	Unmatched interface {
		Rename(name string, age int) Pirate
	}

	Variadic interface {
		Map(sources ...any) Pirate
	}

	WrongSecondResult interface {
		Map(source any) (Pirate, string)
	}

	InterfaceDestination interface {
		Map(source any) fmt.Stringer
	}

	Ambiguous interface {
		A(source any) Pirate
		B(source any) Person
	}

	Empty interface{}

	NoAdapter interface {
		ToPirate(source any) Pirate
	}
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	d, err := Describe(reflect.TypeFor[PirateMapper]())
	require.NoError(t, err)

	assert.Equal(t, "mapwire/proxy.PirateMapper", d.Interface)
	require.Len(t, d.Methods(), PatternTotal)

	want := map[Pattern]string{
		DestinationOnly: "ToPirate",
		Typed:           "Convert",
		TypedInto:       "Into",
		Dynamic:         "Dynamic",
		DynamicInto:     "DynamicInto",
	}
	for p, name := range want {
		m := d.Method(p)
		require.NotNil(t, m, p.String())
		assert.Equal(t, name, m.Name())
		assert.Equal(t, p, m.Pattern)
	}

	typed := d.Method(Typed)
	assert.True(t, typed.ReturnsError)
	assert.Equal(t, "mapwire/proxy.Person", typed.Source.Key)
	assert.Equal(t, "mapwire/proxy.Pirate", typed.Destination.Key)
	assert.Equal(t, "proxy.Pirate", typed.Destination.Name)

	assert.False(t, d.Method(TypedInto).ReturnsError)
	assert.True(t, d.Method(Dynamic).ReturnsError)
	assert.Nil(t, d.Method(Pattern(PatternTotal)))
}

func TestDescribeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     reflect.Type
		target  any
		message string
	}{
		{"not an interface", reflect.TypeFor[Pirate](), new(*NotInterfaceError), "is not an interface"},
		{"unexported interface", reflect.TypeFor[lowerMapper](), new(*NotPublicError), "mapwire/proxy.lowerMapper should be public interface"},
		{"unnamed interface", reflect.TypeFor[interface{ ToPirate(any) Pirate }](), new(*NotPublicError), "should be public interface"},
		{"unexported method", reflect.TypeFor[Hidden](), new(*UnsupportedMemberError), `member "hidden"`},
		{"unmatched", reflect.TypeFor[Unmatched](), new(*UnmatchedMethodError), "Rename(string, int) proxy.Pirate"},
		{"variadic", reflect.TypeFor[Variadic](), new(*UnmatchedMethodError), "Map(...interface {}) proxy.Pirate"},
		{"second result not error", reflect.TypeFor[WrongSecondResult](), new(*UnmatchedMethodError), "matching is done by signature"},
		{"interface destination", reflect.TypeFor[InterfaceDestination](), new(*UnmatchedMethodError), "fmt.Stringer"},
		{"ambiguous", reflect.TypeFor[Ambiguous](), new(*AmbiguousMethodError), "1) A(interface {}) proxy.Pirate\n2) B(interface {}) proxy.Person"},
		{"empty", reflect.TypeFor[Empty](), new(*EmptyInterfaceError), "not a single method was found in interface mapwire/proxy.Empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Describe(tt.typ)
			assert.Nil(t, d)
			require.ErrorAs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestDescribeSignatures(t *testing.T) {
	t.Parallel()

	person := Slot{Kind: SlotValue, Key: "example.com/app.Person", Name: "app.Person"}
	pirate := Slot{Kind: SlotValue, Key: "example.com/app.Pirate", Name: "app.Pirate"}
	errSlot := Slot{Kind: SlotError, Key: "error", Name: "error"}

	d, err := DescribeSignatures("example.com/app.Mapper", true, []Signature{
		{Name: "Into", Exported: true, Params: []Slot{person, pirate}, Results: []Slot{pirate, errSlot}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Into", d.Method(TypedInto).Name())

	_, err = DescribeSignatures("example.com/app.Mapper", true, []Signature{
		{Name: "Into", Exported: true, Params: []Slot{person, person}, Results: []Slot{pirate}},
	})

	var unmatched *UnmatchedMethodError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "Into(app.Person, app.Person) app.Pirate", unmatched.Method)

	_, err = DescribeSignatures("example.com/app.mapper", false, nil)

	var notPublic *NotPublicError
	require.ErrorAs(t, err, &notPublic)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	pt, err := Build(reflect.TypeFor[PirateMapper]())
	require.NoError(t, err)

	again, err := Build(reflect.TypeFor[PirateMapper]())
	require.NoError(t, err)
	assert.Same(t, pt, again)

	assert.Equal(t, reflect.TypeFor[*pirateMapperProxy](), pt.Implementation)
	assert.Contains(t, Emitted(), reflect.TypeFor[PirateMapper]())

	m := newMapper(t)
	pm, ok := pt.New(m).(PirateMapper)
	require.True(t, ok)

	tom := Person{Name: "Tom"}
	assert.Equal(t, "Pirate Tom", pm.ToPirate(tom).Name)

	typed, err := pm.Convert(tom)
	require.NoError(t, err)
	assert.Equal(t, "Pirate Tom", typed.Name)

	assert.Equal(t, "Pirate Tom", pm.Into(tom, Pirate{Name: "Jack"}).Name)

	dynamic, err := pm.Dynamic(tom, reflect.TypeFor[Person](), reflect.TypeFor[Pirate]())
	require.NoError(t, err)
	assert.Equal(t, Pirate{Name: "Pirate Tom"}, dynamic)

	assert.Equal(t, Pirate{Name: "Pirate Tom"}, pm.DynamicInto(tom, Pirate{}, reflect.TypeFor[Person](), reflect.TypeFor[Pirate]()))

	t.Run("mapper errors surface unchanged", func(t *testing.T) {
		t.Parallel()

		_, err := pm.Dynamic(Pirate{}, reflect.TypeFor[Pirate](), reflect.TypeFor[Person]())
		require.Error(t, err)
		assert.True(t, mapper.IsMissingMap(err))

		assert.PanicsWithError(t, err.Error(), func() {
			pm.DynamicInto(Pirate{}, Person{}, reflect.TypeFor[Pirate](), reflect.TypeFor[Person]())
		})
	})
}

// PersonConverter is only built by TestBuild_Concurrent, so its first Build
// happens there.
type PersonConverter interface {
	Convert(source Person) (Pirate, error)
}

type personConverterProxy struct {
	mapper *mapper.Mapper
}

func (p *personConverterProxy) Convert(source Person) (Pirate, error) {
	return mapper.MapTo[Person, Pirate](p.mapper, source)
}

func init() {
	Emit(func(m *mapper.Mapper) PersonConverter {
		return &personConverterProxy{mapper: m}
	})
}

func TestBuild_Concurrent(t *testing.T) {
	t.Parallel()

	const workers = 16

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		types = make([]*Type, workers)
		errs  = make([]error, workers)
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start
			types[i], errs[i] = Build(reflect.TypeFor[PersonConverter]())
		}()
	}

	close(start)
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Same(t, types[0], types[i])
	}

	pc, ok := types[0].New(newMapper(t)).(PersonConverter)
	require.True(t, ok)

	pirate, err := pc.Convert(Person{Name: "Mary"})
	require.NoError(t, err)
	assert.Equal(t, "Pirate Mary", pirate.Name)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := Build(reflect.TypeFor[NoAdapter]())

	var notGenerated *NotGeneratedError
	require.ErrorAs(t, err, &notGenerated)
	assert.Contains(t, err.Error(), "mapwire gen")

	_, err = Build(reflect.TypeFor[Ambiguous]())

	var ambiguous *AmbiguousMethodError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, DestinationOnly, ambiguous.Pattern)
}

func TestFactory(t *testing.T) {
	t.Parallel()

	newPirateMapper, err := Factory[PirateMapper]()
	require.NoError(t, err)

	pm := newPirateMapper(newMapper(t))
	assert.Equal(t, "Pirate Ann", pm.ToPirate(Person{Name: "Ann"}).Name)

	_, err = Factory[NoAdapter]()
	require.Error(t, err)
}

func TestPatternString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TypedInto", TypedInto.String())
	assert.Equal(t, "Pattern(9)", Pattern(9).String())
	assert.Equal(t, "func(source S) R", Typed.Shape())
}
