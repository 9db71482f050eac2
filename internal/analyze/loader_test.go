package analyze

import (
	"go/types"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapwire/examples/pirates"
	"mapwire/proxy"
	"mapwire/scan"
)

const (
	piratesPath  = "mapwire/examples/pirates"
	profilesPath = "mapwire/examples/profiles"
	invalidPath  = "mapwire/examples/invalid"
	commonPath   = "mapwire/internal/common"
)

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	res, err := analyzer.LoadPackages(piratesPath, profilesPath, invalidPath)
	require.NoError(t, err)
	require.Len(t, res.Packages, 3)

	pirateProfiles, ok := res.Package(piratesPath)
	require.True(t, ok)
	assert.Equal(t, "pirates", pirateProfiles.Name)
	assert.Equal(t, "mapwire", pirateProfiles.Module)
	assert.NotEmpty(t, pirateProfiles.Dir)
	assert.Equal(t, []string{"PirateProfile"}, pirateProfiles.Types)

	profiles, ok := res.Package(profilesPath)
	require.True(t, ok)
	assert.Equal(t, []string{
		"DependencyResolver",
		"DependencyValueConverter",
		"Profile1",
		"ProfileWithDependency",
		"fooMappingAction",
		"fooMemberValueResolver",
		"fooTypeConverter",
		"fooValueConverter",
		"fooValueResolver",
		"profile2",
	}, profiles.Types)

	invalid, ok := res.Package(invalidPath)
	require.True(t, ok)
	assert.Equal(t, []string{"InvalidProfile"}, invalid.Types)
}

func TestAnalyzer_Interfaces(t *testing.T) {
	analyzer := NewAnalyzer()
	res, err := analyzer.LoadPackages(piratesPath)
	require.NoError(t, err)

	pkg, iface, ok := res.LookupInterface(piratesPath + ".PirateMapper")
	require.True(t, ok)
	assert.True(t, iface.Exported)
	assert.Len(t, iface.Methods, 5)
	assert.Equal(t, []Import{{Path: "reflect", Name: "reflect", Standard: true}}, iface.Imports)

	desc, err := iface.Describe(pkg)
	require.NoError(t, err)
	assert.Equal(t, piratesPath+".PirateMapper", desc.Interface)

	typed := desc.Method(proxy.Typed)
	require.NotNil(t, typed)
	assert.Equal(t, "Convert", typed.Name())
	assert.Equal(t, "Person", typed.Source.Name)
	assert.Equal(t, "Pirate", typed.Destination.Name)
	assert.True(t, typed.ReturnsError)

	dynamic := desc.Method(proxy.Dynamic)
	require.NotNil(t, dynamic)
	assert.Equal(t, "Map(any, reflect.Type, reflect.Type) (any, error)", dynamic.Signature.String())

	_, _, ok = res.LookupInterface(piratesPath + ".Missing")
	assert.False(t, ok)
	_, _, ok = res.LookupInterface("nodot")
	assert.False(t, ok)
}

func TestAnalyzer_MatchesReflect(t *testing.T) {
	analyzer := NewAnalyzer()
	res, err := analyzer.LoadPackages(piratesPath)
	require.NoError(t, err)

	pkg, iface, ok := res.LookupInterface(piratesPath + ".PirateMapper")
	require.True(t, ok)

	fromTypes, err := iface.Describe(pkg)
	require.NoError(t, err)

	fromReflect, err := proxy.Describe(reflect.TypeFor[pirates.PirateMapper]())
	require.NoError(t, err)

	assert.Equal(t, fromReflect.Interface, fromTypes.Interface)

	for p := range proxy.Pattern(proxy.PatternTotal) {
		want, got := fromReflect.Method(p), fromTypes.Method(p)
		require.NotNil(t, want, p.String())
		require.NotNil(t, got, p.String())

		assert.Equal(t, want.Name(), got.Name(), p.String())
		assert.Equal(t, want.Source.Key, got.Source.Key, p.String())
		assert.Equal(t, want.Destination.Key, got.Destination.Key, p.String())
		assert.Equal(t, want.ReturnsError, got.ReturnsError, p.String())
	}
}

func TestResult_Candidates(t *testing.T) {
	analyzer := NewAnalyzer()
	res, err := analyzer.LoadPackages(piratesPath, invalidPath, commonPath)
	require.NoError(t, err)

	mapperLib := findLibrary(t, res, "mapwire/mapper")
	assert.Contains(t, mapperLib.Dependencies, "reflect")

	candidates, err := res.Candidates()
	require.NoError(t, err)

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}

	assert.Equal(t, []string{invalidPath, piratesPath}, paths)

	none, err := res.Candidates("example.com/unused")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func findLibrary(t *testing.T, res *Result, name string) scan.Library {
	t.Helper()

	for _, lib := range res.Libraries {
		if lib.Name == name {
			return lib
		}
	}

	t.Fatalf("library %s not in graph", name)

	return scan.Library{}
}

func TestSlotOf(t *testing.T) {
	pkg := types.NewPackage("example.com/shop", "shop")
	order := types.NewNamed(types.NewTypeName(0, pkg, "Order", nil), types.NewStruct(nil, nil), nil)
	reflectPkg := types.NewPackage("reflect", "reflect")
	reflectType := types.NewNamed(types.NewTypeName(0, reflectPkg, "Type", nil), types.NewInterfaceType(nil, nil).Complete(), nil)
	empty := types.NewInterfaceType(nil, nil).Complete()

	tests := []struct {
		name     string
		typ      types.Type
		wantKind proxy.SlotKind
		wantKey  string
		wantName string
	}{
		{"local named", order, proxy.SlotValue, "example.com/shop.Order", "Order"},
		{"pointer", types.NewPointer(order), proxy.SlotValue, "*example.com/shop.Order", "*Order"},
		{"slice", types.NewSlice(types.Typ[types.Int]), proxy.SlotValue, "[]int", "[]int"},
		{"map", types.NewMap(types.Typ[types.String], types.NewPointer(order)), proxy.SlotValue, "map[string]*example.com/shop.Order", "map[string]*Order"},
		{"empty interface", empty, proxy.SlotAny, "any", "any"},
		{"any alias", types.Universe.Lookup("any").Type(), proxy.SlotAny, "any", "any"},
		{"error", types.Universe.Lookup("error").Type(), proxy.SlotError, "error", "error"},
		{"reflect type", reflectType, proxy.SlotType, "reflect.Type", "reflect.Type"},
		{"instantiated", instantiate(t, newBox(pkg), order), proxy.SlotValue, "example.com/shop.box[example.com/shop.Order]", "box[Order]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQualifier(pkg, "example.com/shop")
			got := slotOf(tt.typ, q.qualify)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantKey, got.Key)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

type box[T any] struct{ V T }

// newBox declares box[T any] in pkg.
func newBox(pkg *types.Package) *types.Named {
	param := types.NewTypeParam(types.NewTypeName(0, pkg, "T", nil), types.NewInterfaceType(nil, nil).Complete())
	named := types.NewNamed(types.NewTypeName(0, pkg, "box", nil), nil, nil)
	named.SetTypeParams([]*types.TypeParam{param})
	named.SetUnderlying(types.NewStruct([]*types.Var{types.NewField(0, pkg, "V", param, false)}, nil))

	return named
}

func instantiate(t *testing.T, generic *types.Named, args ...types.Type) types.Type {
	t.Helper()

	inst, err := types.Instantiate(nil, generic, args, true)
	require.NoError(t, err)

	return inst
}

func TestTypeKey_Instantiations(t *testing.T) {
	pkg := types.NewPackage(reflect.TypeFor[box[int]]().PkgPath(), "analyze")
	generic := newBox(pkg)

	boxInt := instantiate(t, generic, types.Typ[types.Int])
	boxString := instantiate(t, generic, types.Typ[types.String])

	assert.Equal(t, proxy.TypeKey(reflect.TypeFor[box[int]]()), typeKey(boxInt))
	assert.Equal(t, proxy.TypeKey(reflect.TypeFor[box[string]]()), typeKey(boxString))
	assert.NotEqual(t, typeKey(boxInt), typeKey(boxString))

	sig := proxy.Signature{
		Name:     "Into",
		Exported: true,
		Params: []proxy.Slot{
			slotOf(types.Typ[types.String], nil),
			slotOf(boxInt, nil),
		},
		Results: []proxy.Slot{slotOf(boxString, nil)},
	}

	_, err := proxy.DescribeSignatures("example.com/shop.Boxer", true, []proxy.Signature{sig})

	var unmatched *proxy.UnmatchedMethodError
	require.ErrorAs(t, err, &unmatched, "box[int] into box[string] is not a TypedInto method")
}

func TestIsStandard(t *testing.T) {
	tests := []struct {
		path   string
		module string
		want   bool
	}{
		{"reflect", "mapwire", true},
		{"net/http", "mapwire", true},
		{"mapwire", "mapwire", false},
		{"mapwire/mapper", "mapwire", false},
		{"mapwirex/other", "mapwire", true},
		{"mapwire/mapper", "example.com/shop", false},
		{"mapwire/proxy", "", false},
		{"mapwirex/other", "example.com/shop", true},
		{"github.com/google/wire", "mapwire", false},
		{"golang.org/x/tools/go/packages", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStandard(tt.path, tt.module), tt.path)
	}
}
