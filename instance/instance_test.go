package instance

import (
	"testing"

	"github.com/cottand/typealg/decl"
	"github.com/cottand/typealg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dog struct{ name string }

type box struct{ of string }

func setup(t *testing.T) (*decl.SampleHierarchy, *types.Engine, *Factory) {
	t.Helper()
	s := decl.Sample()
	e := types.NewEngine(s.Table)
	f := NewFactory(e)
	f.Register(s.Dog.Raw(), func(types.Type) (any, error) {
		return &dog{name: "rex"}, nil
	})
	f.Register(s.Box.Raw(), func(t types.Type) (any, error) {
		return &box{of: types.SimpleName(t)}, nil
	})
	return s, e, f
}

func TestFactoryNew(t *testing.T) {
	s, _, f := setup(t)
	tests := []struct {
		name string
		typ  types.Type
		want any
	}{
		{"registered class", s.Dog.Raw(), &dog{name: "rex"}},
		{"parameterized", s.Box.Of(s.Dog.Raw()), &box{of: "Box<Dog>"}},
		{"wildcard argument", s.Box.Of(types.Extends(s.Animal.Raw())), &box{of: "Box<? extends Animal>"}},
		{"array", types.ArrayOf(s.Dog.Raw()), []any{}},
		{"int", types.Int, int32(0)},
		{"boolean", types.Boolean, false},
		{"double", types.Double, float64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.New(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFactoryRejects(t *testing.T) {
	s, _, f := setup(t)
	tests := []struct {
		name string
		typ  types.Type
		msg  string
	}{
		{"variable", s.Box.Param("E"), "unresolved variables [E]"},
		{"variable argument", s.Box.Of(s.Box.Param("E")), "unresolved variables [E]"},
		{"raw usage", s.Box.Raw(), "raw"},
		{"wildcard", types.Unbounded(), "wildcard"},
		{"no constructor", s.Puppy.Raw(), "no constructor registered for Puppy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.New(tt.typ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFactoryKeepsCode(t *testing.T) {
	s, _, f := setup(t)
	_, err := f.New(s.Box.Raw())
	assert.Equal(t, types.MalformedRelationInput, types.CodeOf(err))
}

func TestTokenProjections(t *testing.T) {
	s, e, f := setup(t)
	v := types.NewTypeVar("V")

	listOfString, err := Of(e, s.ListKind.Of(s.String.Raw()))
	require.NoError(t, err)
	collectionMask, err := Of(e, s.CollectionKind.Of(v))
	require.NoError(t, err)
	listMask, err := Of(e, s.ListKind.Of(v))
	require.NoError(t, err)
	elementMask, err := Of(e, v)
	require.NoError(t, err)

	t.Run("downgrade", func(t *testing.T) {
		res, err := listOfString.Downgrade(collectionMask)
		require.NoError(t, err)
		assert.Equal(t, "CollectionKind<String>", res.String())
	})

	t.Run("upgrade", func(t *testing.T) {
		collection, err := listOfString.Downgrade(collectionMask)
		require.NoError(t, err)
		res, err := collection.Upgrade(listMask)
		require.NoError(t, err)
		assert.True(t, res.Equal(listOfString))
	})

	t.Run("transform", func(t *testing.T) {
		res, err := listOfString.Transform(collectionMask, elementMask.ArrayOf())
		require.NoError(t, err)
		assert.Equal(t, "String[]", res.String())

		elem, err := res.ElementOf()
		require.NoError(t, err)
		assert.Equal(t, "String", elem.String())
	})

	t.Run("transform mismatch", func(t *testing.T) {
		dogs, err := Of(e, s.Box.Of(s.Dog.Raw()))
		require.NoError(t, err)
		_, err = dogs.Transform(collectionMask, elementMask)
		assert.Equal(t, types.NoNominalPath, types.CodeOf(err))
	})

	t.Run("element of non array", func(t *testing.T) {
		_, err := listOfString.ElementOf()
		assert.Error(t, err)
	})

	t.Run("new instance", func(t *testing.T) {
		dogs, err := Of(e, s.Box.Of(s.Dog.Raw()))
		require.NoError(t, err)
		got, err := dogs.NewInstance(f)
		require.NoError(t, err)
		assert.Equal(t, &box{of: "Box<Dog>"}, got)

		_, err = collectionMask.NewInstance(f)
		assert.Error(t, err)
	})
}

func TestOfValidates(t *testing.T) {
	s, e, _ := setup(t)
	_, err := Of(e, s.Pair.Raw())
	assert.Equal(t, types.MalformedRelationInput, types.CodeOf(err))
}
