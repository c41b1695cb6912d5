package decl

import (
	"testing"

	"github.com/cottand/typealg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIsWellFormed(t *testing.T) {
	s := Sample()
	require.NoError(t, s.Check())
}

func TestDeclarationsOfSample(t *testing.T) {
	s := Sample()

	assert.Equal(t, types.Top, s.Superclass(s.Animal.Raw()))
	assert.Equal(t, s.Animal.Raw(), s.Superclass(s.Dog.Raw()))
	assert.Nil(t, s.Superclass(s.ListKind.Raw()), "interfaces have no superclass")
	assert.Len(t, s.Interfaces(s.Integer.Raw()), 1)
	assert.Equal(t, s.Outer.Raw(), s.Enclosing(s.Inner.Raw()))
	assert.Nil(t, s.Enclosing(s.Outer.Raw()))

	swapped := s.Superclass(s.Swapped.Raw())
	assert.Equal(t, "Pair<Y,X>", types.SimpleName(swapped))
}

func TestUnknownClass(t *testing.T) {
	table := NewTable()
	stranger := types.NewClass("Stranger", types.KindClass)

	assert.Nil(t, table.Params(stranger))
	assert.Nil(t, table.Superclass(stranger))
	assert.Nil(t, table.Interfaces(stranger))
	assert.Nil(t, table.Enclosing(stranger))
}

func TestLookup(t *testing.T) {
	s := Sample()
	box, ok := s.Lookup("Box")
	require.True(t, ok)
	assert.Equal(t, s.Box.Raw(), box.Raw())

	_, ok = s.Lookup("Crate")
	assert.False(t, ok)

	classes := s.Classes()
	assert.Equal(t, "Comparable", classes[0].Name)
}

func TestShape(t *testing.T) {
	s := Sample()
	tests := []struct {
		decl *Decl
		want string
	}{
		{s.Dog, "Dog"},
		{s.Box, "Box<E>"},
		{s.Pair, "Pair<A,B>"},
		{s.Inner, "Outer<P>.Inner<Q>"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, types.SimpleName(tt.decl.Shape()))
		})
	}
}

func TestFBoundedParameter(t *testing.T) {
	s := Sample()
	e := s.SortedSetKind.Param("E")
	require.Len(t, e.Bounds(), 1)
	assert.True(t, types.Equal(s.Comparable.Of(e), e.Bounds()[0]))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *Table)
		msg   string
	}{
		{
			name: "wrong argument count",
			build: func(t *Table) {
				box := t.Class("Box", "E")
				t.Class("Crate").Extends(box.Of())
			},
			msg: "Box declares 1 parameters but got 0 arguments",
		},
		{
			name: "raw use",
			build: func(t *Table) {
				box := t.Class("Box", "E")
				t.Class("Crate").Extends(box.Raw())
			},
			msg: "raw use of generic class Box",
		},
		{
			name: "foreign variable",
			build: func(t *Table) {
				box := t.Class("Box", "E")
				t.Class("Crate", "T").Extends(box.Of(box.Param("E")))
			},
			msg: "variable E is not in scope",
		},
		{
			name: "primitive argument",
			build: func(t *Table) {
				box := t.Class("Box", "E")
				t.Class("Crate").Extends(box.Of(types.Int))
			},
			msg: "primitive int used as an argument of Box",
		},
		{
			name: "unknown bound",
			build: func(t *Table) {
				t.Class("Box", "E").Bound("E", types.NewClass("Ghost", types.KindClass))
			},
			msg: "unknown class Ghost",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			tt.build(table)
			err := table.Check()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEnclosingParametersAreInScope(t *testing.T) {
	table := NewTable()
	pair := table.Class("Pair", "A", "B")
	outer := table.Class("Outer", "P")
	inner := table.Class("Inner", "Q").NestedIn(outer)
	inner.Extends(pair.Of(outer.Param("P"), inner.Param("Q")))

	assert.NoError(t, table.Check())
}

func TestDeclarationMisuse(t *testing.T) {
	table := NewTable()
	box := table.Class("Box", "E")
	iface := table.Interface("Shape")

	assert.Panics(t, func() { table.Class("Box") })
	assert.Panics(t, func() { box.Param("F") })
	assert.Panics(t, func() { iface.Extends(box.Of(types.Top)) })
}
