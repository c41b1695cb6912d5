package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	animal := NewClass("Animal", KindClass)
	otherAnimal := NewClass("Animal", KindClass)
	box := NewClass("Box", KindClass)
	e := NewTypeVar("E")
	otherE := NewTypeVar("E")

	testCases := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"same class", animal, animal, true},
		{"classes compare by identity", animal, otherAnimal, false},
		{"variables compare by identity", e, otherE, false},
		{"same variable", e, e, true},
		{"parameterized", NewParameterized(box, animal), NewParameterized(box, animal), true},
		{"different arguments", NewParameterized(box, animal), NewParameterized(box, otherAnimal), false},
		{"arrays", ArrayOf(animal), ArrayOf(animal), true},
		{"array against component", ArrayOf(animal), animal, false},
		{"wildcards", Extends(animal), Extends(animal), true},
		{"extends against super", Extends(animal), Super(animal), false},
		{"primitives", Int, Primitive{Name: "int"}, true},
		{"different primitives", Int, Long, false},
		{"owner matters", NewNested(NewParameterized(box, animal), box), NewParameterized(box), false},
		{"nil", nil, nil, true},
		{"nil against type", nil, animal, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, Equal(tc.a, tc.b))
			assert.Equal(t, tc.equal, Equal(tc.b, tc.a))
			if tc.equal && tc.a != nil {
				assert.Equal(t, tc.a.Hash(), tc.b.Hash())
			}
		})
	}
}

func TestHashDistinguishesStructure(t *testing.T) {
	box := NewClass("Box", KindClass)
	pair := NewClass("Pair", KindClass)
	a := NewClass("A", KindClass)
	b := NewClass("B", KindClass)

	hashes := map[uint64]string{}
	for _, typ := range []Type{
		box,
		NewParameterized(box, a),
		NewParameterized(pair, a, b),
		NewParameterized(pair, b, a),
		ArrayOf(a),
		ArrayOf(ArrayOf(a)),
		Extends(a),
		Super(a),
		Unbounded(),
		Int,
		Long,
	} {
		name := SimpleName(typ)
		prev, ok := hashes[typ.Hash()]
		assert.False(t, ok, "%s collides with %s", name, prev)
		hashes[typ.Hash()] = name
	}
}

func TestSimpleName(t *testing.T) {
	outer := NewClass("Outer", KindClass)
	inner := NewClass("Inner", KindClass)
	plain := NewClass("Plain", KindClass)
	str := NewClass("String", KindClass)
	num := NewClass("Number", KindClass)
	cmp := NewClass("Comparable", KindInterface)
	p := NewTypeVar("P")

	testCases := []struct {
		typ      Type
		expected string
	}{
		{str, "String"},
		{Int, "int"},
		{p, "P"},
		{ArrayOf(ArrayOf(Int)), "int[][]"},
		{NewParameterized(outer, str), "Outer<String>"},
		{NewNested(NewParameterized(outer, p), inner, Extends(num)), "Outer<P>.Inner<? extends Number>"},
		{NewNested(plain, inner, str), "Plain.Inner<String>"},
		{NewParameterized(outer, Unbounded()), "Outer<?>"},
		{NewParameterized(outer, Super(num)), "Outer<? super Number>"},
		{NewParameterized(outer, Extends(num, NewParameterized(cmp, num))), "Outer<? extends Number&Comparable<Number>>"},
		{ArrayOf(NewParameterized(outer, str)), "Outer<String>[]"},
		{nil, "<nil>"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, SimpleName(tc.typ))
		})
	}
}

func TestTypeVarBounds(t *testing.T) {
	v := NewTypeVar("T")
	assert.Equal(t, []Type{Top}, v.Bounds())

	num := NewClass("Number", KindClass)
	v.SetBounds(num)
	assert.Equal(t, []Type{num}, v.Bounds())
	assert.NotEqual(t, v.ID(), NewTypeVar("T").ID())
}

func TestWildcardForms(t *testing.T) {
	num := NewClass("Number", KindClass)

	lower, upper := bounds(Super(num))
	assert.Equal(t, []Type{num}, lower)
	assert.Equal(t, []Type{Top}, upper)

	lower, upper = bounds(Unbounded())
	assert.Empty(t, lower)
	assert.Equal(t, []Type{Top}, upper)

	lower, upper = bounds(num)
	assert.Equal(t, []Type{num}, lower)
	assert.Equal(t, []Type{num}, upper)
}

func TestRawOf(t *testing.T) {
	box := NewClass("Box", KindClass)
	assert.Equal(t, box, RawOf(box))
	assert.Equal(t, box, RawOf(NewParameterized(box, Top)))
	assert.Nil(t, RawOf(ArrayOf(box)))
	assert.Nil(t, RawOf(NewTypeVar("T")))
	assert.True(t, IsTop(Top))
	assert.False(t, IsTop(box))
	assert.True(t, IsPrimitive(Char))
}
