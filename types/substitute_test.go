package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	box := NewClass("Box", KindClass)
	pair := NewClass("Pair", KindClass)
	str := NewClass("String", KindClass)
	num := NewClass("Number", KindClass)
	a := NewTypeVar("A")
	b := NewTypeVar("B")
	m := Bindings{}.Bind(a, str).Bind(b, num)

	testCases := []struct {
		name     string
		input    Type
		expected string
	}{
		{"variable", a, "String"},
		{"unbound variable", NewTypeVar("C"), "C"},
		{"arguments", NewParameterized(pair, a, b), "Pair<String,Number>"},
		{"swapped arguments", NewParameterized(pair, b, a), "Pair<Number,String>"},
		{"wildcard bounds", NewParameterized(box, Super(a)), "Box<? super String>"},
		{"array component", ArrayOf(NewParameterized(box, b)), "Box<Number>[]"},
		{"owner", NewNested(NewParameterized(box, a), pair, b, b), "Box<String>.Pair<Number,Number>"},
		{"primitive", Int, "int"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SimpleName(Substitute(tc.input, m)))
		})
	}
}

func TestSubstituteSharesUnchangedNodes(t *testing.T) {
	box := NewClass("Box", KindClass)
	pair := NewClass("Pair", KindClass)
	str := NewClass("String", KindClass)
	a := NewTypeVar("A")
	unrelated := NewTypeVar("Z")

	closed := NewParameterized(pair, NewParameterized(box, str), ArrayOf(str))
	assert.Same(t, closed, Substitute(closed, Bindings{}.Bind(a, str)))

	open := NewParameterized(pair, NewParameterized(box, str), a)
	res := Substitute(open, Bindings{}.Bind(a, str)).(*Parameterized)
	assert.NotSame(t, open, res)
	assert.Same(t, open.Args[0], res.Args[0])
	assert.Same(t, open, Substitute(open, Bindings{}.Bind(unrelated, str)))
	assert.Same(t, open, Substitute(open, nil))
}

func TestBindingsAreCopied(t *testing.T) {
	a := NewTypeVar("A")
	first := Bindings{}.Bind(a, Top)
	second := first.Bind(a, ArrayOf(Top))

	got, ok := first.Lookup(a)
	assert.True(t, ok)
	assert.Equal(t, Top, got)
	got, _ = second.Lookup(a)
	assert.Equal(t, "Object[]", SimpleName(got))
}

func TestFreeVars(t *testing.T) {
	pair := NewClass("Pair", KindClass)
	a := NewTypeVar("A")
	b := NewTypeVar("B")

	vars := FreeVars(NewParameterized(pair, ArrayOf(b), NewParameterized(pair, Extends(a), b)))
	assert.Equal(t, []*TypeVar{b, a}, vars)
	assert.Empty(t, FreeVars(Int))
}
