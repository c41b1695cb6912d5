package types_test

import (
	"testing"

	"github.com/cottand/typealg/decl"
	"github.com/cottand/typealg/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// groundPool is a spread of variable-free reference types over the sample
// hierarchy, related to each other in as many ways as possible
func groundPool(s *decl.SampleHierarchy) []types.Type {
	animal, dog, puppy := s.Animal.Raw(), s.Dog.Raw(), s.Puppy.Raw()
	integer, num, str := s.Integer.Raw(), s.Number.Raw(), s.String.Raw()
	return []types.Type{
		types.Top,
		animal, dog, puppy,
		integer, num, str,
		s.Comparable.Of(integer),
		s.Comparable.Of(types.Super(integer)),
		s.Comparable.Of(types.Unbounded()),
		s.Box.Of(animal),
		s.Box.Of(dog),
		s.Box.Of(puppy),
		s.Box.Of(types.Extends(animal)),
		s.Box.Of(types.Extends(dog)),
		s.Box.Of(types.Super(puppy)),
		s.Box.Of(types.Super(dog)),
		s.Box.Of(types.Unbounded()),
		s.Box.Of(s.Box.Of(types.Extends(dog))),
		s.Box.Of(types.Extends(s.Box.Of(types.Extends(animal)))),
		s.StringList.Raw(),
		s.ListKind.Of(str),
		s.CollectionKind.Of(str),
		s.CollectionKind.Of(types.Extends(s.Comparable.Of(str))),
		s.IterableKind.Of(str),
		s.IterableKind.Of(types.Unbounded()),
		s.SetKind.Of(integer),
		s.SortedSetKind.Of(integer),
		s.CollectionKind.Of(types.Extends(num)),
		s.Pair.Of(dog, str),
		s.Pair.Of(types.Extends(animal), str),
		s.Swapped.Of(str, dog),
		s.Inner.In(s.Outer.Of(dog), str),
		types.ArrayOf(dog),
		types.ArrayOf(animal),
		types.ArrayOf(types.Top),
		types.ArrayOf(s.Box.Of(types.Extends(animal))),
	}
}

func poolIndex(pool []types.Type) gopter.Gen {
	return gen.IntRange(0, len(pool)-1)
}

func isSubtype(e *types.Engine, sub, super types.Type) bool {
	ok, err := e.IsSubtype(sub, super)
	if err != nil {
		panic(err)
	}
	return ok
}

func TestSubtypeProperties(t *testing.T) {
	s, e := sample(t)
	pool := groundPool(s)
	properties := gopter.NewProperties(nil)

	properties.Property("reflexivity", prop.ForAll(
		func(i int) bool {
			return isSubtype(e, pool[i], pool[i])
		},
		poolIndex(pool),
	))

	properties.Property("transitivity", prop.ForAll(
		func(i, j, k int) bool {
			a, b, c := pool[i], pool[j], pool[k]
			if !isSubtype(e, a, b) || !isSubtype(e, b, c) {
				return true
			}
			return isSubtype(e, a, c)
		},
		poolIndex(pool), poolIndex(pool), poolIndex(pool),
	))

	properties.Property("array covariance", prop.ForAll(
		func(i, j int) bool {
			a, b := pool[i], pool[j]
			return isSubtype(e, types.ArrayOf(a), types.ArrayOf(b)) == isSubtype(e, a, b)
		},
		poolIndex(pool), poolIndex(pool),
	))

	properties.Property("everything extends top", prop.ForAll(
		func(i int) bool {
			return isSubtype(e, pool[i], types.Top)
		},
		poolIndex(pool),
	))

	properties.Property("substituting absent variables is a no-op", prop.ForAll(
		func(i int) bool {
			absent := types.NewTypeVar("Absent")
			m := types.Bindings{}.Bind(absent, s.Dog.Raw())
			return types.Substitute(pool[i], m) == pool[i]
		},
		poolIndex(pool),
	))

	properties.Property("hashes agree with equality", prop.ForAll(
		func(i, j int) bool {
			a, b := pool[i], pool[j]
			return !types.Equal(a, b) || a.Hash() == b.Hash()
		},
		poolIndex(pool), poolIndex(pool),
	))

	properties.TestingRun(t)
}

func TestArraysOfPrimitives(t *testing.T) {
	s, e := sample(t)
	for _, ref := range groundPool(s) {
		for _, p := range []types.Primitive{types.Int, types.Boolean, types.Double} {
			assert.False(t, isSubtype(e, types.ArrayOf(p), types.ArrayOf(ref)), "%s[] <: %s[]", p, ref)
			assert.False(t, isSubtype(e, types.ArrayOf(ref), types.ArrayOf(p)), "%s[] <: %s[]", ref, p)
		}
	}
}

// upgrading the downgraded type back to the shape of its class must give
// back the original arguments
func TestDowngradeUpgradeRoundTrip(t *testing.T) {
	s, e := sample(t)
	str, integer, dog := s.String.Raw(), s.Integer.Raw(), s.Dog.Raw()

	testCases := []struct {
		original types.Type
		ancestor *types.Class
	}{
		{s.ListKind.Of(str), s.CollectionKind.Raw()},
		{s.ListKind.Of(str), s.IterableKind.Raw()},
		{s.SortedSetKind.Of(integer), s.IterableKind.Raw()},
		{s.Swapped.Of(str, dog), s.Pair.Raw()},
		{s.Swapped.Of(dog, dog), s.Pair.Raw()},
		{s.Inner.In(s.Outer.Of(str), dog), s.Pair.Raw()},
		{s.StringList.Raw(), s.IterableKind.Raw()},
		{types.ArrayOf(s.SetKind.Of(dog)), s.CollectionKind.Raw()},
	}
	for _, tc := range testCases {
		t.Run(types.SimpleName(tc.original), func(t *testing.T) {
			down, err := e.Downgrade(tc.original, tc.ancestor)
			if !assert.NoError(t, err) {
				return
			}
			raw := types.RawOf(tc.original)
			if arr, ok := tc.original.(*types.Array); ok {
				raw = types.RawOf(arr.Component)
			}
			up, err := e.Upgrade(down, raw)
			if !assert.NoError(t, err) {
				return
			}
			requireSameType(t, tc.original, up)
		})
	}
}
