package decl

// SampleHierarchy is a small class hierarchy covering every kind of
// declaration: plain inheritance, generic interfaces, permuted arguments,
// F-bounded parameters and nested generic classes
type SampleHierarchy struct {
	*Table

	Animal, Dog, Puppy *Decl
	Number, Integer    *Decl
	String             *Decl
	Comparable         *Decl // Comparable<T>

	Box  *Decl // Box<E>
	Pair *Decl // Pair<A, B>
	// Swapped<X, Y> extends Pair<Y, X>
	Swapped *Decl

	IterableKind   *Decl // IterableKind<E>
	CollectionKind *Decl // CollectionKind<E> extends IterableKind<E>
	ListKind       *Decl // ListKind<E> extends CollectionKind<E>
	SetKind        *Decl // SetKind<E> extends CollectionKind<E>
	// SortedSetKind<E extends Comparable<E>> extends SetKind<E>
	SortedSetKind *Decl
	// StringList implements ListKind<String>
	StringList *Decl

	// Outer<P>.Inner<Q> implements Pair<P, Q>
	Outer, Inner *Decl
}

// Sample declares a fresh SampleHierarchy
func Sample() *SampleHierarchy {
	t := NewTable()
	s := &SampleHierarchy{Table: t}

	s.Comparable = t.Interface("Comparable", "T")
	s.Animal = t.Class("Animal")
	s.Dog = t.Class("Dog").Extends(s.Animal.Raw())
	s.Puppy = t.Class("Puppy").Extends(s.Dog.Raw())
	s.Number = t.Class("Number")
	s.Integer = t.Class("Integer").Extends(s.Number.Raw())
	s.Integer.Implements(s.Comparable.Of(s.Integer.Raw()))
	s.String = t.Class("String")
	s.String.Implements(s.Comparable.Of(s.String.Raw()))

	s.Box = t.Class("Box", "E")
	s.Pair = t.Class("Pair", "A", "B")
	s.Swapped = t.Class("Swapped", "X", "Y")
	s.Swapped.Extends(s.Pair.Of(s.Swapped.Param("Y"), s.Swapped.Param("X")))

	s.IterableKind = t.Interface("IterableKind", "E")
	s.CollectionKind = t.Interface("CollectionKind", "E")
	s.CollectionKind.Implements(s.IterableKind.Of(s.CollectionKind.Param("E")))
	s.ListKind = t.Interface("ListKind", "E")
	s.ListKind.Implements(s.CollectionKind.Of(s.ListKind.Param("E")))
	s.SetKind = t.Interface("SetKind", "E")
	s.SetKind.Implements(s.CollectionKind.Of(s.SetKind.Param("E")))
	s.SortedSetKind = t.Interface("SortedSetKind", "E")
	e := s.SortedSetKind.Param("E")
	s.SortedSetKind.Bound("E", s.Comparable.Of(e))
	s.SortedSetKind.Implements(s.SetKind.Of(e))
	s.StringList = t.Class("StringList").Implements(s.ListKind.Of(s.String.Raw()))

	s.Outer = t.Class("Outer", "P")
	s.Inner = t.Class("Inner", "Q").NestedIn(s.Outer)
	s.Inner.Extends(s.Pair.Of(s.Outer.Param("P"), s.Inner.Param("Q")))

	return s
}
