package types

import (
	"fmt"
	"iter"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
)

// SubtypeFunc decides sub <: super. The combinators use it to keep bound
// lists minimal.
type SubtypeFunc func(sub, super Type) (bool, error)

// VariableSolution holds the bounds collected for one variable. Upper keeps
// only the tightest incomparable bounds and Lower only the widest.
type VariableSolution struct {
	Upper []Type
	Lower []Type
}

func (vs VariableSolution) IsEmpty() bool {
	return len(vs.Upper) == 0 && len(vs.Lower) == 0
}

// AddUpper returns vs with u added as an upper bound. u is dropped if an
// existing bound is already a subtype of it; existing bounds u is a subtype
// of are dropped.
func (vs VariableSolution) AddUpper(u Type, le SubtypeFunc) (VariableSolution, error) {
	kept := make([]Type, 0, len(vs.Upper)+1)
	for _, existing := range vs.Upper {
		tighter, err := le(existing, u)
		if err != nil {
			return vs, err
		}
		if tighter {
			return vs, nil
		}
		useless, err := le(u, existing)
		if err != nil {
			return vs, err
		}
		if !useless {
			kept = append(kept, existing)
		}
	}
	vs.Upper = append(kept, u)
	return vs, nil
}

// AddLower mirrors AddUpper: the widest lower bounds are kept
func (vs VariableSolution) AddLower(l Type, le SubtypeFunc) (VariableSolution, error) {
	kept := make([]Type, 0, len(vs.Lower)+1)
	for _, existing := range vs.Lower {
		wider, err := le(l, existing)
		if err != nil {
			return vs, err
		}
		if wider {
			return vs, nil
		}
		useless, err := le(existing, l)
		if err != nil {
			return vs, err
		}
		if !useless {
			kept = append(kept, existing)
		}
	}
	vs.Lower = append(kept, l)
	return vs, nil
}

func (vs VariableSolution) Merge(other VariableSolution, le SubtypeFunc) (VariableSolution, error) {
	var err error
	for _, u := range other.Upper {
		if vs, err = vs.AddUpper(u, le); err != nil {
			return vs, err
		}
	}
	for _, l := range other.Lower {
		if vs, err = vs.AddLower(l, le); err != nil {
			return vs, err
		}
	}
	return vs, nil
}

// Root picks the type v resolves to. A single lower bound wins whatever the
// upper bounds are; otherwise a single upper bound; otherwise Top when
// nothing constrains v. Every other combination is unresolvable.
func (vs VariableSolution) Root(v *TypeVar) (Type, error) {
	switch {
	case len(vs.Lower) == 1:
		return vs.Lower[0], nil
	case len(vs.Lower) == 0 && len(vs.Upper) == 1:
		return vs.Upper[0], nil
	case len(vs.Lower) == 0 && len(vs.Upper) == 0:
		return Top, nil
	}
	return nil, newError(UnresolvableBoundsError{
		Var:   v,
		Upper: vs.Upper,
		Lower: vs.Lower,
	})
}

func (vs VariableSolution) equal(other VariableSolution) bool {
	return equalAll(vs.Upper, other.Upper) && equalAll(vs.Lower, other.Lower)
}

func (vs VariableSolution) String() string {
	return fmt.Sprintf("extends %s super %s", joinTypes(vs.Upper), joinTypes(vs.Lower))
}

type varBounds struct {
	v      *TypeVar
	bounds VariableSolution
}

type varIDComparer struct{}

func (varIDComparer) Compare(a, b VarID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Solution is one conjunctive binding: bounds per variable. It is a
// persistent value; every operation returns a new Solution.
type Solution struct {
	vars *immutable.SortedMap[VarID, varBounds]
}

func EmptySolution() Solution {
	return Solution{vars: immutable.NewSortedMap[VarID, varBounds](varIDComparer{})}
}

func (s Solution) IsEmpty() bool { return s.Len() == 0 }

func (s Solution) Len() int {
	if s.vars == nil {
		return 0
	}
	return s.vars.Len()
}

// Bounds returns the bounds collected for v
func (s Solution) Bounds(v *TypeVar) (VariableSolution, bool) {
	if s.vars == nil {
		return VariableSolution{}, false
	}
	b, ok := s.vars.Get(v.id)
	return b.bounds, ok
}

// All iterates over the constrained variables in declaration order
func (s Solution) All() iter.Seq2[*TypeVar, VariableSolution] {
	return func(yield func(*TypeVar, VariableSolution) bool) {
		if s.vars == nil {
			return
		}
		it := s.vars.Iterator()
		for !it.Done() {
			_, b, _ := it.Next()
			if !yield(b.v, b.bounds) {
				return
			}
		}
	}
}

// With adds bounds for v, merging them with the ones already present
func (s Solution) With(v *TypeVar, bounds VariableSolution, le SubtypeFunc) (Solution, error) {
	if s.vars == nil {
		s = EmptySolution()
	}
	if existing, ok := s.vars.Get(v.id); ok {
		merged, err := existing.bounds.Merge(bounds, le)
		if err != nil {
			return s, err
		}
		bounds = merged
	}
	return Solution{vars: s.vars.Set(v.id, varBounds{v: v, bounds: bounds})}, nil
}

// Merge is the conjunction of two solutions
func (s Solution) Merge(other Solution, le SubtypeFunc) (Solution, error) {
	var err error
	for v, bounds := range other.All() {
		if s, err = s.With(v, bounds, le); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Root resolves every constrained variable
func (s Solution) Root() (Bindings, error) {
	res := make(Bindings, s.Len())
	for v, bounds := range s.All() {
		t, err := bounds.Root(v)
		if err != nil {
			return nil, err
		}
		res[v.id] = t
	}
	return res, nil
}

func (s Solution) Hash() uint64 {
	h := uint64(hashSeedVar)
	for v, bounds := range s.All() {
		h = mixHash(h, v.Hash())
		for _, u := range bounds.Upper {
			h = mixHash(h, u.Hash())
		}
		h = mixHash(h, hashSeparator)
		for _, l := range bounds.Lower {
			h = mixHash(h, l.Hash())
		}
	}
	return h
}

func (s Solution) Equal(other Solution) bool {
	if s.Len() != other.Len() {
		return false
	}
	for v, bounds := range s.All() {
		otherBounds, ok := other.Bounds(v)
		if !ok || !bounds.equal(otherBounds) {
			return false
		}
	}
	return true
}

func (s Solution) String() string {
	parts := make([]string, 0, s.Len())
	for v, bounds := range s.All() {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Name, bounds))
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// SolutionSet is a disjunction of solutions, each of which independently
// satisfies a query. The empty set is a contradiction; a set holding the
// empty solution is trivially true.
type SolutionSet struct {
	cases  []Solution
	hashes *set.Set[uint64]
}

func False() *SolutionSet {
	return &SolutionSet{hashes: set.New[uint64](0)}
}

func True() *SolutionSet {
	return False().add(EmptySolution())
}

func Const(b bool) *SolutionSet {
	if b {
		return True()
	}
	return False()
}

// UpperBound is the singleton set constraining v <: t
func UpperBound(v *TypeVar, t Type) *SolutionSet {
	s := Solution{vars: EmptySolution().vars.Set(v.id, varBounds{v: v, bounds: VariableSolution{Upper: []Type{t}}})}
	return False().add(s)
}

// LowerBound is the singleton set constraining t <: v
func LowerBound(v *TypeVar, t Type) *SolutionSet {
	s := Solution{vars: EmptySolution().vars.Set(v.id, varBounds{v: v, bounds: VariableSolution{Lower: []Type{t}}})}
	return False().add(s)
}

// add inserts c unless an equal solution is already present
func (ss *SolutionSet) add(c Solution) *SolutionSet {
	h := c.Hash()
	if ss.hashes.Contains(h) {
		for _, existing := range ss.cases {
			if existing.Equal(c) {
				return ss
			}
		}
	}
	ss.hashes.Insert(h)
	ss.cases = append(ss.cases, c)
	return ss
}

func (ss *SolutionSet) Len() int { return len(ss.cases) }

// IsEmpty reports a contradiction
func (ss *SolutionSet) IsEmpty() bool { return len(ss.cases) == 0 }

// IsIdentity reports whether some disjunct needs no variable constraint
func (ss *SolutionSet) IsIdentity() bool {
	for _, c := range ss.cases {
		if c.IsEmpty() {
			return true
		}
	}
	return false
}

func (ss *SolutionSet) Disjuncts() []Solution { return ss.cases }

// Or is the union of both disjunctions
func (ss *SolutionSet) Or(other *SolutionSet) *SolutionSet {
	res := False()
	for _, c := range ss.cases {
		res.add(c)
	}
	for _, c := range other.cases {
		res.add(c)
	}
	return res
}

// And is the cartesian product of both disjunctions, each pair merged into
// one solution
func (ss *SolutionSet) And(other *SolutionSet, le SubtypeFunc) (*SolutionSet, error) {
	res := False()
	for _, c := range ss.cases {
		for _, o := range other.cases {
			merged, err := c.Merge(o, le)
			if err != nil {
				return nil, err
			}
			res.add(merged)
		}
	}
	return res, nil
}

// Root resolves the first disjunct. Which disjunct survives is not
// otherwise specified: the set does not rank alternatives.
func (ss *SolutionSet) Root() (Bindings, error) {
	if len(ss.cases) == 0 {
		return nil, ErrNoSolution
	}
	return ss.cases[0].Root()
}

func (ss *SolutionSet) String() string {
	parts := make([]string, len(ss.cases))
	for i, c := range ss.cases {
		parts[i] = c.String()
	}
	return strings.Join(parts, " | ")
}
