package types

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// Mode says which side of a relation may contain variables to infer
type Mode uint8

const (
	// Identity requires agreement without inferring anything
	Identity Mode = iota
	// InferLeft solves variables of the left side so that left <: right
	InferLeft
	// InferRight solves variables of the right side so that left <: right
	InferRight
)

// Invert swaps the two inference modes. Identity stays as is.
func (m Mode) Invert() Mode {
	switch m {
	case InferLeft:
		return InferRight
	case InferRight:
		return InferLeft
	default:
		return Identity
	}
}

func (m Mode) String() string {
	switch m {
	case Identity:
		return "identity"
	case InferLeft:
		return "infer-left"
	case InferRight:
		return "infer-right"
	default:
		return "invalid"
	}
}

type relateKey struct {
	left, right Type
	mode        Mode
}

func (k relateKey) Hash() uint64 {
	return mixHash(mixHash(k.left.Hash(), k.right.Hash()), uint64(k.mode))
}

// query holds the state of a single top-level operation
type query struct {
	e      *Engine
	fuel   int
	depth  int
	active *set.HashSet[relateKey, uint64]
}

func (e *Engine) newQuery() *query {
	return &query{
		e:      e,
		fuel:   e.opts.Fuel,
		active: set.NewHashSet[relateKey, uint64](16),
	}
}

func (q *query) enter(key relateKey) error {
	q.fuel--
	q.depth++
	if q.depth > q.e.opts.MaxDepth {
		return q.tooComplex(key, fmt.Sprintf("exceeded max depth %d", q.e.opts.MaxDepth))
	}
	if q.fuel <= 0 {
		return q.tooComplex(key, "ran out of fuel")
	}
	if !q.active.Insert(key) {
		return q.tooComplex(key, "cyclic relation")
	}
	return nil
}

func (q *query) leave(key relateKey) {
	q.active.Remove(key)
	q.depth--
}

func (q *query) tooComplex(key relateKey, reason string) error {
	q.e.logger.Warn("relation guard tripped", "left", key.left, "right", key.right, "mode", key.mode, "reason", reason)
	return newError(TooComplexError{Left: key.left, Right: key.right, Reason: reason})
}

// isSubtype is the order the solution combinators keep their bounds minimal with
func (q *query) isSubtype(sub, super Type) (bool, error) {
	res, err := q.relate(sub, super, Identity)
	if err != nil {
		return false, err
	}
	return res.IsIdentity(), nil
}

func (q *query) and(a, b *SolutionSet, left, right Type) (*SolutionSet, error) {
	if a.Len()*b.Len() > q.e.opts.MaxDisjuncts {
		return nil, newError(TooComplexError{
			Left:   left,
			Right:  right,
			Reason: fmt.Sprintf("more than %d alternative solutions", q.e.opts.MaxDisjuncts),
		})
	}
	return a.And(b, q.isSubtype)
}

func (q *query) relate(left, right Type, mode Mode) (*SolutionSet, error) {
	key := relateKey{left: left, right: right, mode: mode}
	if err := q.enter(key); err != nil {
		return nil, err
	}
	defer q.leave(key)

	if _, ok := left.(*Wildcard); ok {
		return nil, newError(MalformedInputError{Type: left, Reason: "wildcard outside of an argument list"})
	}
	if _, ok := right.(*Wildcard); ok {
		return nil, newError(MalformedInputError{Type: right, Reason: "wildcard outside of an argument list"})
	}
	if IsPrimitive(left) || IsPrimitive(right) {
		return Const(Equal(left, right)), nil
	}
	if IsTop(right) {
		return True(), nil
	}

	if leftVar, ok := left.(*TypeVar); ok {
		switch mode {
		case InferLeft:
			return UpperBound(leftVar, right), nil
		case Identity:
			if Equal(left, right) {
				return True(), nil
			}
		}
		// the variable is fixed here: one of its own bounds must relate
		disjunction := False()
		for _, bound := range leftVar.bounds {
			res, err := q.relate(bound, right, mode)
			if err != nil {
				return nil, err
			}
			disjunction = disjunction.Or(res)
			if disjunction.IsIdentity() {
				break
			}
		}
		return disjunction, nil
	}
	if rightVar, ok := right.(*TypeVar); ok {
		switch mode {
		case InferRight:
			return LowerBound(rightVar, left), nil
		case Identity:
			return Const(Equal(left, right)), nil
		default:
			return False(), nil
		}
	}

	leftArray, leftIsArray := left.(*Array)
	rightArray, rightIsArray := right.(*Array)
	switch {
	case leftIsArray && rightIsArray:
		return q.relate(leftArray.Component, rightArray.Component, mode)
	case leftIsArray || rightIsArray:
		return False(), nil
	}

	return q.relateNominal(left, right, mode)
}

func (q *query) relateNominal(left, right Type, mode Mode) (*SolutionSet, error) {
	leftRaw, rightRaw := RawOf(left), RawOf(right)
	if leftRaw == nil || rightRaw == nil {
		panic(fmt.Sprintf("unreachable: relating non-nominal %T to %T", left, right))
	}
	h := q.e.hierarchy
	ok, err := h.IsAncestor(rightRaw, leftRaw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return False(), nil
	}
	downgraded, err := q.downgrade(left, rightRaw)
	if err != nil {
		return nil, err
	}
	leftArgs, err := TypeArguments(h, downgraded)
	if err != nil {
		return nil, err
	}
	rightArgs, err := TypeArguments(h, right)
	if err != nil {
		return nil, err
	}
	outer := bindingsOf(rightArgs)

	conjunction := True()
	for _, inner := range leftArgs {
		outerArg, ok := outer[inner.Var.id]
		if !ok {
			return nil, newError(MalformedInputError{
				Type:   right,
				Reason: fmt.Sprintf("no argument for %s", inner.Var.Name),
			})
		}
		res, err := q.containment(inner.Arg, outerArg, mode)
		if err != nil {
			return nil, err
		}
		conjunction, err = q.and(conjunction, res, left, right)
		if err != nil {
			return nil, err
		}
		if conjunction.IsEmpty() {
			break
		}
	}
	return conjunction, nil
}

// containment decides whether the argument inner may stand where outer is
// expected. Both are taken in their wildcard form; lower bounds are related
// in the opposite direction, so the mode is inverted for them.
func (q *query) containment(inner, outer Type, mode Mode) (*SolutionSet, error) {
	innerLower, innerUpper := bounds(inner)
	outerLower, outerUpper := bounds(outer)

	conjunction := True()
	for _, outerBound := range outerUpper {
		disjunction := False()
		for _, innerBound := range innerUpper {
			res, err := q.relate(innerBound, outerBound, mode)
			if err != nil {
				return nil, err
			}
			disjunction = disjunction.Or(res)
			if disjunction.IsIdentity() {
				break
			}
		}
		var err error
		conjunction, err = q.and(conjunction, disjunction, inner, outer)
		if err != nil {
			return nil, err
		}
		if conjunction.IsEmpty() {
			return conjunction, nil
		}
	}
	for _, outerBound := range outerLower {
		disjunction := False()
		for _, innerBound := range innerLower {
			res, err := q.relate(outerBound, innerBound, mode.Invert())
			if err != nil {
				return nil, err
			}
			disjunction = disjunction.Or(res)
			if disjunction.IsIdentity() {
				break
			}
		}
		var err error
		conjunction, err = q.and(conjunction, disjunction, inner, outer)
		if err != nil {
			return nil, err
		}
		if conjunction.IsEmpty() {
			return conjunction, nil
		}
	}
	return conjunction, nil
}
