package types

import (
	"fmt"

	"github.com/cottand/typealg/util"
	"github.com/hashicorp/go-set/v3"
)

// Shape returns the fully unresolved type of c: c applied to its own
// declared parameters, nested in the shape of its enclosing generic class.
// A class that is neither generic nor nested is its own shape.
func Shape(h *Hierarchy, c *Class) (Type, error) {
	e, err := h.entry(c)
	if err != nil {
		return nil, err
	}
	var owner Type
	if e.enclosing != nil {
		if owner, err = Shape(h, e.enclosing); err != nil {
			return nil, err
		}
	}
	if owner == nil && len(e.params) == 0 {
		return c, nil
	}
	args := make([]Type, len(e.params))
	for i, p := range e.params {
		args[i] = p
	}
	return &Parameterized{Raw: c, Owner: owner, Args: args}, nil
}

func (q *query) supertypes(t Type) ([]Type, error) {
	h := q.e.hierarchy
	switch t := t.(type) {
	case Primitive:
		return nil, nil
	case *Array:
		if IsPrimitive(t.Component) || IsTop(t.Component) {
			return []Type{Top}, nil
		}
		componentSupers, err := q.supertypes(t.Component)
		if err != nil {
			return nil, err
		}
		if len(componentSupers) == 0 {
			return []Type{ArrayOf(Top)}, nil
		}
		res := make([]Type, len(componentSupers))
		for i, s := range componentSupers {
			res[i] = ArrayOf(s)
		}
		return res, nil
	case *Class, *Parameterized:
		args, err := TypeArguments(h, t)
		if err != nil {
			return nil, err
		}
		e, err := h.entry(RawOf(t))
		if err != nil {
			return nil, err
		}
		m := bindingsOf(args)
		res := make([]Type, 0, len(e.interfaces)+1)
		if e.superclass != nil {
			res = append(res, Substitute(e.superclass, m))
		}
		for _, iface := range e.interfaces {
			res = append(res, Substitute(iface, m))
		}
		return res, nil
	default:
		return nil, newError(MalformedInputError{Type: t, Reason: "only classes, parameterized types and arrays have supertypes"})
	}
}

// downgrade re-expresses t as its ancestor class, composing the declared
// supertype substitutions along the way
func (q *query) downgrade(t Type, ancestor *Class) (Type, error) {
	if arr, ok := t.(*Array); ok {
		component, err := q.downgrade(arr.Component, ancestor)
		if err != nil {
			return nil, err
		}
		return ArrayOf(component), nil
	}
	h := q.e.hierarchy
	raw := RawOf(t)
	if raw == nil {
		return nil, newError(NoNominalPathError{From: t, To: ancestor, Reason: "not a class type"})
	}
	ok, err := h.IsAncestor(ancestor, raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(NoNominalPathError{From: t, To: ancestor, Reason: fmt.Sprintf("%s is not an ancestor of %s", ancestor.Name, raw.Name)})
	}
	if ancestor.id == Top.id {
		return Top, nil
	}

	curr := t
	for raw.id != ancestor.id {
		args, err := TypeArguments(h, curr)
		if err != nil {
			return nil, err
		}
		m := bindingsOf(args)
		e, err := h.entry(raw)
		if err != nil {
			return nil, err
		}
		next, err := q.nextOnPath(e, ancestor)
		if err != nil {
			return nil, err
		}
		if next == nil {
			panic(fmt.Sprintf("unreachable: %s is an ancestor of %s but no supertype leads to it", ancestor.Name, raw.Name))
		}
		curr = Substitute(next, m)
		raw = RawOf(curr)
	}
	return curr, nil
}

// nextOnPath picks the direct supertype of e leading to ancestor,
// preferring the superclass
func (q *query) nextOnPath(e *classEntry, ancestor *Class) (Type, error) {
	h := q.e.hierarchy
	if e.superclass != nil {
		ok, err := h.IsAncestor(ancestor, RawOf(e.superclass))
		if err != nil {
			return nil, err
		}
		if ok && !IsTop(e.superclass) {
			return e.superclass, nil
		}
	}
	for _, iface := range e.interfaces {
		ok, err := h.IsAncestor(ancestor, RawOf(iface))
		if err != nil {
			return nil, err
		}
		if ok && !IsTop(iface) {
			return iface, nil
		}
	}
	return nil, nil
}

// upgradeShape solves shape's variables so that shape <: t
func (q *query) upgradeShape(t, shape Type) (Type, Bindings, error) {
	res, err := q.relate(shape, t, InferLeft)
	if err != nil {
		return nil, nil, err
	}
	root, err := res.Root()
	if err == ErrNoSolution {
		return nil, nil, newError(NoNominalPathError{From: t, To: shape, Reason: fmt.Sprintf("%s does not extend %s", SimpleName(shape), SimpleName(t))})
	}
	if err != nil {
		return nil, nil, err
	}
	return Substitute(shape, root), root, nil
}

func (q *query) upgrade(t Type, descendant *Class) (Type, error) {
	if arr, ok := t.(*Array); ok {
		component, err := q.upgrade(arr.Component, descendant)
		if err != nil {
			return nil, err
		}
		return ArrayOf(component), nil
	}
	h := q.e.hierarchy
	raw := RawOf(t)
	if raw == nil {
		return nil, newError(NoNominalPathError{From: t, To: descendant, Reason: "not a class type"})
	}
	ok, err := h.IsAncestor(raw, descendant)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(NoNominalPathError{From: t, To: descendant, Reason: fmt.Sprintf("%s is not a descendant of %s", descendant.Name, raw.Name)})
	}
	shape, err := Shape(h, descendant)
	if err != nil {
		return nil, err
	}
	return q.resolveShape(t, shape)
}

// resolveShape upgrades t to shape and requires every variable of shape to
// be bound
func (q *query) resolveShape(t, shape Type) (Type, error) {
	params, err := TypeArguments(q.e.hierarchy, shape)
	if err != nil {
		return nil, err
	}
	res, root, err := q.upgradeShape(t, shape)
	if err != nil {
		return nil, err
	}
	var unbound []*TypeVar
	for _, p := range params {
		if _, ok := root.Lookup(p.Var); !ok {
			unbound = append(unbound, p.Var)
		}
	}
	if len(unbound) > 0 {
		return nil, newError(UnboundParametersError{Target: shape, Source: t, Unbound: unbound})
	}
	return res, nil
}

func (q *query) shift(t Type, target *Class) (Type, error) {
	h := q.e.hierarchy
	raw := RawOf(t)
	if raw == nil {
		return nil, newError(NoNominalPathError{From: t, To: target, Reason: "not a class type"})
	}
	if ok, err := h.IsAncestor(target, raw); err != nil {
		return nil, err
	} else if ok {
		return q.downgrade(t, target)
	}
	if ok, err := h.IsAncestor(raw, target); err != nil {
		return nil, err
	} else if ok {
		return q.upgrade(t, target)
	}

	commons, err := q.e.CommonAncestors(raw, target)
	if err != nil {
		return nil, err
	}
	if len(commons) == 0 {
		return nil, newError(NoNominalPathError{From: t, To: target, Reason: "no common ancestor"})
	}
	shape, err := Shape(h, target)
	if err != nil {
		return nil, err
	}
	var firstErr error
	for _, common := range commons {
		via, err := q.downgrade(t, common)
		if err != nil {
			return nil, err
		}
		res, err := q.resolveShape(via, shape)
		if err == nil {
			q.e.logger.Debug("shifted through common ancestor", "from", t, "to", res, "via", via)
			return res, nil
		}
		if CodeOf(err) == TooComplex {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// CommonAncestors returns the most specific classes both a and b descend
// from, nearest to b first. Top is never reported.
func (e *Engine) CommonAncestors(a, b *Class) ([]*Class, error) {
	h := e.hierarchy
	ofA, err := h.entry(a)
	if err != nil {
		return nil, err
	}
	isCommon := func(c *Class) bool {
		return c.id == a.id || ofA.ancestors.Contains(c.id)
	}

	var found []*Class
	visited := set.New[ClassID](8)
	queue := []*Class{b}
	visited.Insert(b.id)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if isCommon(curr) {
			found = append(found, curr)
			// ancestors of a common ancestor are less specific
			continue
		}
		supers, err := h.DirectSupers(curr)
		if err != nil {
			return nil, err
		}
		for _, s := range supers {
			if visited.Insert(s.id) {
				queue = append(queue, s)
			}
		}
	}

	specific := make([]*Class, 0, len(found))
	for _, c := range found {
		dominated := false
		for _, other := range found {
			if other.id == c.id {
				continue
			}
			ok, err := h.IsAncestor(c, other)
			if err != nil {
				return nil, err
			}
			if ok {
				dominated = true
				break
			}
		}
		if !dominated {
			specific = append(specific, c)
		}
	}
	return specific, nil
}

// Ancestors lists every proper ancestor of c in breadth-first order,
// superclass edges first
func (e *Engine) Ancestors(c *Class) ([]*Class, error) {
	h := e.hierarchy
	var res []*Class
	visited := util.NewEmptySet[ClassID]()
	visited.Add(c.id)
	queue := []*Class{c}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		supers, err := h.DirectSupers(curr)
		if err != nil {
			return nil, err
		}
		for _, s := range supers {
			if !visited.Contains(s.id) {
				visited.Add(s.id)
				res = append(res, s)
				queue = append(queue, s)
			}
		}
	}
	return res, nil
}
