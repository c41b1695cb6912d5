package types

import (
	"fmt"
	"log/slog"
)

// Engine answers subtyping and navigation queries over one declaration
// hierarchy. It is safe for concurrent use: every query keeps its own state
// and the hierarchy cache is lock-free.
type Engine struct {
	hierarchy *Hierarchy
	opts      Options
	logger    *slog.Logger
}

// NewEngine creates an engine with a fresh cache over decls
func NewEngine(decls Declarations, opts ...Option) *Engine {
	return NewEngineFor(NewHierarchy(decls), opts...)
}

// NewEngineFor creates an engine sharing an existing cache
func NewEngineFor(h *Hierarchy, opts ...Option) *Engine {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o = o.withDefaults()
	return &Engine{
		hierarchy: h,
		opts:      o,
		logger:    o.Logger.With("section", "types.engine"),
	}
}

func (e *Engine) Hierarchy() *Hierarchy { return e.hierarchy }

func (e *Engine) Options() Options { return e.opts }

// Relate computes the solutions under which left <: right, inferring the
// variables of the side mode designates
func (e *Engine) Relate(left, right Type, mode Mode) (*SolutionSet, error) {
	if err := e.validate(left, false); err != nil {
		return nil, err
	}
	if err := e.validate(right, false); err != nil {
		return nil, err
	}
	if IsPrimitive(left) != IsPrimitive(right) {
		culprit := left
		if IsPrimitive(right) {
			culprit = right
		}
		return nil, newError(MalformedInputError{Type: culprit, Reason: "primitive related to a non-primitive type"})
	}
	res, err := e.newQuery().relate(left, right, mode)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("related", "left", left, "right", right, "mode", mode, "disjuncts", res.Len())
	return res, nil
}

// IsSubtype reports whether sub <: super without inferring anything
func (e *Engine) IsSubtype(sub, super Type) (bool, error) {
	res, err := e.Relate(sub, super, Identity)
	if err != nil {
		return false, err
	}
	return res.IsIdentity(), nil
}

// IsSupertype reports whether sub <: super
func (e *Engine) IsSupertype(super, sub Type) (bool, error) {
	return e.IsSubtype(sub, super)
}

// Supertypes returns the direct supertypes of t with its arguments
// substituted in
func (e *Engine) Supertypes(t Type) ([]Type, error) {
	if err := e.validate(t, false); err != nil {
		return nil, err
	}
	return e.newQuery().supertypes(t)
}

// Downgrade re-expresses t as its ancestor class
func (e *Engine) Downgrade(t Type, ancestor *Class) (Type, error) {
	if err := e.validate(t, false); err != nil {
		return nil, err
	}
	return e.newQuery().downgrade(t, ancestor)
}

// Upgrade finds the arguments of descendant under which it extends t
func (e *Engine) Upgrade(t Type, descendant *Class) (Type, error) {
	if err := e.validate(t, false); err != nil {
		return nil, err
	}
	return e.newQuery().upgrade(t, descendant)
}

// UpgradeShape solves the variables of shape so that it extends t and
// substitutes them. Variables left unconstrained stay in the result.
func (e *Engine) UpgradeShape(t, shape Type) (Type, error) {
	if err := e.validate(t, false); err != nil {
		return nil, err
	}
	if err := e.validate(shape, false); err != nil {
		return nil, err
	}
	res, _, err := e.newQuery().upgradeShape(t, shape)
	return res, err
}

// Shift moves t to target, whether target is an ancestor, a descendant, or
// reachable only through a common ancestor
func (e *Engine) Shift(t Type, target *Class) (Type, error) {
	if err := e.validate(t, false); err != nil {
		return nil, err
	}
	return e.newQuery().shift(t, target)
}

// Transform binds the variables of from against src and substitutes them
// into to. from and to must be built over the same variables.
func (e *Engine) Transform(src, from, to Type) (Type, error) {
	if err := e.validate(src, false); err != nil {
		return nil, err
	}
	res, err := e.newQuery().relate(src, from, InferRight)
	if err != nil {
		return nil, err
	}
	root, err := res.Root()
	if err == ErrNoSolution {
		return nil, newError(NoNominalPathError{From: src, To: from, Reason: "source does not match the pattern"})
	}
	if err != nil {
		return nil, err
	}
	return Substitute(to, root), nil
}

// Shape is the unresolved type of c
func (e *Engine) Shape(c *Class) (Type, error) {
	return Shape(e.hierarchy, c)
}

// Validate checks that t may be used as a query operand
func (e *Engine) Validate(t Type) error {
	return e.validate(t, false)
}

// validate rejects top-level wildcards, primitives in argument position,
// raw usages and argument count mismatches
func (e *Engine) validate(t Type, inArgs bool) error {
	switch t := t.(type) {
	case nil:
		return newError(MalformedInputError{Type: t, Reason: "missing type"})
	case Primitive:
		if inArgs {
			return newError(MalformedInputError{Type: t, Reason: "primitive used as a type argument"})
		}
	case *TypeVar:
	case *Class:
		return e.hierarchy.requireNonRaw(t)
	case *Array:
		return e.validate(t.Component, false)
	case *Wildcard:
		if !inArgs {
			return newError(MalformedInputError{Type: t, Reason: "wildcard outside of an argument list"})
		}
		for _, b := range append(t.Lower[:len(t.Lower):len(t.Lower)], t.Upper...) {
			if err := e.validateBound(b); err != nil {
				return err
			}
		}
	case *Parameterized:
		if _, err := TypeArguments(e.hierarchy, t); err != nil {
			return err
		}
		entry, err := e.hierarchy.entry(t.Raw)
		if err != nil {
			return err
		}
		if ownerRaw := RawOf(t.Owner); entry.enclosing != nil && (ownerRaw == nil || ownerRaw.id != entry.enclosing.id) {
			return newError(MalformedInputError{
				Type:   t,
				Reason: fmt.Sprintf("%s must be qualified by its enclosing class %s", t.Raw.Name, entry.enclosing.Name),
			})
		}
		if t.Owner != nil {
			if err := e.validate(t.Owner, false); err != nil {
				return err
			}
		}
		for _, arg := range t.Args {
			if err := e.validate(arg, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) validateBound(b Type) error {
	switch b.(type) {
	case Primitive, *Wildcard:
		return newError(MalformedInputError{Type: b, Reason: "not a valid wildcard bound"})
	}
	return e.validate(b, false)
}
