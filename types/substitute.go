package types

import (
	"fmt"

	"github.com/cottand/typealg/util"
)

// Bindings maps type variables to the types replacing them
type Bindings map[VarID]Type

// Bind returns a copy of b with v bound to t
func (b Bindings) Bind(v *TypeVar, t Type) Bindings {
	next := make(Bindings, len(b)+1)
	for k, vt := range b {
		next[k] = vt
	}
	next[v.id] = t
	return next
}

func (b Bindings) Lookup(v *TypeVar) (Type, bool) {
	t, ok := b[v.id]
	return t, ok
}

// Substitute replaces every variable of t bound in m. Nodes whose children
// did not change are returned as they are.
func Substitute(t Type, m Bindings) Type {
	if len(m) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeVar:
		if bound, ok := m[t.id]; ok {
			return bound
		}
		return t
	case *Class, Primitive:
		return t
	case *Array:
		component := Substitute(t.Component, m)
		if component == t.Component {
			return t
		}
		return &Array{Component: component}
	case *Wildcard:
		lower, lowerChanged := substituteAll(t.Lower, m)
		upper, upperChanged := substituteAll(t.Upper, m)
		if !lowerChanged && !upperChanged {
			return t
		}
		return &Wildcard{Lower: lower, Upper: upper}
	case *Parameterized:
		owner := Substitute(t.Owner, m)
		args, argsChanged := substituteAll(t.Args, m)
		if owner == t.Owner && !argsChanged {
			return t
		}
		return &Parameterized{Raw: t.Raw, Owner: owner, Args: args}
	}
	panic(fmt.Sprintf("unreachable: unknown type %T", t))
}

// SubstituteAll applies Substitute to every element of ts
func SubstituteAll(ts []Type, m Bindings) []Type {
	res, _ := substituteAll(ts, m)
	return res
}

func substituteAll(ts []Type, m Bindings) ([]Type, bool) {
	var res []Type
	for i, t := range ts {
		s := Substitute(t, m)
		if res == nil && s != t {
			res = make([]Type, i, len(ts))
			copy(res, ts[:i])
		}
		if res != nil {
			res = append(res, s)
		}
	}
	if res == nil {
		return ts, false
	}
	return res, true
}

// Binding is one variable of a declaration together with its argument
type Binding struct {
	Var *TypeVar
	Arg Type
}

// TypeArguments returns the arguments of t keyed by the variables they
// instantiate, outermost owner first. Arrays report their component's
// arguments.
func TypeArguments(h *Hierarchy, t Type) ([]Binding, error) {
	switch t := t.(type) {
	case Primitive:
		return nil, nil
	case *Array:
		return TypeArguments(h, t.Component)
	case *Class:
		if err := h.requireNonRaw(t); err != nil {
			return nil, err
		}
		return nil, nil
	case *Parameterized:
		var chain []*Parameterized
		var curr Type = t
		for {
			p, ok := curr.(*Parameterized)
			if !ok {
				break
			}
			chain = append(chain, p)
			curr = p.Owner
		}
		var res []Binding
		for i := len(chain) - 1; i >= 0; i-- {
			p := chain[i]
			vars, err := h.Params(p.Raw)
			if err != nil {
				return nil, err
			}
			if len(vars) != len(p.Args) {
				return nil, newError(MalformedInputError{
					Type:   p,
					Reason: fmt.Sprintf("%s declares %d parameters but got %d arguments", p.Raw.Name, len(vars), len(p.Args)),
				})
			}
			for j, v := range vars {
				res = append(res, Binding{Var: v, Arg: p.Args[j]})
			}
		}
		return res, nil
	default:
		return nil, newError(MalformedInputError{Type: t, Reason: "has no type arguments"})
	}
}

func bindingsOf(args []Binding) Bindings {
	m := make(Bindings, len(args))
	for _, a := range args {
		m[a.Var.id] = a.Arg
	}
	return m
}

// FreeVars lists the variables t mentions, in order of first appearance.
// Bounds of the variables are not visited.
func FreeVars(t Type) []*TypeVar {
	var res []*TypeVar
	seen := util.NewEmptySet[VarID]()
	var walk func(t Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case *TypeVar:
			if seen.Insert(t.id) {
				res = append(res, t)
			}
		case *Array:
			walk(t.Component)
		case *Wildcard:
			for _, b := range t.Lower {
				walk(b)
			}
			for _, b := range t.Upper {
				walk(b)
			}
		case *Parameterized:
			if t.Owner != nil {
				walk(t.Owner)
			}
			for _, arg := range t.Args {
				walk(arg)
			}
		}
	}
	walk(t)
	return res
}
