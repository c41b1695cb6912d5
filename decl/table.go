// Package decl holds declared generic signatures in memory. A Table is
// built once and then only read, so it can back a types.Hierarchy shared
// by concurrent engines.
package decl

import (
	"fmt"
	"slices"

	"github.com/cottand/typealg/internal/log"
	"github.com/cottand/typealg/types"
	"github.com/pkg/errors"
)

var logger = log.DefaultLogger.With("section", "decl")

var _ types.Declarations = (*Table)(nil)

type classDecl struct {
	class      *types.Class
	params     []*types.TypeVar
	superclass types.Type
	interfaces []types.Type
	enclosing  *types.Class
}

// Table is an in-memory types.Declarations
type Table struct {
	decls  map[types.ClassID]*classDecl
	byName map[string]*classDecl
	order  []*classDecl
}

func NewTable() *Table {
	return &Table{
		decls:  make(map[types.ClassID]*classDecl),
		byName: make(map[string]*classDecl),
	}
}

// Class declares a class with the given parameters. Without an explicit
// superclass, it extends types.Top.
func (t *Table) Class(name string, params ...string) *Decl {
	return t.declare(name, types.KindClass, params)
}

// Interface declares an interface with the given parameters
func (t *Table) Interface(name string, params ...string) *Decl {
	return t.declare(name, types.KindInterface, params)
}

func (t *Table) declare(name string, kind types.ClassKind, params []string) *Decl {
	if _, ok := t.byName[name]; ok {
		panic(fmt.Sprintf("class %s declared twice", name))
	}
	d := &classDecl{class: types.NewClass(name, kind)}
	for _, p := range params {
		d.params = append(d.params, types.NewTypeVar(p))
	}
	if kind == types.KindClass {
		d.superclass = types.Top
	}
	t.decls[d.class.ID()] = d
	t.byName[name] = d
	t.order = append(t.order, d)
	logger.Debug("declared", "class", name, "kind", kind, "params", params)
	return &Decl{table: t, d: d}
}

// Lookup finds a declaration by class name
func (t *Table) Lookup(name string) (*Decl, bool) {
	d, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &Decl{table: t, d: d}, true
}

// Classes lists the declared classes in declaration order
func (t *Table) Classes() []*types.Class {
	res := make([]*types.Class, len(t.order))
	for i, d := range t.order {
		res[i] = d.class
	}
	return res
}

func (t *Table) get(c *types.Class) *classDecl {
	return t.decls[c.ID()]
}

func (t *Table) Params(c *types.Class) []*types.TypeVar {
	if d := t.get(c); d != nil {
		return d.params
	}
	return nil
}

func (t *Table) Superclass(c *types.Class) types.Type {
	if d := t.get(c); d != nil {
		return d.superclass
	}
	return nil
}

func (t *Table) Interfaces(c *types.Class) []types.Type {
	if d := t.get(c); d != nil {
		return d.interfaces
	}
	return nil
}

func (t *Table) Enclosing(c *types.Class) *types.Class {
	if d := t.get(c); d != nil {
		return d.enclosing
	}
	return nil
}

// Check verifies that every declared supertype and bound only mentions
// known classes with the right number of arguments, and only the variables
// in scope of its declaration
func (t *Table) Check() error {
	for _, d := range t.order {
		scope := t.scope(d)
		supers := slices.Clone(d.interfaces)
		if d.superclass != nil {
			supers = append(supers, d.superclass)
		}
		for _, s := range supers {
			if err := t.checkType(s, scope); err != nil {
				return errors.Wrapf(err, "supertype %s of %s", s, d.class.Name)
			}
		}
		for _, p := range d.params {
			for _, b := range p.Bounds() {
				if err := t.checkType(b, scope); err != nil {
					return errors.Wrapf(err, "bound %s of %s.%s", b, d.class.Name, p.Name)
				}
			}
		}
	}
	return nil
}

// scope is every variable a declaration may mention: its own and those of
// its enclosing classes
func (t *Table) scope(d *classDecl) map[types.VarID]bool {
	scope := make(map[types.VarID]bool)
	for curr := d; curr != nil; {
		for _, p := range curr.params {
			scope[p.ID()] = true
		}
		if curr.enclosing == nil {
			break
		}
		curr = t.get(curr.enclosing)
	}
	return scope
}

func (t *Table) checkType(typ types.Type, scope map[types.VarID]bool) error {
	switch typ := typ.(type) {
	case *types.TypeVar:
		if !scope[typ.ID()] {
			return errors.Errorf("variable %s is not in scope", typ.Name)
		}
	case *types.Class:
		if types.IsTop(typ) {
			return nil
		}
		d := t.get(typ)
		if d == nil {
			return errors.Errorf("unknown class %s", typ.Name)
		}
		if len(d.params) > 0 {
			return errors.Errorf("raw use of generic class %s", typ.Name)
		}
	case *types.Parameterized:
		d := t.get(typ.Raw)
		if d == nil {
			return errors.Errorf("unknown class %s", typ.Raw.Name)
		}
		if len(d.params) != len(typ.Args) {
			return errors.Errorf("%s declares %d parameters but got %d arguments", typ.Raw.Name, len(d.params), len(typ.Args))
		}
		if typ.Owner != nil {
			if err := t.checkType(typ.Owner, scope); err != nil {
				return err
			}
		}
		for _, arg := range typ.Args {
			if types.IsPrimitive(arg) {
				return errors.Errorf("primitive %s used as an argument of %s", arg, typ.Raw.Name)
			}
			if err := t.checkType(arg, scope); err != nil {
				return err
			}
		}
	case *types.Wildcard:
		for _, b := range append(slices.Clone(typ.Lower), typ.Upper...) {
			if err := t.checkType(b, scope); err != nil {
				return err
			}
		}
	case *types.Array:
		return t.checkType(typ.Component, scope)
	case types.Primitive:
	}
	return nil
}
