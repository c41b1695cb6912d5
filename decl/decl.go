package decl

import (
	"fmt"

	"github.com/cottand/typealg/types"
)

// Decl builds up one class declaration of a Table
type Decl struct {
	table *Table
	d     *classDecl
}

func (d *Decl) Raw() *types.Class { return d.d.class }

func (d *Decl) Params() []*types.TypeVar { return d.d.params }

// Param returns the declared parameter called name. It panics if there is
// none, since declarations are written by hand.
func (d *Decl) Param(name string) *types.TypeVar {
	for _, p := range d.d.params {
		if p.Name == name {
			return p
		}
	}
	panic(fmt.Sprintf("%s declares no parameter %s", d.d.class.Name, name))
}

// Bound sets the bounds of a parameter. Bounds may mention the parameter.
func (d *Decl) Bound(param string, bounds ...types.Type) *Decl {
	d.Param(param).SetBounds(bounds...)
	return d
}

// Extends sets the superclass. Interfaces have none.
func (d *Decl) Extends(super types.Type) *Decl {
	if d.d.class.Kind == types.KindInterface {
		panic(fmt.Sprintf("interface %s can't extend a class", d.d.class.Name))
	}
	d.d.superclass = super
	return d
}

// Implements appends superinterfaces
func (d *Decl) Implements(ifaces ...types.Type) *Decl {
	d.d.interfaces = append(d.d.interfaces, ifaces...)
	return d
}

// NestedIn makes the class an inner class of enclosing, capturing its
// parameters
func (d *Decl) NestedIn(enclosing *Decl) *Decl {
	d.d.enclosing = enclosing.Raw()
	return d
}

// Of applies the class to args. A class with no parameters and no
// enclosing class is returned as is.
func (d *Decl) Of(args ...types.Type) types.Type {
	if len(args) == 0 && len(d.d.params) == 0 {
		return d.d.class
	}
	return types.NewParameterized(d.d.class, args...)
}

// In applies a nested class to args under its owner's arguments
func (d *Decl) In(owner types.Type, args ...types.Type) types.Type {
	return types.NewNested(owner, d.d.class, args...)
}

// Shape is the class applied to its own parameters
func (d *Decl) Shape() types.Type {
	args := make([]types.Type, len(d.d.params))
	for i, p := range d.d.params {
		args[i] = p
	}
	if d.d.enclosing != nil {
		outer := &Decl{table: d.table, d: d.table.get(d.d.enclosing)}
		return types.NewNested(outer.Shape(), d.d.class, args...)
	}
	return d.Of(args...)
}
