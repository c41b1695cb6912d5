package types

import (
	"fmt"
	"hash/fnv"
	"slices"
	"sync/atomic"
)

// Type is a type expression. The set of implementations is closed:
// *Class, *Parameterized, *TypeVar, *Wildcard, *Array and Primitive.
type Type interface {
	fmt.Stringer
	Hash() uint64
	isType()
}

var (
	_ Type = (*Class)(nil)
	_ Type = (*Parameterized)(nil)
	_ Type = (*TypeVar)(nil)
	_ Type = (*Wildcard)(nil)
	_ Type = (*Array)(nil)
	_ Type = Primitive{}
)

type ClassID uint64

type VarID uint64

var (
	classCounter atomic.Uint64
	varCounter   atomic.Uint64
)

type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return "invalid"
	}
}

// Class is a raw nominal type. Its declared parameters and supertypes are
// not stored here: they come from a Declarations source.
type Class struct {
	id   ClassID
	Name string
	Kind ClassKind
}

// NewClass mints a class with a fresh identity
func NewClass(name string, kind ClassKind) *Class {
	return &Class{
		id:   ClassID(classCounter.Add(1)),
		Name: name,
		Kind: kind,
	}
}

// Top is the universal supertype of every non-primitive type
var Top = &Class{id: 0, Name: "Object", Kind: KindClass}

func (c *Class) ID() ClassID    { return c.id }
func (c *Class) String() string { return c.Name }
func (c *Class) isType()        {}
func (c *Class) Hash() uint64 {
	return mixHash(hashSeedClass, uint64(c.id))
}

// Parameterized is a generic class applied to arguments.
// Owner is set only when Raw is nested inside another generic class, and
// then carries the enclosing class's own arguments.
type Parameterized struct {
	Raw   *Class
	Owner Type
	Args  []Type
}

func NewParameterized(raw *Class, args ...Type) *Parameterized {
	return &Parameterized{Raw: raw, Args: args}
}

func NewNested(owner Type, raw *Class, args ...Type) *Parameterized {
	return &Parameterized{Raw: raw, Owner: owner, Args: args}
}

func (p *Parameterized) isType()        {}
func (p *Parameterized) String() string { return SimpleName(p) }
func (p *Parameterized) Hash() uint64 {
	h := mixHash(hashSeedParameterized, p.Raw.Hash())
	if p.Owner != nil {
		h = mixHash(h, p.Owner.Hash())
	}
	for _, arg := range p.Args {
		h = mixHash(h, arg.Hash())
	}
	return h
}

// TypeVar is a declared type parameter. Two variables are the same
// variable only if they come from the same declaration, whatever their names.
type TypeVar struct {
	id     VarID
	Name   string
	bounds []Type
}

// NewTypeVar declares a fresh variable. Without bounds, the variable is
// bounded by Top. Bounds that mention the variable itself are set
// afterwards with SetBounds.
func NewTypeVar(name string, bounds ...Type) *TypeVar {
	v := &TypeVar{
		id:   VarID(varCounter.Add(1)),
		Name: name,
	}
	v.SetBounds(bounds...)
	return v
}

// SetBounds replaces the declared bounds. It must only be called while the
// declaration is being built.
func (v *TypeVar) SetBounds(bounds ...Type) {
	if len(bounds) == 0 {
		v.bounds = []Type{Top}
		return
	}
	v.bounds = slices.Clone(bounds)
}

func (v *TypeVar) ID() VarID        { return v.id }
func (v *TypeVar) Bounds() []Type   { return v.bounds }
func (v *TypeVar) String() string   { return v.Name }
func (v *TypeVar) isType()          {}
func (v *TypeVar) Hash() uint64     { return mixHash(hashSeedVar, uint64(v.id)) }

// Wildcard is an existential argument: some T with Lower <: T <: Upper
type Wildcard struct {
	Lower []Type
	Upper []Type
}

// Unbounded returns `?`
func Unbounded() *Wildcard {
	return &Wildcard{Upper: []Type{Top}}
}

// Extends returns `? extends bounds...`
func Extends(bounds ...Type) *Wildcard {
	return &Wildcard{Upper: bounds}
}

// Super returns `? super bounds...`
func Super(bounds ...Type) *Wildcard {
	return &Wildcard{Lower: bounds, Upper: []Type{Top}}
}

func (w *Wildcard) isType()        {}
func (w *Wildcard) String() string { return SimpleName(w) }
func (w *Wildcard) Hash() uint64 {
	h := uint64(hashSeedWildcard)
	for _, l := range w.Lower {
		h = mixHash(h, l.Hash())
	}
	h = mixHash(h, hashSeparator)
	for _, u := range w.Upper {
		h = mixHash(h, u.Hash())
	}
	return h
}

type Array struct {
	Component Type
}

func ArrayOf(component Type) *Array {
	return &Array{Component: component}
}

func (a *Array) isType()        {}
func (a *Array) String() string { return SimpleName(a) }
func (a *Array) Hash() uint64   { return mixHash(hashSeedArray, a.Component.Hash()) }

// Primitive is an atomic value type. It never takes arguments and is not a
// subtype of Top.
type Primitive struct {
	Name string
}

var (
	Boolean = Primitive{Name: "boolean"}
	Char    = Primitive{Name: "char"}
	Byte    = Primitive{Name: "byte"}
	Short   = Primitive{Name: "short"}
	Int     = Primitive{Name: "int"}
	Long    = Primitive{Name: "long"}
	Float   = Primitive{Name: "float"}
	Double  = Primitive{Name: "double"}
)

func (p Primitive) isType()        {}
func (p Primitive) String() string { return p.Name }
func (p Primitive) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.Name))
	return mixHash(hashSeedPrimitive, h.Sum64())
}

const (
	hashSeedClass         = 2166136261
	hashSeedParameterized = 16777619
	hashSeedVar           = 33533
	hashSeedWildcard      = 7919
	hashSeedArray         = 104729
	hashSeedPrimitive     = 1299709
	hashSeparator         = 0x9e3779b97f4a7c15
)

func mixHash(h, v uint64) uint64 {
	h ^= v + hashSeparator + (h << 6) + (h >> 2)
	return h * 1099511628211
}

// Equal compares two type expressions structurally. Classes and variables
// compare by identity.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Class:
		b, ok := b.(*Class)
		return ok && a.id == b.id
	case *TypeVar:
		b, ok := b.(*TypeVar)
		return ok && a.id == b.id
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a.Name == b.Name
	case *Array:
		b, ok := b.(*Array)
		return ok && Equal(a.Component, b.Component)
	case *Wildcard:
		b, ok := b.(*Wildcard)
		return ok && equalAll(a.Lower, b.Lower) && equalAll(a.Upper, b.Upper)
	case *Parameterized:
		b, ok := b.(*Parameterized)
		return ok && a.Raw.id == b.Raw.id && Equal(a.Owner, b.Owner) && equalAll(a.Args, b.Args)
	}
	panic(fmt.Sprintf("unreachable: unknown type %T", a))
}

func equalAll(as, bs []Type) bool {
	return slices.EqualFunc(as, bs, Equal)
}

func IsPrimitive(t Type) bool {
	_, ok := t.(Primitive)
	return ok
}

func IsTop(t Type) bool {
	c, ok := t.(*Class)
	return ok && c.id == Top.id
}

// RawOf returns the class of a nominal type, or nil for anything else
func RawOf(t Type) *Class {
	switch t := t.(type) {
	case *Class:
		return t
	case *Parameterized:
		return t.Raw
	default:
		return nil
	}
}

// bounds returns the wildcard form of an argument: a bare type T stands for
// the range [T, T]
func bounds(arg Type) (lower, upper []Type) {
	if w, ok := arg.(*Wildcard); ok {
		return w.Lower, w.Upper
	}
	return []Type{arg}, []Type{arg}
}
