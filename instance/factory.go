// Package instance produces default values of resolved types and wraps
// types in Tokens carrying the engine they are navigated with
package instance

import (
	"sync"

	"github.com/cottand/typealg/types"
	"github.com/cottand/typealg/util"
	"github.com/pkg/errors"
)

// Constructor builds a default value of t, whose raw class it was
// registered for
type Constructor func(t types.Type) (any, error)

// Factory maps classes to constructors. It is safe for concurrent use.
type Factory struct {
	engine *types.Engine

	mu    sync.RWMutex
	ctors map[types.ClassID]Constructor
}

func NewFactory(engine *types.Engine) *Factory {
	return &Factory{
		engine: engine,
		ctors:  make(map[types.ClassID]Constructor),
	}
}

// Register sets the constructor of c, replacing any previous one
func (f *Factory) Register(c *types.Class, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[c.ID()] = ctor
}

// New produces a default value of t. Arrays yield an empty []any and
// primitives their Go zero value. t must not mention type variables.
func (f *Factory) New(t types.Type) (any, error) {
	if err := f.engine.Validate(t); err != nil {
		return nil, errors.Wrapf(err, "can't instantiate %s", types.SimpleName(t))
	}
	if free := types.FreeVars(t); len(free) > 0 {
		names := util.Map(free, func(v *types.TypeVar) string { return v.Name })
		return nil, errors.Errorf("can't instantiate %s: unresolved variables %v", types.SimpleName(t), names)
	}
	switch t := t.(type) {
	case *types.Array:
		return []any{}, nil
	case types.Primitive:
		return zeroOf(t)
	}

	raw := types.RawOf(t)
	f.mu.RLock()
	ctor, ok := f.ctors[raw.ID()]
	f.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("no constructor registered for %s", raw.Name)
	}
	v, err := ctor(t)
	return v, errors.Wrapf(err, "constructing %s", types.SimpleName(t))
}

func zeroOf(p types.Primitive) (any, error) {
	switch p {
	case types.Boolean:
		return false, nil
	case types.Char:
		return rune(0), nil
	case types.Byte:
		return int8(0), nil
	case types.Short:
		return int16(0), nil
	case types.Int:
		return int32(0), nil
	case types.Long:
		return int64(0), nil
	case types.Float:
		return float32(0), nil
	case types.Double:
		return float64(0), nil
	}
	return nil, errors.Errorf("no zero value for primitive %s", p.Name)
}
