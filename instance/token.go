package instance

import (
	"github.com/cottand/typealg/types"
	"github.com/pkg/errors"
)

// Token is a type bound to the engine it is navigated with. Tokens used as
// masks may mention type variables.
type Token struct {
	engine *types.Engine
	typ    types.Type
}

// Of validates t and wraps it
func Of(engine *types.Engine, t types.Type) (Token, error) {
	if err := engine.Validate(t); err != nil {
		return Token{}, err
	}
	return Token{engine: engine, typ: t}, nil
}

func (t Token) Type() types.Type { return t.typ }

func (t Token) String() string { return types.SimpleName(t.typ) }

func (t Token) Equal(other Token) bool { return types.Equal(t.typ, other.typ) }

func (t Token) with(typ types.Type) Token {
	return Token{engine: t.engine, typ: typ}
}

// Transform matches t against from and substitutes the bindings into to
func (t Token) Transform(from, to Token) (Token, error) {
	res, err := t.engine.Transform(t.typ, from.typ, to.typ)
	if err != nil {
		return Token{}, err
	}
	return t.with(res), nil
}

// Upgrade resolves the variables of the subtype mask sub so that it extends t
func (t Token) Upgrade(sub Token) (Token, error) {
	res, err := t.engine.UpgradeShape(t.typ, sub.typ)
	if err != nil {
		return Token{}, err
	}
	return t.with(res), nil
}

// Infer resolves the variables of t from source, which must extend t
func (t Token) Infer(source Token) (Token, error) {
	return source.Transform(t, t)
}

// Downgrade resolves the supertype mask super from t
func (t Token) Downgrade(super Token) (Token, error) {
	return super.Infer(t)
}

func (t Token) ArrayOf() Token {
	return t.with(types.ArrayOf(t.typ))
}

// ElementOf is the component type of an array token
func (t Token) ElementOf() (Token, error) {
	arr, ok := t.typ.(*types.Array)
	if !ok {
		return Token{}, errors.Errorf("%s is not an array", t)
	}
	return t.with(arr.Component), nil
}

func (t Token) NewInstance(f *Factory) (any, error) {
	return f.New(t.typ)
}
