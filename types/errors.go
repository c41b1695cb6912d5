package types

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugStacks makes errors record the stack they were created at
var enableDebugStacks = false

type ErrCode int

const (
	None ErrCode = iota
	MalformedRelationInput
	NoNominalPath
	UnboundParameters
	UnresolvableBounds
	TooComplex
)

func (c ErrCode) String() string {
	switch c {
	case MalformedRelationInput:
		return "malformed relation input"
	case NoNominalPath:
		return "no nominal path"
	case UnboundParameters:
		return "unbound parameters"
	case UnresolvableBounds:
		return "unresolvable bounds"
	case TooComplex:
		return "too complex"
	default:
		return "unclassified"
	}
}

// Error is implemented by every error the engine returns
type Error interface {
	error
	Code() ErrCode

	withStack([]byte) Error
	getStack() []byte
}

func newError[E Error](err E) Error {
	if enableDebugStacks {
		return err.withStack(debug.Stack())
	}
	return err
}

// CodeOf returns the code of the first Error in err's chain, or None
func CodeOf(err error) ErrCode {
	var typeErr Error
	if errors.As(err, &typeErr) {
		return typeErr.Code()
	}
	return None
}

func FormatWithCode(e Error) string {
	if stack := e.getStack(); stack != nil {
		return fmt.Sprintf("(E%03d) %s\n%s", e.Code(), e.Error(), stack)
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

type MalformedInputError struct {
	Type   Type
	Reason string
	stack  []byte
}

func (e MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %s", SimpleName(e.Type), e.Reason)
}
func (e MalformedInputError) Code() ErrCode    { return MalformedRelationInput }
func (e MalformedInputError) getStack() []byte { return e.stack }
func (e MalformedInputError) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NoNominalPathError struct {
	From   Type
	To     Type
	Reason string
	stack  []byte
}

func (e NoNominalPathError) Error() string {
	msg := fmt.Sprintf("no nominal path from %s to %s", SimpleName(e.From), SimpleName(e.To))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
func (e NoNominalPathError) Code() ErrCode    { return NoNominalPath }
func (e NoNominalPathError) getStack() []byte { return e.stack }
func (e NoNominalPathError) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type UnboundParametersError struct {
	Target  Type
	Source  Type
	Unbound []*TypeVar
	stack   []byte
}

func (e UnboundParametersError) Error() string {
	names := make([]string, len(e.Unbound))
	for i, v := range e.Unbound {
		names[i] = v.Name
	}
	return fmt.Sprintf("can't infer type parameters [%s] of %s from %s",
		strings.Join(names, ", "), SimpleName(e.Target), SimpleName(e.Source))
}
func (e UnboundParametersError) Code() ErrCode    { return UnboundParameters }
func (e UnboundParametersError) getStack() []byte { return e.stack }
func (e UnboundParametersError) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type UnresolvableBoundsError struct {
	Var   *TypeVar
	Upper []Type
	Lower []Type
	stack []byte
}

func (e UnresolvableBoundsError) Error() string {
	return fmt.Sprintf("unresolvable bounds for %s: extends %s and super %s",
		e.Var.Name, joinTypes(e.Upper), joinTypes(e.Lower))
}
func (e UnresolvableBoundsError) Code() ErrCode    { return UnresolvableBounds }
func (e UnresolvableBoundsError) getStack() []byte { return e.stack }
func (e UnresolvableBoundsError) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type TooComplexError struct {
	Left   Type
	Right  Type
	Reason string
	stack  []byte
}

func (e TooComplexError) Error() string {
	if e.Left == nil {
		return fmt.Sprintf("too complex: %s", e.Reason)
	}
	return fmt.Sprintf("too complex relating %s to %s: %s", SimpleName(e.Left), SimpleName(e.Right), e.Reason)
}
func (e TooComplexError) Code() ErrCode    { return TooComplex }
func (e TooComplexError) getStack() []byte { return e.stack }
func (e TooComplexError) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

// ErrNoSolution is returned by SolutionSet.Root on a contradiction. The
// navigation operations translate it into a NoNominalPathError.
var ErrNoSolution = errors.New("no solution")
