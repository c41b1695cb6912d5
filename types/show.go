package types

import (
	"fmt"
	"strings"

	"github.com/cottand/typealg/util"
)

// SimpleName renders t the way it would be written in source, e.g.
// `Outer<String>.Inner<? extends Number>[]`
func SimpleName(t Type) string {
	sb := &strings.Builder{}
	writeSimpleName(t, sb)
	return sb.String()
}

func writeSimpleName(t Type, sb *strings.Builder) {
	switch t := t.(type) {
	case *Class:
		sb.WriteString(t.Name)
	case *TypeVar:
		sb.WriteString(t.Name)
	case Primitive:
		sb.WriteString(t.Name)
	case *Array:
		writeSimpleName(t.Component, sb)
		sb.WriteString("[]")
	case *Parameterized:
		scope := &util.Stack[*Parameterized]{}
		var curr Type = t
		for {
			p, ok := curr.(*Parameterized)
			if !ok {
				break
			}
			scope.Push(p)
			curr = p.Owner
		}
		// a non-generic owner (e.g. Outer.Inner<T>) is printed as a plain prefix
		if curr != nil {
			writeSimpleName(curr, sb)
			sb.WriteByte('.')
		}
		dot := false
		for p, ok := scope.Pop(); ok; p, ok = scope.Pop() {
			if dot {
				sb.WriteByte('.')
			}
			dot = true
			sb.WriteString(p.Raw.Name)
			if len(p.Args) > 0 {
				sb.WriteByte('<')
				writeJoined(p.Args, ",", sb)
				sb.WriteByte('>')
			}
		}
	case *Wildcard:
		sb.WriteByte('?')
		if len(t.Lower) > 0 {
			sb.WriteString(" super ")
			writeJoined(t.Lower, "&", sb)
		} else if len(t.Upper) > 1 || len(t.Upper) == 1 && !IsTop(t.Upper[0]) {
			sb.WriteString(" extends ")
			writeJoined(t.Upper, "&", sb)
		}
	case nil:
		sb.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("unreachable: unknown type %T", t))
	}
}

func writeJoined(ts []Type, sep string, sb *strings.Builder) {
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(sep)
		}
		writeSimpleName(t, sb)
	}
}

// joinTypes renders a list of types for error messages
func joinTypes(ts []Type) string {
	sb := &strings.Builder{}
	sb.WriteByte('[')
	writeJoined(ts, ", ", sb)
	sb.WriteByte(']')
	return sb.String()
}
