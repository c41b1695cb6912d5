package types_test

import (
	"strings"
	"testing"

	"github.com/cottand/typealg/decl"
	"github.com/cottand/typealg/types"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T, opts ...types.Option) (*decl.SampleHierarchy, *types.Engine) {
	t.Helper()
	s := decl.Sample()
	return s, types.NewEngine(s.Table, opts...)
}

// requireSameType fails with a field by field diff when the types differ
func requireSameType(t *testing.T, expected, actual types.Type) {
	t.Helper()
	if types.Equal(expected, actual) {
		return
	}
	diff := pretty.Diff(expected, actual)
	s := strings.Builder{}
	for i, d := range diff {
		if i == 0 {
			s.WriteString("diff    : ")
		} else {
			s.WriteString("          ")
		}
		s.WriteString(d)
		s.WriteString("\n")
	}
	require.Failf(t, "types differ",
		"expected: %s\nactual  : %s\n\n%s",
		types.SimpleName(expected), types.SimpleName(actual), s.String(),
	)
}

func requireCode(t *testing.T, code types.ErrCode, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, types.CodeOf(err), "unexpected error: %v", err)
}
