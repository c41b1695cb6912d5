package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cottand/typealg/decl"
	"github.com/cottand/typealg/types"
	"github.com/cottand/typealg/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// querySpec is one operation to evaluate. Exactly one of the operation
// fields is set. Vars declares fresh variables usable in the query's types.
type querySpec struct {
	Name string   `yaml:"name"`
	Vars []string `yaml:"vars"`

	Subtype    []yaml.Node    `yaml:"subtype"`
	Supertypes yaml.Node      `yaml:"supertypes"`
	Downgrade  *navSpec       `yaml:"downgrade"`
	Upgrade    *navSpec       `yaml:"upgrade"`
	Shift      *navSpec       `yaml:"shift"`
	Transform  *transformSpec `yaml:"transform"`

	// Expect is the rendered result the query should produce
	Expect *string `yaml:"expect"`
	// ExpectError is the name of the error code the query should fail with
	ExpectError string `yaml:"expectError"`
}

type navSpec struct {
	Type yaml.Node `yaml:"type"`
	To   string    `yaml:"to"`
}

type transformSpec struct {
	Source yaml.Node `yaml:"source"`
	From   yaml.Node `yaml:"from"`
	To     yaml.Node `yaml:"to"`
}

var errorCodes = map[string]types.ErrCode{
	"MalformedRelationInput": types.MalformedRelationInput,
	"NoNominalPath":          types.NoNominalPath,
	"UnboundParameters":      types.UnboundParameters,
	"UnresolvableBounds":     types.UnresolvableBounds,
	"TooComplex":             types.TooComplex,
}

func (q *querySpec) label(i int) string {
	if q.Name != "" {
		return q.Name
	}
	return fmt.Sprintf("query #%d", i+1)
}

// run evaluates q and renders its result. Errors from the engine are
// returned as queryErr; err is only set when q itself is ill-formed.
func (q *querySpec) run(e *types.Engine, table *decl.Table) (result string, queryErr error, err error) {
	r := &resolver{table: table, vars: make(map[string]*types.TypeVar, len(q.Vars))}
	for _, name := range q.Vars {
		r.vars[name] = types.NewTypeVar(name)
	}
	classNamed := func(name string) (*types.Class, error) {
		d, ok := table.Lookup(name)
		if !ok {
			return nil, errors.Errorf("unknown class %s", name)
		}
		return d.Raw(), nil
	}

	switch {
	case q.Subtype != nil:
		if len(q.Subtype) != 2 {
			return "", nil, errors.Errorf("subtype takes [sub, super], got %d types", len(q.Subtype))
		}
		ts, err := r.resolveAll(q.Subtype)
		if err != nil {
			return "", nil, err
		}
		ok, queryErr := e.IsSubtype(ts[0], ts[1])
		return fmt.Sprint(ok), queryErr, nil

	case present(&q.Supertypes):
		t, err := r.resolve(&q.Supertypes)
		if err != nil {
			return "", nil, err
		}
		supers, queryErr := e.Supertypes(t)
		return strings.Join(util.Map(supers, types.SimpleName), ", "), queryErr, nil

	case q.Downgrade != nil, q.Upgrade != nil, q.Shift != nil:
		nav, op := q.Downgrade, e.Downgrade
		if q.Upgrade != nil {
			nav, op = q.Upgrade, e.Upgrade
		} else if q.Shift != nil {
			nav, op = q.Shift, e.Shift
		}
		t, err := r.resolve(&nav.Type)
		if err != nil {
			return "", nil, err
		}
		target, err := classNamed(nav.To)
		if err != nil {
			return "", nil, err
		}
		res, queryErr := op(t, target)
		return render(res), queryErr, nil

	case q.Transform != nil:
		ts, err := r.resolveAll([]yaml.Node{q.Transform.Source, q.Transform.From, q.Transform.To})
		if err != nil {
			return "", nil, err
		}
		res, queryErr := e.Transform(ts[0], ts[1], ts[2])
		return render(res), queryErr, nil
	}
	return "", nil, errors.New("no operation given")
}

func render(t types.Type) string {
	if t == nil {
		return ""
	}
	return types.SimpleName(t)
}

// evaluate runs every query of f, printing one line per query, and counts
// the queries whose outcome differs from their expectation
func evaluate(out io.Writer, f *hierarchyFile, table *decl.Table, e *types.Engine) (mismatches int, err error) {
	for i := range f.Queries {
		q := &f.Queries[i]
		label := q.label(i)
		result, queryErr, err := q.run(e, table)
		if err != nil {
			return mismatches, errors.Wrapf(err, "%s", label)
		}

		var line string
		var code types.ErrCode
		if queryErr != nil {
			code = types.CodeOf(queryErr)
			var typeErr types.Error
			if errors.As(queryErr, &typeErr) {
				line = types.FormatWithCode(typeErr)
			} else {
				line = queryErr.Error()
			}
			logger.Debug("query failed", "query", label, "code", code)
		} else {
			line = result
		}

		verdict := ""
		switch {
		case q.ExpectError != "":
			want, ok := errorCodes[q.ExpectError]
			if !ok {
				return mismatches, errors.Errorf("%s: unknown error code %s", label, q.ExpectError)
			}
			verdict = verdictOf(queryErr != nil && code == want)
		case q.Expect != nil:
			verdict = verdictOf(queryErr == nil && result == *q.Expect)
		}
		if verdict == mismatch {
			mismatches++
		}

		if verdict != "" {
			_, err = fmt.Fprintf(out, "%s: %s [%s]\n", label, line, verdict)
		} else {
			_, err = fmt.Fprintf(out, "%s: %s\n", label, line)
		}
		if err != nil {
			return mismatches, err
		}
	}
	return mismatches, nil
}

const mismatch = "MISMATCH"

func verdictOf(ok bool) string {
	if ok {
		return "ok"
	}
	return mismatch
}
