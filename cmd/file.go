package cmd

import (
	"os"

	"github.com/cottand/typealg/decl"
	"github.com/cottand/typealg/internal/log"
	"github.com/cottand/typealg/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = log.DefaultLogger.With("section", "cmd")

// hierarchyFile is the YAML form of a set of declarations plus queries
// over them. Types are written as nodes: a scalar names a class, a variable
// in scope, a primitive or `?`; a mapping has one of `class` (with `args`
// and `owner`), `array`, `extends` or `super`.
type hierarchyFile struct {
	Classes []classSpec `yaml:"classes"`
	Queries []querySpec `yaml:"queries"`
}

type classSpec struct {
	Name       string      `yaml:"name"`
	Interface  bool        `yaml:"interface"`
	Params     []paramSpec `yaml:"params"`
	Extends    yaml.Node   `yaml:"extends"`
	Implements []yaml.Node `yaml:"implements"`
	Enclosing  string      `yaml:"enclosing"`
}

type paramSpec struct {
	Name   string      `yaml:"name"`
	Bounds []yaml.Node `yaml:"bounds"`
}

// UnmarshalYAML accepts a bare name for unbounded parameters
func (p *paramSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		p.Name = n.Value
		return nil
	}
	type plain paramSpec
	return n.Decode((*plain)(p))
}

type typeSpec struct {
	Class   string      `yaml:"class"`
	Owner   yaml.Node   `yaml:"owner"`
	Args    []yaml.Node `yaml:"args"`
	Array   yaml.Node   `yaml:"array"`
	Extends yaml.Node   `yaml:"extends"`
	Super   yaml.Node   `yaml:"super"`
}

// present reports whether an optional node field was set in the document
func present(n *yaml.Node) bool {
	return n.Kind != 0
}

func readFile(path string) (*hierarchyFile, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read hierarchy file")
	}
	f := &hierarchyFile{}
	if err := yaml.Unmarshal(bs, f); err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}
	return f, nil
}

// declare builds a checked declaration table out of f's classes. Classes
// may refer to each other in any order.
func (f *hierarchyFile) declare() (*decl.Table, error) {
	table := decl.NewTable()
	decls := make([]*decl.Decl, len(f.Classes))
	for i, c := range f.Classes {
		if c.Name == "" {
			return nil, errors.Errorf("class #%d has no name", i)
		}
		if _, ok := table.Lookup(c.Name); ok {
			return nil, errors.Errorf("class %s declared twice", c.Name)
		}
		params := make([]string, len(c.Params))
		for j, p := range c.Params {
			params[j] = p.Name
		}
		if c.Interface {
			decls[i] = table.Interface(c.Name, params...)
		} else {
			decls[i] = table.Class(c.Name, params...)
		}
	}

	for i, c := range f.Classes {
		if c.Enclosing == "" {
			continue
		}
		outer, ok := table.Lookup(c.Enclosing)
		if !ok {
			return nil, errors.Errorf("class %s: unknown enclosing class %s", c.Name, c.Enclosing)
		}
		decls[i].NestedIn(outer)
	}

	for i, c := range f.Classes {
		d := decls[i]
		r := &resolver{table: table, vars: scopeOf(table, d)}
		for _, p := range c.Params {
			bounds, err := r.resolveAll(p.Bounds)
			if err != nil {
				return nil, errors.Wrapf(err, "bounds of %s.%s", c.Name, p.Name)
			}
			d.Bound(p.Name, bounds...)
		}
		if present(&c.Extends) {
			if c.Interface {
				return nil, errors.Errorf("interface %s can't extend a class", c.Name)
			}
			super, err := r.resolve(&c.Extends)
			if err != nil {
				return nil, errors.Wrapf(err, "superclass of %s", c.Name)
			}
			d.Extends(super)
		}
		ifaces, err := r.resolveAll(c.Implements)
		if err != nil {
			return nil, errors.Wrapf(err, "interfaces of %s", c.Name)
		}
		d.Implements(ifaces...)
	}

	if err := table.Check(); err != nil {
		return nil, err
	}
	logger.Debug("declared hierarchy", "classes", len(f.Classes))
	return table, nil
}

// scopeOf maps the names of the variables visible in d's declaration,
// inner declarations shadowing outer ones
func scopeOf(table *decl.Table, d *decl.Decl) map[string]*types.TypeVar {
	var chain []*decl.Decl
	for curr := d; curr != nil; {
		chain = append(chain, curr)
		enclosing := table.Enclosing(curr.Raw())
		if enclosing == nil {
			break
		}
		curr, _ = table.Lookup(enclosing.Name)
	}
	vars := make(map[string]*types.TypeVar)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, p := range chain[i].Params() {
			vars[p.Name] = p
		}
	}
	return vars
}

var primitives = map[string]types.Primitive{
	types.Boolean.Name: types.Boolean,
	types.Char.Name:    types.Char,
	types.Byte.Name:    types.Byte,
	types.Short.Name:   types.Short,
	types.Int.Name:     types.Int,
	types.Long.Name:    types.Long,
	types.Float.Name:   types.Float,
	types.Double.Name:  types.Double,
}

type resolver struct {
	table *decl.Table
	vars  map[string]*types.TypeVar
}

func (r *resolver) resolveAll(ns []yaml.Node) ([]types.Type, error) {
	res := make([]types.Type, 0, len(ns))
	for i := range ns {
		t, err := r.resolve(&ns[i])
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// resolveList accepts either a single node or a sequence of them
func (r *resolver) resolveList(n *yaml.Node) ([]types.Type, error) {
	if n.Kind == yaml.SequenceNode {
		ns := make([]yaml.Node, len(n.Content))
		for i, c := range n.Content {
			ns[i] = *c
		}
		return r.resolveAll(ns)
	}
	t, err := r.resolve(n)
	if err != nil {
		return nil, err
	}
	return []types.Type{t}, nil
}

func (r *resolver) resolve(n *yaml.Node) (types.Type, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return r.resolveName(n)
	case yaml.MappingNode:
	default:
		return nil, errors.Errorf("line %d: expected a type name or mapping", n.Line)
	}

	var spec typeSpec
	if err := n.Decode(&spec); err != nil {
		return nil, errors.Wrapf(err, "line %d", n.Line)
	}
	switch {
	case present(&spec.Array):
		component, err := r.resolve(&spec.Array)
		if err != nil {
			return nil, err
		}
		return types.ArrayOf(component), nil
	case present(&spec.Extends) || present(&spec.Super):
		w := types.Unbounded()
		if present(&spec.Extends) {
			upper, err := r.resolveList(&spec.Extends)
			if err != nil {
				return nil, err
			}
			w = types.Extends(upper...)
		}
		if present(&spec.Super) {
			lower, err := r.resolveList(&spec.Super)
			if err != nil {
				return nil, err
			}
			w.Lower = lower
		}
		return w, nil
	case spec.Class != "":
		d, ok := r.table.Lookup(spec.Class)
		if !ok {
			return nil, errors.Errorf("line %d: unknown class %s", n.Line, spec.Class)
		}
		args, err := r.resolveAll(spec.Args)
		if err != nil {
			return nil, err
		}
		if present(&spec.Owner) {
			owner, err := r.resolve(&spec.Owner)
			if err != nil {
				return nil, err
			}
			return d.In(owner, args...), nil
		}
		if len(args) == 0 {
			return d.Raw(), nil
		}
		return d.Of(args...), nil
	}
	return nil, errors.Errorf("line %d: a type mapping needs one of class, array, extends or super", n.Line)
}

func (r *resolver) resolveName(n *yaml.Node) (types.Type, error) {
	name := n.Value
	if name == "?" {
		return types.Unbounded(), nil
	}
	if v, ok := r.vars[name]; ok {
		return v, nil
	}
	if p, ok := primitives[name]; ok {
		return p, nil
	}
	if name == types.Top.Name {
		return types.Top, nil
	}
	if d, ok := r.table.Lookup(name); ok {
		return d.Raw(), nil
	}
	return nil, errors.Errorf("line %d: unknown type %s", n.Line, name)
}
