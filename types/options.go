package types

import (
	"log/slog"

	"github.com/cottand/typealg/internal/log"
)

const (
	DefaultMaxDepth     = 250
	DefaultFuel         = 10000
	DefaultMaxDisjuncts = 4096
)

// Options bound the work a single query may do. Zero values select the
// defaults.
type Options struct {
	// MaxDepth is the deepest relate recursion allowed
	MaxDepth int
	// Fuel is the number of relate steps a query may take
	Fuel int
	// MaxDisjuncts caps the size of a conjunction's cartesian product
	MaxDisjuncts int
	Logger       *slog.Logger
}

type Option func(*Options)

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

func WithFuel(fuel int) Option {
	return func(o *Options) { o.Fuel = fuel }
}

func WithMaxDisjuncts(n int) Option {
	return func(o *Options) { o.MaxDisjuncts = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Fuel <= 0 {
		o.Fuel = DefaultFuel
	}
	if o.MaxDisjuncts <= 0 {
		o.MaxDisjuncts = DefaultMaxDisjuncts
	}
	if o.Logger == nil {
		o.Logger = log.DefaultLogger
	}
	return o
}
