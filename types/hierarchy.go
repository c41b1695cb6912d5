package types

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/typealg/internal/log"
	"github.com/hashicorp/go-set/v3"
)

var hierarchyLogger = log.DefaultLogger.With("section", "types.hierarchy")

// Declarations is the source of declared generic signatures. Superclass and
// Interfaces are expressed over the class's own parameters (and those of
// its enclosing classes).
type Declarations interface {
	Params(c *Class) []*TypeVar
	// Superclass returns nil if c has no declared superclass
	Superclass(c *Class) Type
	Interfaces(c *Class) []Type
	// Enclosing returns the generic class c is nested in, or nil when c is
	// top-level or does not capture its enclosing class's parameters
	Enclosing(c *Class) *Class
}

type classEntry struct {
	class      *Class
	params     []*TypeVar
	superclass Type
	interfaces []Type
	enclosing  *Class
	// direct raw supertypes, superclass first
	supers []*Class
	// every proper ancestor, Top excluded
	ancestors *set.Set[ClassID]
}

// Hierarchy caches Declarations lookups. Entries are computed on first use
// and published with compare-and-swap: concurrent callers may compute the
// same entry twice, and whichever is published first is kept.
type Hierarchy struct {
	source  Declarations
	entries atomic.Pointer[immutable.Map[ClassID, *classEntry]]
	logger  *slog.Logger
}

type classIDHasher struct{}

func (classIDHasher) Hash(id ClassID) uint32 {
	return uint32(id ^ id>>32)
}

func (classIDHasher) Equal(a, b ClassID) bool { return a == b }

var topEntry = &classEntry{class: Top, ancestors: set.New[ClassID](0)}

func NewHierarchy(source Declarations) *Hierarchy {
	h := &Hierarchy{
		source: source,
		logger: hierarchyLogger,
	}
	h.entries.Store(immutable.NewMap[ClassID, *classEntry](classIDHasher{}))
	return h
}

func (h *Hierarchy) entry(c *Class) (*classEntry, error) {
	return h.entryTracking(c, set.New[ClassID](0))
}

func (h *Hierarchy) entryTracking(c *Class, inProgress *set.Set[ClassID]) (*classEntry, error) {
	if c.id == Top.id {
		return topEntry, nil
	}
	if e, ok := h.entries.Load().Get(c.id); ok {
		return e, nil
	}
	if !inProgress.Insert(c.id) {
		return nil, newError(TooComplexError{
			Reason: fmt.Sprintf("%s is declared as its own ancestor", c.Name),
		})
	}
	defer inProgress.Remove(c.id)

	e := &classEntry{
		class:      c,
		params:     h.source.Params(c),
		superclass: h.source.Superclass(c),
		interfaces: h.source.Interfaces(c),
		enclosing:  h.source.Enclosing(c),
		ancestors:  set.New[ClassID](4),
	}
	direct := make([]Type, 0, len(e.interfaces)+1)
	if e.superclass != nil {
		direct = append(direct, e.superclass)
	}
	direct = append(direct, e.interfaces...)
	for _, super := range direct {
		raw := RawOf(super)
		if raw == nil {
			return nil, newError(MalformedInputError{
				Type:   super,
				Reason: fmt.Sprintf("declared as a supertype of %s but is not a class", c.Name),
			})
		}
		if raw.id == Top.id {
			continue
		}
		e.supers = append(e.supers, raw)
		superEntry, err := h.entryTracking(raw, inProgress)
		if err != nil {
			return nil, err
		}
		e.ancestors.Insert(raw.id)
		e.ancestors.InsertSet(superEntry.ancestors)
	}
	return h.publish(e), nil
}

func (h *Hierarchy) publish(e *classEntry) *classEntry {
	for {
		old := h.entries.Load()
		if existing, ok := old.Get(e.class.id); ok {
			return existing
		}
		if h.entries.CompareAndSwap(old, old.Set(e.class.id, e)) {
			h.logger.Debug("published declaration", "class", e.class.Name, "params", len(e.params), "ancestors", e.ancestors.Size())
			return e
		}
	}
}

// Params returns the parameters declared by c itself
func (h *Hierarchy) Params(c *Class) ([]*TypeVar, error) {
	e, err := h.entry(c)
	if err != nil {
		return nil, err
	}
	return e.params, nil
}

// IsAncestor reports whether ancestor is c or one of c's supertypes
func (h *Hierarchy) IsAncestor(ancestor, c *Class) (bool, error) {
	if ancestor.id == Top.id || ancestor.id == c.id {
		return true, nil
	}
	e, err := h.entry(c)
	if err != nil {
		return false, err
	}
	return e.ancestors.Contains(ancestor.id), nil
}

// DirectSupers returns the raw classes c directly extends or implements
func (h *Hierarchy) DirectSupers(c *Class) ([]*Class, error) {
	e, err := h.entry(c)
	if err != nil {
		return nil, err
	}
	return e.supers, nil
}

// requireNonRaw rejects the bare use of a class that declares parameters or
// is nested inside a generic class
func (h *Hierarchy) requireNonRaw(c *Class) error {
	for curr := c; curr != nil; {
		e, err := h.entry(curr)
		if err != nil {
			return err
		}
		if len(e.params) > 0 {
			return newError(MalformedInputError{
				Type:   c,
				Reason: fmt.Sprintf("raw use of generic class %s", curr.Name),
			})
		}
		curr = e.enclosing
	}
	return nil
}
