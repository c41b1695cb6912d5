package util

import (
	"iter"
	"maps"
)

// MSet is a shallow wrapper around a map, for sets that only live within
// one call. Use go-set for sets that outlive it.
type MSet[A comparable] struct {
	underlying map[A]struct{}
}

func NewEmptySet[A comparable]() MSet[A] {
	return MSet[A]{
		underlying: make(map[A]struct{}),
	}
}

func NewSetOf[A comparable](elems ...A) MSet[A] {
	s := MSet[A]{underlying: make(map[A]struct{}, len(elems))}
	s.Add(elems...)
	return s
}

func (s MSet[A]) Add(elems ...A) {
	for _, elem := range elems {
		s.underlying[elem] = struct{}{}
	}
}

// Insert adds elem and reports whether it was absent
func (s MSet[A]) Insert(elem A) bool {
	if _, ok := s.underlying[elem]; ok {
		return false
	}
	s.underlying[elem] = struct{}{}
	return true
}

func (s MSet[A]) Contains(elem A) bool {
	_, ok := s.underlying[elem]
	return ok
}

func (s MSet[A]) Len() int {
	return len(s.underlying)
}

func (s MSet[A]) All() iter.Seq[A] {
	return maps.Keys(s.underlying)
}
