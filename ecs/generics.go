package ecs

import "github.com/milk9111/gridchase/ecs/component"

// Add attaches value to e, replacing any existing component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// Remove detaches the component of kind from e.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	return w.store(kind.ID(), false).Remove(e)
}

// Has reports whether e carries a component of kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

// Get returns e's component of kind.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil {
		return nil, false
	}
	value, ok := w.store(kind.ID(), false).Get(e).(*T)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// First returns the first live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, e := range w.store(kind.ID(), false).Entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}

// snapshot copies the dense entity list so callbacks may add or remove
// components while iterating.
func snapshot(s *SparseSet) []Entity {
	if s.Len() == 0 {
		return nil
	}
	return append([]Entity(nil), s.Entities()...)
}

// ForEach calls fn for each live entity carrying kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range snapshot(w.store(kind.ID(), false)) {
		if v, ok := Get(w, e, kind); ok && w.entities.isAlive(e) {
			fn(e, v)
		}
	}
}

// ForEach2 calls fn for each live entity carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range snapshot(smallest(w, ka.ID(), kb.ID())) {
		if !w.entities.isAlive(e) {
			continue
		}
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		b, ok := Get(w, e, kb)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

// ForEach3 calls fn for each live entity carrying all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range snapshot(smallest(w, ka.ID(), kb.ID(), kc.ID())) {
		if !w.entities.isAlive(e) {
			continue
		}
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		b, ok := Get(w, e, kb)
		if !ok {
			continue
		}
		c, ok := Get(w, e, kc)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}

// smallest returns the store with the fewest entries, or nil if any store is
// missing (no entity can carry all kinds).
func smallest(w *World, ids ...component.ComponentID) *SparseSet {
	var best *SparseSet
	for _, id := range ids {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		if best == nil || s.Len() < best.Len() {
			best = s
		}
	}
	return best
}
