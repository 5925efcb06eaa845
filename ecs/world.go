package ecs

import "github.com/milk9111/gridchase/ecs/component"

// DefaultDelta is the tick length used until SetDelta is called.
const DefaultDelta = 1.0 / 60.0

// World owns entities, their component stores and the per-tick event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	frame    uint64
	delta    float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		delta:  DefaultDelta,
	}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components. It reports false when
// e was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

// Frame is the number of ticks completed before the current one.
func (w *World) Frame() uint64 {
	return w.frame
}

// Delta is the tick length in seconds.
func (w *World) Delta() float64 {
	return w.delta
}

// SetDelta changes the tick length. Non-positive values restore DefaultDelta.
func (w *World) SetDelta(dt float64) {
	if dt <= 0 {
		dt = DefaultDelta
	}
	w.delta = dt
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) beginTick() {
	w.events.drain()
}

func (w *World) endTick() {
	w.frame++
}
