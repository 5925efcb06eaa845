package ecs

import "github.com/jakecoffman/cp"

// EventType identifies an event payload.
type EventType string

const (
	EventMove EventType = "move"
	EventIdle EventType = "idle"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// MoveEvent asks the movement consumer to head from From toward Target.
// Direction is the unit vector between them.
type MoveEvent struct {
	Entity    Entity
	Target    cp.Vector
	From      cp.Vector
	Speed     float64
	Direction cp.Vector
}

// IdleEvent asks the movement consumer to stop the entity.
type IdleEvent struct {
	Entity Entity
}

// NewMoveEvent builds a MoveEvent with its direction filled in.
func NewMoveEvent(e Entity, from, target cp.Vector, speed float64) MoveEvent {
	return MoveEvent{
		Entity:    e,
		Target:    target,
		From:      from,
		Speed:     speed,
		Direction: target.Sub(from).Normalize(),
	}
}

// EventQueue is a FIFO queue cleared at the start of every tick.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// PushMove enqueues a move event.
func (q *EventQueue) PushMove(evt MoveEvent) {
	q.Push(Event{Type: EventMove, Data: evt})
}

// PushIdle enqueues an idle event for e.
func (q *EventQueue) PushIdle(e Entity) {
	q.Push(Event{Type: EventIdle, Data: IdleEvent{Entity: e}})
}

// Items returns the queued events without clearing them.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// drain returns all events and clears the queue.
func (q *EventQueue) drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// EventsOf returns the payloads of type T currently queued, in order.
func EventsOf[T any](q *EventQueue) []T {
	var out []T
	for _, evt := range q.Items() {
		if v, ok := evt.Data.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
