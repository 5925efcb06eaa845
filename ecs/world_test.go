package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return false the second time")
			}
			if len(Entities(w)) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
			}
		})
	}
}

func TestEntityReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id %d to be reused, got %d", old.id(), reused.id())
	}
	if reused == old {
		t.Fatalf("expected a new generation for reused id")
	}
	if Has(w, reused, h.Kind()) {
		t.Fatalf("components must not survive entity destruction")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	hInt := component.NewComponent[int]()
	hStr := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, hInt.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, hInt.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
				if Has(w, e2, hInt.Kind()) {
					t.Fatalf("e2 should not have the int component")
				}
			},
			teardown: func() bool { return Remove(w, e1, hInt.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, hStr.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, hStr.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, hStr.Kind()) || !Has(w, e2, hStr.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				v, _ := Get(w, e2, hStr.Kind())
				if *v != "b" {
					t.Fatalf("expected b, got %q", *v)
				}
			},
			teardown: func() bool { return Remove(w, e1, hStr.Kind()) },
		},
		{
			name:  "replace_value",
			setup: func() error { _ = Add(w, e2, hInt.Kind(), intPtr(1)); return Add(w, e2, hInt.Kind(), intPtr(2)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e2, hInt.Kind())
				if !ok || *v != 2 {
					t.Fatalf("expected replaced value 2, got %v", v)
				}
			},
			teardown: func() bool { return Remove(w, e2, hInt.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, hInt.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e1, component.ComponentKind[int]{}, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		ents = append(ents, e)
		// removing during iteration must not skip anything
		Remove(w, e, h.Kind())
	})
	set := toSet(ents)

	if _, ok := set[e1]; !ok {
		t.Fatalf("expected e1 in ForEach result")
	}
	if _, ok := set[e3]; !ok {
		t.Fatalf("expected e3 in ForEach result")
	}
	if _, ok := set[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
	if first, ok := First(w, h.Kind()); ok {
		t.Fatalf("expected no entity left, got %v", first)
	}
}

func TestForEach2And3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[string]()
				kc := component.NewComponentKind[float64]()

				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e2, ka, intPtr(2))
				_ = Add(w, e2, kb, stringPtr("x"))
				_ = Add(w, e2, kc, float64Ptr(5))
				_ = Add(w, e3, kb, stringPtr("y"))
				_ = Add(w, e3, ka, intPtr(3))

				var pairs []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *string) { pairs = append(pairs, e) })
				set := toSet(pairs)
				if len(pairs) != 2 {
					t.Fatalf("expected e2 and e3, got %v", pairs)
				}
				if _, ok := set[e2]; !ok {
					t.Fatalf("expected e2 in ForEach2 result")
				}

				var triples []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *string, _ *float64) { triples = append(triples, e) })
				if len(triples) != 1 || triples[0] != e2 {
					t.Fatalf("expected only e2, got %v", triples)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))

				called := false
				ForEach2(w, ka, kb, func(Entity, *int, *int) { called = true })
				if called {
					t.Fatalf("expected no callback when a store is missing")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type recordSystem struct {
	frames []uint64
	push   bool
}

func (s *recordSystem) Update(w *World) {
	s.frames = append(s.frames, w.Frame())
	if s.push {
		w.Events().PushIdle(1)
	}
}

func TestSchedulerFramesAndEvents(t *testing.T) {
	w := NewWorld()
	first := &recordSystem{push: true}
	second := &recordSystem{}
	sched := NewScheduler(first, nil, second)

	if got := len(sched.Systems()); got != 2 {
		t.Fatalf("expected nil systems to be skipped, got %d systems", got)
	}

	for i := 0; i < 3; i++ {
		sched.Update(w)
		if w.Events().Len() != 1 {
			t.Fatalf("tick %d: expected events from this tick only, got %d", i, w.Events().Len())
		}
	}

	want := []uint64{0, 1, 2}
	for i := range want {
		if first.frames[i] != want[i] || second.frames[i] != want[i] {
			t.Fatalf("frame %d: got %d/%d want %d", i, first.frames[i], second.frames[i], want[i])
		}
	}
	if w.Frame() != 3 {
		t.Fatalf("expected frame 3 after three ticks, got %d", w.Frame())
	}
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	q.PushMove(NewMoveEvent(7, cp.Vector{}, cp.Vector{X: 3, Y: 4}, 2))
	q.PushIdle(8)

	moves := EventsOf[MoveEvent](&q)
	if len(moves) != 1 {
		t.Fatalf("expected one move event, got %d", len(moves))
	}
	dir := moves[0].Direction
	if !dir.Near(cp.Vector{X: 0.6, Y: 0.8}, 1e-9) {
		t.Fatalf("unexpected direction %v", dir)
	}
	idles := EventsOf[IdleEvent](&q)
	if len(idles) != 1 || idles[0].Entity != 8 {
		t.Fatalf("unexpected idle events %v", idles)
	}

	if q.Len() != 2 {
		t.Fatalf("reading must not consume events")
	}
	if drained := q.drain(); len(drained) != 2 || q.Len() != 0 {
		t.Fatalf("drain should return and clear all events")
	}
}

func TestWorldDelta(t *testing.T) {
	w := NewWorld()
	if w.Delta() != DefaultDelta {
		t.Fatalf("expected default delta")
	}
	w.SetDelta(0.5)
	if w.Delta() != 0.5 {
		t.Fatalf("expected 0.5, got %v", w.Delta())
	}
	w.SetDelta(-1)
	if w.Delta() != DefaultDelta {
		t.Fatalf("non-positive delta should restore default")
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
