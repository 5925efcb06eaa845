package system

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/prefabs"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testOptions(seed int64) []Option {
	return []Option{WithLogger(quietLogger()), WithRand(rand.New(rand.NewSource(seed)))}
}

func testSettings() prefabs.NavSettings {
	s := prefabs.DefaultNavSettings()
	s.StaggerPeriod = 1
	return s
}

func openGrid(w, h int, blocked ...astar.Coord) *astar.PenaltyGrid {
	p := astar.NewPenaltyGrid(astar.Coord{}, w, h, 1)
	for _, c := range blocked {
		p.Set(c, 0)
	}
	return p
}

func newNavWorld(t *testing.T, penalties astar.PenaltyMap, safe ...astar.Coord) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	le := ecs.CreateEntity(w)
	lvl := &component.Level{
		Name:       "test",
		Pathfinder: astar.NewPathfinder(20, 20, penalties, levels.Layout{CellSize: 1}),
		SafePoints: safe,
	}
	if err := ecs.Add(w, le, component.LevelComponent.Kind(), lvl); err != nil {
		t.Fatalf("add level: %v", err)
	}
	return w
}

func addTarget(t *testing.T, w *ecs.World, pos cp.Vector) *component.Transform {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := &component.Transform{X: pos.X, Y: pos.Y}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{}); err != nil {
		t.Fatal(err)
	}
	return tr
}

func addAgent(t *testing.T, w *ecs.World, pos cp.Vector, agent component.Agent) (ecs.Entity, *component.Navigation, *component.Transform) {
	t.Helper()
	e := ecs.CreateEntity(w)
	nav := &component.Navigation{}
	tr := &component.Transform{X: pos.X, Y: pos.Y}
	if err := ecs.Add(w, e, component.AgentComponent.Kind(), &agent); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.NavigationComponent.Kind(), nav); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		t.Fatal(err)
	}
	return e, nav, tr
}

func hasIdle(w *ecs.World, e ecs.Entity) bool {
	for _, idle := range ecs.EventsOf[ecs.IdleEvent](w.Events()) {
		if idle.Entity == e {
			return true
		}
	}
	return false
}

func movesFor(w *ecs.World, e ecs.Entity) []ecs.MoveEvent {
	var out []ecs.MoveEvent
	for _, mv := range ecs.EventsOf[ecs.MoveEvent](w.Events()) {
		if mv.Entity == e {
			out = append(out, mv)
		}
	}
	return out
}
