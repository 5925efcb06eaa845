package system

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
)

// MoverSystem applies move and idle events to transforms directly, without a
// physics space. Headless front-ends and tests use it. Moves that would end
// on a blocked cell slide along the free axis or stop.
type MoverSystem struct {
	logger *log.Logger
}

func NewMoverSystem(opts ...Option) *MoverSystem {
	o := applyOptions(opts)
	return &MoverSystem{logger: o.logger}
}

func (s *MoverSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	applyMovementEvents(w)

	lvl := currentLevel(w)
	penalties, proj := lvl.Penalties(), lvl.Projection()
	dt := w.Delta()
	ecs.ForEach2(w, component.MovementComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, mv *component.Movement, tr *component.Transform) {
		if !mv.Moving {
			return
		}
		pos := tr.Position()
		step := mv.Speed * dt
		if pos.Distance(mv.Target) <= step {
			next := slide(penalties, proj, pos, mv.Target)
			tr.SetPosition(next)
			if next == mv.Target {
				mv.Velocity = cp.Vector{}
				mv.Moving = false
			}
			return
		}
		tr.SetPosition(slide(penalties, proj, pos, pos.Add(mv.Velocity.Mult(dt))))
	})
}

// slide returns to when it lies on a walkable cell, else the single-axis
// move that does, else from. Without level geometry every move is allowed.
func slide(penalties astar.PenaltyMap, proj astar.Projection, from, to cp.Vector) cp.Vector {
	if penalties == nil || proj == nil {
		return to
	}
	for _, cand := range [...]cp.Vector{to, {X: to.X, Y: from.Y}, {X: from.X, Y: to.Y}} {
		if astar.Walkable(penalties, proj.WorldToCell(cand)) {
			return cand
		}
	}
	return from
}

// currentLevel returns the world's level, or nil.
func currentLevel(w *ecs.World) *component.Level {
	le, ok := ecs.First(w, component.LevelComponent.Kind())
	if !ok {
		return nil
	}
	lvl, _ := ecs.Get(w, le, component.LevelComponent.Kind())
	return lvl
}

// applyMovementEvents folds this tick's move and idle events into each
// entity's Movement, in emission order.
func applyMovementEvents(w *ecs.World) {
	for _, evt := range w.Events().Items() {
		switch data := evt.Data.(type) {
		case ecs.MoveEvent:
			mv := ensureMovement(w, data.Entity)
			if mv == nil {
				continue
			}
			mv.Target = data.Target
			mv.Speed = data.Speed
			mv.Velocity = data.Direction.Mult(data.Speed)
			mv.Moving = data.Speed > 0
		case ecs.IdleEvent:
			mv := ensureMovement(w, data.Entity)
			if mv == nil {
				continue
			}
			mv.Velocity = cp.Vector{}
			mv.Moving = false
		}
	}
}

func ensureMovement(w *ecs.World, e ecs.Entity) *component.Movement {
	if mv, ok := ecs.Get(w, e, component.MovementComponent.Kind()); ok {
		return mv
	}
	mv := &component.Movement{}
	if err := ecs.Add(w, e, component.MovementComponent.Kind(), mv); err != nil {
		return nil
	}
	return mv
}
