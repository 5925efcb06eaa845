package system

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/prefabs"
)

// StepTaskSystem walks each agent's current path one step at a time and
// emits a move toward the step being walked. When the steps run out it emits
// idle and drops the task.
type StepTaskSystem struct {
	tolerance float64
	logger    *log.Logger
}

func NewStepTaskSystem(settings prefabs.NavSettings, opts ...Option) *StepTaskSystem {
	o := applyOptions(opts)
	return &StepTaskSystem{tolerance: settings.ArrivalTolerance, logger: o.logger}
}

func (s *StepTaskSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	events := w.Events()
	ecs.ForEach3(w, component.AgentComponent.Kind(), component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.Agent, nav *component.Navigation, tr *component.Transform) {
		if nav.Task == nil {
			return
		}
		pos := tr.Position()
		target, ok := AdvanceStep(nav.Task, pos, s.tolerance)
		if !ok {
			nav.Task = nil
			events.PushIdle(e)
			s.logger.Debug("path finished", "entity", e)
			return
		}
		events.PushMove(ecs.NewMoveEvent(e, pos, target, agent.MoveSpeed))
	})
}

// AdvanceStep moves task along for an agent at pos and returns the position
// to head for. At most one step is consumed per call. ok is false once the
// steps are exhausted.
func AdvanceStep(task *component.StepTask, pos cp.Vector, tolerance float64) (cp.Vector, bool) {
	if task == nil {
		return cp.Vector{}, false
	}
	if !task.Active || pos.Distance(task.Target) <= tolerance {
		next, ok := task.Steps.Pop()
		if !ok {
			task.Active = false
			return cp.Vector{}, false
		}
		task.Target = next
		task.Active = true
	}
	return task.Target, true
}

// cancelTask drops nav's running task and tells the mover to stop.
func cancelTask(events *ecs.EventQueue, e ecs.Entity, nav *component.Navigation) {
	if nav.Task == nil {
		return
	}
	nav.Task = nil
	events.PushIdle(e)
}
