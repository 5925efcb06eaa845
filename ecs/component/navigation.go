package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
)

type NavMode int

const (
	NavIdle NavMode = iota
	NavPatrolling
	NavChasing
)

func (m NavMode) String() string {
	switch m {
	case NavIdle:
		return "idle"
	case NavPatrolling:
		return "patrolling"
	case NavChasing:
		return "chasing"
	default:
		return "unknown"
	}
}

// StepTask walks a path one step at a time. Dropping the task cancels it.
type StepTask struct {
	Steps  astar.Steps
	Target cp.Vector
	// Active is false until the first step has been targeted.
	Active bool
}

// Remaining returns the steps left, including the one being walked to.
func (t *StepTask) Remaining() int {
	if t == nil {
		return 0
	}
	n := t.Steps.Len()
	if t.Active {
		n++
	}
	return n
}

// Navigation is the per-agent runtime navigation state.
type Navigation struct {
	Mode NavMode
	Task *StepTask
	// Cooldown counts down to the next permitted time-based rebuild.
	Cooldown float64
	// TargetRef is the target position at the last rebuild.
	TargetRef       cp.Vector
	PatrolTarget    cp.Vector
	HasPatrolTarget bool
	// PatrolDelay counts down before a new patrol destination is drawn.
	PatrolDelay float64
	LastGoal    astar.Coord
	Rebuilds    int
}

var NavigationComponent = NewComponent[Navigation]()
