package component

import "github.com/jakecoffman/cp"

// Agent is the per-agent navigation configuration.
type Agent struct {
	MoveSpeed float64
	// AggressionDistance starts a chase; ChaseDistance keeps it going and
	// must not be smaller.
	AggressionDistance float64
	ChaseDistance      float64
	// PatrolMin and PatrolMax bound the patrol rectangle in world units.
	PatrolMin cp.Vector
	PatrolMax cp.Vector
	// UpdateFrame is the tick offset, within the stagger period, on which
	// the agent may rebuild its path.
	UpdateFrame int
}

var AgentComponent = NewComponent[Agent]()
