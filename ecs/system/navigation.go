package system

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/prefabs"
)

// maxPatrolDraws caps redraws of a patrol destination that lands too close.
const maxPatrolDraws = 32

// NavigationSystem drives each agent's idle/patrol/chase state machine and
// rebuilds chase paths on the agent's stagger frame.
type NavigationSystem struct {
	settings prefabs.NavSettings
	logger   *log.Logger
	rng      *rand.Rand

	lastTickRebuilds int
	totalRebuilds    int
	failedRebuilds   int
}

func NewNavigationSystem(settings prefabs.NavSettings, opts ...Option) *NavigationSystem {
	o := applyOptions(opts)
	if settings.StaggerPeriod <= 0 {
		settings.StaggerPeriod = 1
	}
	return &NavigationSystem{settings: settings, logger: o.logger, rng: o.rng}
}

// NavStats summarises rebuild activity.
type NavStats struct {
	LastTickRebuilds int
	TotalRebuilds    int
	FailedRebuilds   int
}

func (s *NavigationSystem) Stats() NavStats {
	return NavStats{
		LastTickRebuilds: s.lastTickRebuilds,
		TotalRebuilds:    s.totalRebuilds,
		FailedRebuilds:   s.failedRebuilds,
	}
}

func (s *NavigationSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.lastTickRebuilds = 0

	level := currentLevel(w)
	target, hasTarget := targetPosition(w)

	resolver := WalkableResolver{Rand: s.rng, Logger: s.logger}
	if level != nil {
		resolver.Penalties = level.Penalties()
		resolver.Projection = level.Projection()
		resolver.SafePoints = level.SafePoints
	}

	ctx := navTick{
		events:    w.Events(),
		level:     level,
		resolver:  &resolver,
		target:    target,
		hasTarget: hasTarget,
		dt:        w.Delta(),
		slot:      int(w.Frame() % uint64(s.settings.StaggerPeriod)),
	}

	ecs.ForEach3(w, component.AgentComponent.Kind(), component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.Agent, nav *component.Navigation, tr *component.Transform) {
		s.updateAgent(&ctx, e, agent, nav, tr.Position())
	})
}

type navTick struct {
	events    *ecs.EventQueue
	level     *component.Level
	resolver  *WalkableResolver
	target    cp.Vector
	hasTarget bool
	dt        float64
	slot      int
}

func targetPosition(w *ecs.World) (cp.Vector, bool) {
	te, ok := ecs.First(w, component.TargetTagComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	tr, ok := ecs.Get(w, te, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return tr.Position(), true
}

func (s *NavigationSystem) updateAgent(ctx *navTick, e ecs.Entity, agent *component.Agent, nav *component.Navigation, pos cp.Vector) {
	dist := math.Inf(1)
	if ctx.hasTarget {
		dist = pos.Distance(ctx.target)
	}

	switch nav.Mode {
	case component.NavChasing:
		if dist >= agent.ChaseDistance {
			s.logger.Debug("chase lost", "entity", e, "distance", dist)
			cancelTask(ctx.events, e, nav)
			nav.HasPatrolTarget = false
			nav.PatrolDelay = 0
			nav.Mode = component.NavPatrolling
			s.patrol(ctx, e, agent, nav, pos)
			return
		}
	default:
		if dist < agent.AggressionDistance {
			s.logger.Debug("chase started", "entity", e, "distance", dist)
			nav.Mode = component.NavChasing
			nav.HasPatrolTarget = false
			nav.Cooldown = 0
			nav.TargetRef = ctx.target
		} else {
			s.patrol(ctx, e, agent, nav, pos)
			return
		}
	}
	s.chase(ctx, e, agent, nav, pos)
}

func (s *NavigationSystem) chase(ctx *navTick, e ecs.Entity, agent *component.Agent, nav *component.Navigation, pos cp.Vector) {
	nav.Cooldown -= ctx.dt
	if ctx.slot != agent.UpdateFrame {
		return
	}
	if nav.Cooldown > 0 && ctx.target.Distance(nav.TargetRef) <= s.settings.RebuildDistance {
		return
	}
	if ctx.level == nil || ctx.level.Pathfinder == nil {
		return
	}

	nav.Cooldown = s.settings.RebuildCooldown
	nav.TargetRef = ctx.target

	goal := ctx.resolver.Nearest(ctx.target)
	nav.LastGoal = goal
	start := ctx.level.Projection().WorldToCell(pos)

	s.lastTickRebuilds++
	s.totalRebuilds++
	nav.Rebuilds++

	steps, err := ctx.level.Pathfinder.BuildPath(start, goal)
	if err != nil {
		s.failedRebuilds++
		s.logger.Debug("no path", "entity", e, "from", start, "to", goal, "err", err)
		nav.Task = nil
		ctx.events.PushIdle(e)
		return
	}
	// The first step is the agent's own cell.
	steps.Pop()
	cancelTask(ctx.events, e, nav)
	nav.Task = &component.StepTask{Steps: steps}
	s.logger.Debug("path rebuilt", "entity", e, "from", start, "to", goal, "steps", steps.Len())
}

func (s *NavigationSystem) patrol(ctx *navTick, e ecs.Entity, agent *component.Agent, nav *component.Navigation, pos cp.Vector) {
	lo, hi, ok := patrolRect(agent)
	if !ok {
		nav.Mode = component.NavIdle
		ctx.events.PushIdle(e)
		return
	}
	nav.Mode = component.NavPatrolling

	if !nav.HasPatrolTarget {
		if nav.PatrolDelay > 0 {
			nav.PatrolDelay -= ctx.dt
			ctx.events.PushIdle(e)
			return
		}
		nav.PatrolTarget = s.drawPatrolTarget(lo, hi, pos)
		nav.HasPatrolTarget = true
	}

	if pos.Distance(nav.PatrolTarget) <= s.settings.ArrivalTolerance {
		nav.HasPatrolTarget = false
		nav.PatrolDelay = s.settings.PatrolDelay
		ctx.events.PushIdle(e)
		return
	}
	ctx.events.PushMove(ecs.NewMoveEvent(e, pos, nav.PatrolTarget, agent.MoveSpeed))
}

// patrolRect returns the agent's patrol rectangle with corners ordered. A
// rectangle collapsed to a point disables patrolling.
func patrolRect(agent *component.Agent) (cp.Vector, cp.Vector, bool) {
	lo := cp.Vector{X: math.Min(agent.PatrolMin.X, agent.PatrolMax.X), Y: math.Min(agent.PatrolMin.Y, agent.PatrolMax.Y)}
	hi := cp.Vector{X: math.Max(agent.PatrolMin.X, agent.PatrolMax.X), Y: math.Max(agent.PatrolMin.Y, agent.PatrolMax.Y)}
	if hi.X-lo.X <= 0 && hi.Y-lo.Y <= 0 {
		return lo, hi, false
	}
	return lo, hi, true
}

// drawPatrolTarget draws points uniformly in [lo,hi] until one is at least
// PatrolMinDistance from pos. After maxPatrolDraws the farthest draw wins.
func (s *NavigationSystem) drawPatrolTarget(lo, hi, pos cp.Vector) cp.Vector {
	var best cp.Vector
	bestDist := -1.0
	for i := 0; i < maxPatrolDraws; i++ {
		p := cp.Vector{
			X: lo.X + s.rng.Float64()*(hi.X-lo.X),
			Y: lo.Y + s.rng.Float64()*(hi.Y-lo.Y),
		}
		d := pos.Distance(p)
		if d >= s.settings.PatrolMinDistance {
			return p
		}
		if d > bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
