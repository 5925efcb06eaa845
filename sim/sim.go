// Package sim assembles a navigation world from a level and the prefabs and
// steps it. The ebiten demo, the terminal viewer and the profiler share it.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/ecs/system"
	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/prefabs"
)

type config struct {
	logger  *log.Logger
	seed    int64
	physics bool
	metrics *astar.SearchMetrics
}

type Option func(*config)

func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithSeed fixes the random source used for patrols and goal selection.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithPhysics moves agents with Chipmunk bodies instead of the kinematic
// mover.
func WithPhysics(enabled bool) Option {
	return func(c *config) { c.physics = enabled }
}

// WithMetrics records every path search into m.
func WithMetrics(m *astar.SearchMetrics) Option {
	return func(c *config) { c.metrics = m }
}

// Sim is a running navigation world.
type Sim struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Level     *levels.Level
	Settings  prefabs.NavSettings
	Nav       *system.NavigationSystem
	Physics   *system.PhysicsSystem

	target  ecs.Entity
	spawned int
	physics bool
	logger  *log.Logger
}

// New builds a world for lvl with a target entity but no agents.
func New(lvl *levels.Level, settings prefabs.NavSettings, opts ...Option) (*Sim, error) {
	if lvl == nil {
		return nil, fmt.Errorf("sim: nil level")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cfg := config{seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}

	w := ecs.NewWorld()
	w.SetDelta(settings.TickDelta())

	pf := lvl.Pathfinder(settings.GridWidth, settings.GridHeight)
	if cfg.metrics != nil {
		pf.Profiler = cfg.metrics.Profiler()
	}
	le := ecs.CreateEntity(w)
	if err := ecs.Add(w, le, component.LevelComponent.Kind(), &component.Level{
		Name:       lvl.Name,
		Pathfinder: pf,
		SafePoints: lvl.SafePoints,
		Bounds:     lvl.Bounds(),
		Width:      lvl.Width,
		Height:     lvl.Height,
	}); err != nil {
		return nil, fmt.Errorf("sim: add level: %w", err)
	}

	target := ecs.CreateEntity(w)
	start := lvl.Layout.CellCenter(lvl.Target)
	if err := ecs.Add(w, target, component.TransformComponent.Kind(), &component.Transform{X: start.X, Y: start.Y}); err != nil {
		return nil, fmt.Errorf("sim: add target: %w", err)
	}
	if err := ecs.Add(w, target, component.TargetTagComponent.Kind(), &component.TargetTag{}); err != nil {
		return nil, fmt.Errorf("sim: add target: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	sysOpts := []system.Option{system.WithLogger(cfg.logger), system.WithRand(rng)}
	s := &Sim{
		World:    w,
		Level:    lvl,
		Settings: settings,
		Nav:      system.NewNavigationSystem(settings, sysOpts...),
		target:   target,
		physics:  cfg.physics,
		logger:   cfg.logger,
	}
	s.Scheduler = ecs.NewScheduler(s.Nav, system.NewStepTaskSystem(settings, sysOpts...))
	if cfg.physics {
		s.Physics = system.NewPhysicsSystem(sysOpts...)
		repulsion := system.NewClusterRepulsionSystem(sysOpts...)
		repulsion.Radius *= lvl.Layout.CellSize
		repulsion.Strength *= lvl.Layout.CellSize
		s.Scheduler.Add(s.Physics)
		s.Scheduler.Add(repulsion)
	} else {
		s.Scheduler.Add(system.NewMoverSystem(sysOpts...))
	}
	return s, nil
}

// Load builds a simulation for the named level using the prefab settings and
// spawns every agent the level places.
func Load(levelName string, opts ...Option) (*Sim, error) {
	settings, err := prefabs.LoadNavSettings()
	if err != nil {
		return nil, err
	}
	lvl, err := levels.Load(levelName)
	if err != nil {
		return nil, err
	}
	s, err := New(lvl, settings, opts...)
	if err != nil {
		return nil, err
	}
	for _, placement := range lvl.Agents {
		spec, err := prefabs.LoadAgentSpec(placement.Prefab)
		if err != nil {
			return nil, err
		}
		spec, err = spec.WithOverrides(placement.Overrides)
		if err != nil {
			return nil, err
		}
		if _, err := s.Spawn(spec, placement.Cell); err != nil {
			return nil, err
		}
	}
	s.logger.Info("level loaded", "level", lvl.Name, "agents", s.spawned, "physics", s.physics)
	return s, nil
}

// Spawn adds an agent at the center of cell. Agents take stagger offsets in
// spawn order so their rebuilds spread across the stagger period.
func (s *Sim) Spawn(spec prefabs.AgentSpec, cell astar.Coord) (ecs.Entity, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	w := s.World
	e := ecs.CreateEntity(w)
	pos := s.Level.Layout.CellCenter(cell)

	agent := &component.Agent{
		MoveSpeed:          spec.MoveSpeed,
		AggressionDistance: spec.AggressionDistance,
		ChaseDistance:      spec.ChaseDistance,
		PatrolMin:          cp.Vector{X: spec.Patrol.Min.X, Y: spec.Patrol.Min.Y},
		PatrolMax:          cp.Vector{X: spec.Patrol.Max.X, Y: spec.Patrol.Max.Y},
		UpdateFrame:        s.spawned % s.Settings.StaggerPeriod,
	}
	if err := ecs.Add(w, e, component.AgentComponent.Kind(), agent); err != nil {
		return 0, fmt.Errorf("sim: spawn %s: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.NavigationComponent.Kind(), &component.Navigation{}); err != nil {
		return 0, fmt.Errorf("sim: spawn %s: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("sim: spawn %s: %w", spec.Name, err)
	}
	if s.physics {
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: spec.Radius}); err != nil {
			return 0, fmt.Errorf("sim: spawn %s: %w", spec.Name, err)
		}
	}
	s.spawned++
	s.logger.Debug("agent spawned", "entity", e, "prefab", spec.Name, "cell", cell, "offset", agent.UpdateFrame)
	return e, nil
}

// Step advances the world by one tick.
func (s *Sim) Step() {
	s.Scheduler.Update(s.World)
}

// TargetPosition returns the target's world position.
func (s *Sim) TargetPosition() cp.Vector {
	tr, ok := ecs.Get(s.World, s.target, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}
	}
	return tr.Position()
}

// MoveTarget shifts the target by delta unless that would put it on a
// blocked cell. It reports whether the target moved.
func (s *Sim) MoveTarget(delta cp.Vector) bool {
	tr, ok := ecs.Get(s.World, s.target, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	next := tr.Position().Add(delta)
	if !astar.Walkable(s.Level.Penalties, s.Level.Layout.WorldToCell(next)) {
		return false
	}
	tr.SetPosition(next)
	return true
}

// AgentView is a read-only snapshot of one agent for rendering.
type AgentView struct {
	Entity   ecs.Entity
	Position cp.Vector
	Mode     component.NavMode
	Goal     astar.Coord
	Rebuilds int
	// Path holds the remaining steps, next step first.
	Path []cp.Vector
}

// Agents returns a snapshot of every agent.
func (s *Sim) Agents() []AgentView {
	var out []AgentView
	ecs.ForEach2(s.World, component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.Navigation, tr *component.Transform) {
		view := AgentView{
			Entity:   e,
			Position: tr.Position(),
			Mode:     nav.Mode,
			Goal:     nav.LastGoal,
			Rebuilds: nav.Rebuilds,
		}
		if task := nav.Task; task != nil {
			if task.Active {
				view.Path = append(view.Path, task.Target)
			}
			for i := task.Steps.Len() - 1; i >= 0; i-- {
				view.Path = append(view.Path, task.Steps[i])
			}
		}
		out = append(out, view)
	})
	return out
}
