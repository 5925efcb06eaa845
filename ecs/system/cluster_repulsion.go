package system

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
)

// ClusterRepulsionSystem nudges overlapping physics agents apart so chasers
// converging on the same cell do not stack. A push that would land an agent
// on a blocked cell is dropped.
type ClusterRepulsionSystem struct {
	// Radius is the separation distance in world units.
	Radius float64
	// Strength is the push speed, in world units per second, at full overlap.
	Strength float64

	rng *rand.Rand
}

func NewClusterRepulsionSystem(opts ...Option) *ClusterRepulsionSystem {
	o := applyOptions(opts)
	return &ClusterRepulsionSystem{
		Radius:   0.8,
		Strength: 2.0,
		rng:      o.rng,
	}
}

func (cr *ClusterRepulsionSystem) Update(w *ecs.World) {
	if cr == nil || w == nil || cr.Radius <= 0 {
		return
	}

	type entInfo struct {
		e     ecs.Entity
		body  *component.PhysicsBody
		tr    *component.Transform
		layer *component.RepulsionLayer
	}

	list := make([]entInfo, 0)
	ecs.ForEach3(w, component.AgentComponent.Kind(), component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Agent, body *component.PhysicsBody, tr *component.Transform) {
		layer, _ := ecs.Get(w, e, component.RepulsionLayerComponent.Kind())
		list = append(list, entInfo{e: e, body: body, tr: tr, layer: layer})
	})

	n := len(list)
	if n < 2 {
		return
	}

	lvl := currentLevel(w)
	penalties, proj := lvl.Penalties(), lvl.Projection()

	push := make([]cp.Vector, n)
	dt := w.Delta()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			bi, bj := list[i], list[j]
			if !bi.layer.Repels(bj.layer) {
				continue
			}

			// vector from j to i
			d := bi.tr.Position().Sub(bj.tr.Position())
			dist := d.Length()
			if dist == 0 {
				d = cp.Vector{X: (cr.rng.Float64() - 0.5) * 1e-3, Y: (cr.rng.Float64() - 0.5) * 1e-3}
				dist = d.Length()
			}
			if dist >= cr.Radius {
				continue
			}

			// linear falloff with overlap, split between both agents
			overlap := cr.Radius - dist
			mag := cr.Strength * (overlap / cr.Radius) * dt * 0.5
			mag = math.Min(mag, overlap*0.5)
			dir := d.Mult(mag / dist)
			push[i] = push[i].Add(dir)
			push[j] = push[j].Sub(dir)
		}
	}

	for i, info := range list {
		if push[i] == (cp.Vector{}) {
			continue
		}
		next := info.tr.Position().Add(push[i])
		if penalties != nil && proj != nil && !astar.Walkable(penalties, proj.WorldToCell(next)) {
			continue
		}
		info.tr.SetPosition(next)
		if info.body.Body != nil {
			info.body.Body.SetPosition(next)
		}
	}
}
