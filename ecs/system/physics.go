package system

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
)

const defaultBodyRadius = 0.35

// Collision categories. Agents collide with walls only; overlapping agents
// are separated by ClusterRepulsionSystem.
const (
	categoryWall  uint = 1 << 0
	categoryAgent uint = 1 << 1
	allCategories      = ^uint(0)
)

// PhysicsSystem drives dynamic Chipmunk bodies from move and idle events and
// copies their positions back into transforms. Blocked cells of the level
// become static boxes, so agents heading into a wall stop or slide along it.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*component.PhysicsBody
	logger *log.Logger

	walls    []*cp.Shape
	wallsFor *component.Level
}

func NewPhysicsSystem(opts ...Option) *PhysicsSystem {
	o := applyOptions(opts)
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*component.PhysicsBody),
		logger: o.logger,
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncLevel(w)
	ps.syncEntities(w)
	applyMovementEvents(w)

	dt := w.Delta()
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body == nil {
			return
		}
		mv, ok := ecs.Get(w, e, component.MovementComponent.Kind())
		if !ok || !mv.Moving {
			pb.Body.SetVelocityVector(cp.Vector{})
			return
		}
		pos := pb.Body.Position()
		if dt > 0 && pos.Distance(mv.Target) <= mv.Speed*dt {
			// land on the target instead of overshooting it
			pb.Body.SetVelocityVector(mv.Target.Sub(pos).Mult(1 / dt))
			mv.Moving = false
			return
		}
		pb.Body.SetVelocityVector(mv.Velocity)
	})

	ps.space.Step(dt)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body != nil {
			tr.SetPosition(pb.Body.Position())
		}
	})
}

// syncLevel rebuilds the static wall shapes when the level changes.
func (ps *PhysicsSystem) syncLevel(w *ecs.World) {
	lvl := currentLevel(w)
	if lvl == ps.wallsFor {
		return
	}
	for _, shape := range ps.walls {
		ps.space.RemoveShape(shape)
	}
	ps.walls = nil
	ps.wallsFor = lvl
	if lvl == nil {
		return
	}
	ps.walls = addLevelWalls(ps.space, lvl)
	ps.logger.Debug("level walls built", "level", lvl.Name, "shapes", len(ps.walls))
}

// addLevelWalls adds one static box per maximal rectangle of blocked cells,
// plus segments along the level bounds.
func addLevelWalls(space *cp.Space, lvl *component.Level) []*cp.Shape {
	penalties, proj := lvl.Penalties(), lvl.Projection()
	width, height := lvl.Width, lvl.Height
	if penalties == nil || proj == nil || width <= 0 || height <= 0 {
		return nil
	}
	blocked := func(x, y int) bool {
		return !astar.Walkable(penalties, astar.Coord{X: x, Y: y})
	}

	var shapes []*cp.Shape
	processed := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if processed[y*width+x] || !blocked(x, y) {
				continue
			}

			w := 1
			for x+w < width && !processed[y*width+x+w] && blocked(x+w, y) {
				w++
			}
			h := 1
		heightLoop:
			for y+h < height {
				for xi := x; xi < x+w; xi++ {
					if processed[(y+h)*width+xi] || !blocked(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}
			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*width+xx] = true
				}
			}

			lo := proj.CellToWorld(astar.Coord{X: x, Y: y})
			hi := proj.CellToWorld(astar.Coord{X: x + w, Y: y + h})
			bb := cp.BB{L: min(lo.X, hi.X), B: min(lo.Y, hi.Y), R: max(lo.X, hi.X), T: max(lo.Y, hi.Y)}
			shapes = append(shapes, addWall(space, cp.NewBox2(space.StaticBody, bb, 0)))
		}
	}

	b := lvl.Bounds
	if b.R > b.L && b.T > b.B {
		corners := []cp.Vector{{X: b.L, Y: b.B}, {X: b.R, Y: b.B}, {X: b.R, Y: b.T}, {X: b.L, Y: b.T}}
		for i := range corners {
			seg := cp.NewSegment(space.StaticBody, corners[i], corners[(i+1)%len(corners)], 0)
			shapes = append(shapes, addWall(space, seg))
		}
	}
	return shapes
}

func addWall(space *cp.Space, shape *cp.Shape) *cp.Shape {
	shape.SetFriction(0)
	shape.SetFilter(cp.NewShapeFilter(0, categoryWall, allCategories))
	return space.AddShape(shape)
}

// syncEntities creates bodies for new entities and removes those of entities
// that died or lost their PhysicsBody.
func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for e, pb := range ps.bodies {
		if cur, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && cur == pb {
			continue
		}
		if pb.Shape != nil {
			ps.space.RemoveShape(pb.Shape)
		}
		if pb.Body != nil {
			ps.space.RemoveBody(pb.Body)
		}
		pb.Body, pb.Shape = nil, nil
		delete(ps.bodies, e)
	}

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body != nil {
			return
		}
		radius := pb.Radius
		if radius <= 0 {
			radius = defaultBodyRadius
		}
		// infinite moment: agents never rotate
		body := ps.space.AddBody(cp.NewBody(1, cp.INFINITY))
		body.SetPosition(tr.Position())
		shape := cp.NewCircle(body, radius, cp.Vector{})
		shape.SetFriction(0)
		shape.SetFilter(cp.NewShapeFilter(0, categoryAgent, categoryWall))
		pb.Body = body
		pb.Shape = ps.space.AddShape(shape)
		pb.Shape.UserData = e
		ps.bodies[e] = pb
		ps.logger.Debug("physics body created", "entity", e, "radius", radius)
	})
}
