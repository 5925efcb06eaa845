package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/common"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
)

const debugCircleSegments = 24

// debugView maps world units to screen pixels: screen = world*Scale + Offset.
type debugView struct {
	Offset cp.Vector
	Scale  float64
}

// Outline colors for agent bodies by navigation mode.
var modeDebugColors = map[component.NavMode]cp.FColor{
	component.NavIdle:       {R: 0.7, G: 0.7, B: 0.7, A: 0.9},
	component.NavPatrolling: {R: 0.2, G: 0.6, B: 1, A: 0.9},
	component.NavChasing:    {R: 1, G: 0.25, B: 0.2, A: 0.9},
}

// drawPhysicsDebug outlines every body in space, colored by the owning
// agent's navigation mode, and marks each body's velocity.
func drawPhysicsDebug(w *ecs.World, space *cp.Space, screen *ebiten.Image, view debugView) {
	if space == nil || screen == nil {
		return
	}
	if view.Scale <= 0 {
		view.Scale = 1
	}
	cp.DrawSpace(space, &physicsDebugDrawer{world: w, screen: screen, view: view})
}

// physicsDebugDrawer implements cp.Drawer. Agent bodies are circles, so
// the other shape kinds only get plain outlines.
type physicsDebugDrawer struct {
	world  *ecs.World
	screen *ebiten.Image
	view   debugView
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, debugCircleSegments)
	for i := range points {
		t := 2 * math.Pi * float64(i) / debugCircleSegments
		points[i] = pos.Add(cp.ForAngle(t).Mult(radius))
	}
	d.drawLoop(points, fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count > 0 {
		d.drawLoop(verts[:count], outline)
	}
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.toScreen(pos)
	vector.FillCircle(d.screen, x, y, float32(size)/2, toNRGBA(fill), true)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor looks up the agent stored in the shape's user data.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	idle := modeDebugColors[component.NavIdle]
	e, ok := shape.UserData.(ecs.Entity)
	if !ok || d.world == nil {
		return idle
	}
	nav, ok := ecs.Get(d.world, e, component.NavigationComponent.Kind())
	if !ok {
		return idle
	}
	if c, ok := modeDebugColors[nav.Mode]; ok {
		if body := shape.Body(); body != nil && body.Velocity().LengthSq() > 0 {
			d.drawLine(body.Position(), body.Position().Add(body.Velocity().Mult(0.25)), c)
		}
		return c
	}
	return idle
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawLoop(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X*d.view.Scale + d.view.Offset.X), float32(v.Y*d.view.Scale + d.view.Offset.Y)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(common.Clamp01(c.R) * 255),
		G: uint8(common.Clamp01(c.G) * 255),
		B: uint8(common.Clamp01(c.B) * 255),
		A: uint8(common.Clamp01(c.A) * 255),
	}
}
