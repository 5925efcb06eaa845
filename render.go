package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/common"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/sim"
)

var (
	colorBlocked = color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}
	colorTarget  = color.NRGBA{R: 0xf0, G: 0xd0, B: 0x30, A: 0xff}
	colorPath    = color.NRGBA{R: 0x60, G: 0xc0, B: 0xff, A: 0xc0}
	colorSafe    = color.NRGBA{R: 0x40, G: 0xa0, B: 0x40, A: 0xff}

	modeColors = map[component.NavMode]color.NRGBA{
		component.NavIdle:       {R: 0x90, G: 0x90, B: 0x90, A: 0xff},
		component.NavPatrolling: {R: 0x40, G: 0x90, B: 0xf0, A: 0xff},
		component.NavChasing:    {R: 0xe0, G: 0x40, B: 0x40, A: 0xff},
	}
)

func toScreen(view debugView, p cp.Vector) (float32, float32) {
	return float32(p.X*view.Scale + view.Offset.X), float32(p.Y*view.Scale + view.Offset.Y)
}

// penaltyColor shades walkable cells from light (cheapest) to dark.
func penaltyColor(cost, lo, hi int) color.NRGBA {
	var t float32
	if hi > lo {
		t = common.Clamp01(float32(cost-lo) / float32(hi-lo))
	}
	shade := uint8(common.Lerp(0xd8, 0x70, t))
	return color.NRGBA{R: shade, G: shade, B: uint8(common.Lerp(0xc8, 0x60, t)), A: 0xff}
}

func drawLevel(screen *ebiten.Image, lvl *levels.Level, view debugView) {
	size := float32(lvl.Layout.CellSize * view.Scale)
	lo, hi := lvl.CostRange()
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			c := astar.Coord{X: x, Y: y}
			sx, sy := toScreen(view, lvl.Layout.CellToWorld(c))
			col := colorBlocked
			if cost, ok := lvl.Penalties.Penalty(c); ok && cost > 0 {
				col = penaltyColor(cost, lo, hi)
			}
			vector.FillRect(screen, sx, sy, size, size, col, false)
		}
	}
	for _, sp := range lvl.SafePoints {
		sx, sy := toScreen(view, lvl.Layout.CellCenter(sp))
		vector.StrokeCircle(screen, sx, sy, size*0.25, 1, colorSafe, true)
	}
}

func drawAgents(screen *ebiten.Image, s *sim.Sim, view debugView, debug bool) {
	scale := float32(view.Scale * s.Level.Layout.CellSize)

	tx, ty := toScreen(view, s.TargetPosition())
	vector.FillCircle(screen, tx, ty, scale*0.3, colorTarget, true)

	for _, a := range s.Agents() {
		ax, ay := toScreen(view, a.Position)
		px, py := ax, ay
		for _, p := range a.Path {
			nx, ny := toScreen(view, p)
			vector.StrokeLine(screen, px, py, nx, ny, 2, colorPath, true)
			px, py = nx, ny
		}
		if debug && a.Mode == component.NavChasing {
			gx, gy := toScreen(view, s.Level.Layout.CellCenter(a.Goal))
			vector.StrokeRect(screen, gx-scale/2, gy-scale/2, scale, scale, 1, colorPath, false)
		}
		col, ok := modeColors[a.Mode]
		if !ok {
			col = modeColors[component.NavIdle]
		}
		vector.FillCircle(screen, ax, ay, scale*0.35, col, true)
	}
}
