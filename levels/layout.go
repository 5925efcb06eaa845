package levels

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
)

// Layout maps grid cells to world space. Cell (0,0) has its corner at Origin.
type Layout struct {
	Origin   cp.Vector
	CellSize float64
}

func (l Layout) size() float64 {
	if l.CellSize <= 0 {
		return 1
	}
	return l.CellSize
}

func (l Layout) CellToWorld(c astar.Coord) cp.Vector {
	s := l.size()
	return cp.Vector{X: l.Origin.X + float64(c.X)*s, Y: l.Origin.Y + float64(c.Y)*s}
}

func (l Layout) WorldToCell(p cp.Vector) astar.Coord {
	s := l.size()
	return astar.Coord{
		X: int(math.Floor((p.X - l.Origin.X) / s)),
		Y: int(math.Floor((p.Y - l.Origin.Y) / s)),
	}
}

func (l Layout) CellMidpoint() cp.Vector {
	h := l.size() / 2
	return cp.Vector{X: h, Y: h}
}

// CellCenter returns the world position of c's center.
func (l Layout) CellCenter(c astar.Coord) cp.Vector {
	return l.CellToWorld(c).Add(l.CellMidpoint())
}
