package astar

import (
	"math"

	"github.com/jakecoffman/cp"
)

type gridProjection struct {
	size float64
}

func (p gridProjection) CellToWorld(c Coord) cp.Vector {
	return cp.Vector{X: float64(c.X) * p.size, Y: float64(c.Y) * p.size}
}

func (p gridProjection) WorldToCell(v cp.Vector) Coord {
	return Coord{X: int(math.Floor(v.X / p.size)), Y: int(math.Floor(v.Y / p.size))}
}

func (p gridProjection) CellMidpoint() cp.Vector {
	return cp.Vector{X: p.size * 0.5, Y: p.size * 0.5}
}

// uniformMap builds a width x height map with every cell set to cost and the
// listed cells blocked.
func uniformMap(width, height, cost int, blocked ...Coord) *PenaltyGrid {
	p := NewPenaltyGrid(Coord{}, width, height, cost)
	for _, c := range blocked {
		p.Set(c, 0)
	}
	return p
}

func chebyshev(a, b Coord) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}
