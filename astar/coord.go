package astar

import "fmt"

// Coord addresses a single grid cell.
type Coord struct {
	X int
	Y int
}

// Add returns the component-wise sum of c and o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

const (
	straightCost = 10
	diagonalCost = 14
)

// Distance returns the octile distance between a and b in integer units:
// 10 per straight step and 14 per diagonal step.
func Distance(a, b Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return diagonalCost*dy + straightCost*(dx-dy)
	}
	return diagonalCost*dx + straightCost*(dy-dx)
}

// neighborOffsets is the fixed expansion order, x outer and y inner.
var neighborOffsets = [...]Coord{
	{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 0, Y: 1},
	{X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
}

// NeighborOffsets returns the 8 offsets surrounding a cell.
func NeighborOffsets() [8]Coord {
	return neighborOffsets
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
