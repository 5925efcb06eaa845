package astar

import "github.com/jakecoffman/cp"

// Steps is a world-space route stored goal first. It is consumed as a stack:
// Pop yields the start cell first and the goal last.
type Steps []cp.Vector

// Len returns the number of remaining steps.
func (s Steps) Len() int { return len(s) }

// Peek returns the next step without removing it.
func (s Steps) Peek() (cp.Vector, bool) {
	if len(s) == 0 {
		return cp.Vector{}, false
	}
	return s[len(s)-1], true
}

// Pop removes and returns the next step.
func (s *Steps) Pop() (cp.Vector, bool) {
	if s == nil || len(*s) == 0 {
		return cp.Vector{}, false
	}
	old := *s
	v := old[len(old)-1]
	*s = old[:len(old)-1]
	return v, true
}

// Extract walks goal back to the root of its chain and projects each cell to
// world space as cellToWorld(cell) + midpoint. A nil goal yields no steps.
func Extract(grid *GridIndex, goal *Node, cellToWorld func(Coord) cp.Vector, midpoint cp.Vector) Steps {
	if grid == nil || goal == nil || cellToWorld == nil {
		return nil
	}
	cells := trace(grid, goal)
	steps := make(Steps, len(cells))
	for i, c := range cells {
		steps[i] = cellToWorld(c).Add(midpoint)
	}
	return steps
}

// trace returns the cells of goal's chain, goal first.
func trace(grid *GridIndex, goal *Node) []Coord {
	if grid == nil || goal == nil {
		return nil
	}
	cells := make([]Coord, 0, 32)
	for n := goal; n != nil; n = grid.Parent(n) {
		cells = append(cells, n.Coord)
	}
	return cells
}
