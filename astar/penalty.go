package astar

// PenaltyMap reports the cost of entering a cell. A value of 0 marks the cell
// impassable; ok is false when c lies outside the map.
type PenaltyMap interface {
	Penalty(c Coord) (cost int, ok bool)
}

// Walkable reports whether c exists in p with a positive penalty.
func Walkable(p PenaltyMap, c Coord) bool {
	if p == nil {
		return false
	}
	cost, ok := p.Penalty(c)
	return ok && cost > 0
}

// PenaltyGrid is a dense PenaltyMap. Origin is the grid coordinate stored at
// index (0,0), so levels whose cells start away from zero index correctly.
type PenaltyGrid struct {
	Origin Coord
	width  int
	height int
	cells  []int
}

// NewPenaltyGrid returns a width x height map with every cell set to fill.
func NewPenaltyGrid(origin Coord, width, height, fill int) *PenaltyGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	p := &PenaltyGrid{
		Origin: origin,
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
	p.Fill(fill)
	return p
}

// Width returns the number of columns.
func (p *PenaltyGrid) Width() int { return p.width }

// Height returns the number of rows.
func (p *PenaltyGrid) Height() int { return p.height }

// Bounds returns the inclusive lower and upper cell coordinates covered.
func (p *PenaltyGrid) Bounds() (Coord, Coord) {
	return p.Origin, Coord{X: p.Origin.X + p.width - 1, Y: p.Origin.Y + p.height - 1}
}

func (p *PenaltyGrid) index(c Coord) (int, bool) {
	if p == nil {
		return 0, false
	}
	x := c.X - p.Origin.X
	y := c.Y - p.Origin.Y
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return 0, false
	}
	return y*p.width + x, true
}

// Penalty implements PenaltyMap.
func (p *PenaltyGrid) Penalty(c Coord) (int, bool) {
	idx, ok := p.index(c)
	if !ok {
		return 0, false
	}
	return p.cells[idx], true
}

// Set stores cost at c and reports whether c was inside the map.
func (p *PenaltyGrid) Set(c Coord, cost int) bool {
	idx, ok := p.index(c)
	if !ok {
		return false
	}
	p.cells[idx] = cost
	return true
}

// Fill sets every cell to cost.
func (p *PenaltyGrid) Fill(cost int) {
	for i := range p.cells {
		p.cells[i] = cost
	}
}

type layered struct {
	terrain   PenaltyMap
	obstacles []PenaltyMap
}

// Layered combines a terrain layer with item-obstacle layers. A zero in any
// layer blocks the cell; otherwise the terrain value is the cost. Obstacle
// layers that do not cover a cell leave it untouched.
func Layered(terrain PenaltyMap, obstacles ...PenaltyMap) PenaltyMap {
	return layered{terrain: terrain, obstacles: obstacles}
}

func (l layered) Penalty(c Coord) (int, bool) {
	if l.terrain == nil {
		return 0, false
	}
	cost, ok := l.terrain.Penalty(c)
	if !ok || cost <= 0 {
		return cost, ok
	}
	for _, layer := range l.obstacles {
		if layer == nil {
			continue
		}
		if v, ok := layer.Penalty(c); ok && v <= 0 {
			return 0, true
		}
	}
	return cost, true
}
