package astar

import (
	"errors"
	"time"

	"github.com/jakecoffman/cp"
)

// ErrNilProjection is returned by BuildPath when no projection is configured.
var ErrNilProjection = errors.New("astar: nil projection")

// Projection converts between grid cells and world positions.
type Projection interface {
	CellToWorld(c Coord) cp.Vector
	WorldToCell(p cp.Vector) Coord
	// CellMidpoint is the offset from a cell's corner to its center.
	CellMidpoint() cp.Vector
}

// Pathfinder builds world-space routes over a fixed search window.
type Pathfinder struct {
	Width      int
	Height     int
	Penalties  PenaltyMap
	Projection Projection
	Profiler   Profiler
}

// NewPathfinder returns a Pathfinder searching a width x height window.
func NewPathfinder(width, height int, penalties PenaltyMap, projection Projection) *Pathfinder {
	return &Pathfinder{
		Width:      width,
		Height:     height,
		Penalties:  penalties,
		Projection: projection,
	}
}

// BuildPath finds a route from start to target on a fresh GridIndex and
// returns it as Steps. The first Pop yields start itself.
func (p *Pathfinder) BuildPath(start, target Coord) (Steps, error) {
	if p.Projection == nil {
		return nil, ErrNilProjection
	}

	var opts []Option
	began := time.Now()
	if p.Profiler != nil {
		opts = append(opts, WithProfiler(p.Profiler))
	}

	grid := NewGridIndex(p.Width, p.Height)
	goal, err := FindPath(start, target, grid, p.Penalties, opts...)
	if p.Profiler != nil {
		p.Profiler.RecordSearch(time.Since(began), err == nil)
	}
	if err != nil {
		return nil, err
	}
	return Extract(grid, goal, p.Projection.CellToWorld, p.Projection.CellMidpoint()), nil
}
