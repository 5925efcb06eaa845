package astar

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPath is returned when the open set empties before reaching the goal.
	ErrNoPath = errors.New("astar: no path")
	// ErrOutOfBounds is returned when start or goal lies outside the search grid.
	ErrOutOfBounds = errors.New("astar: coordinate outside search grid")
	ErrNilGrid     = errors.New("astar: nil grid index")
	ErrNilPenalty  = errors.New("astar: nil penalty map")
)

type options struct {
	profiler Profiler
}

// Option configures a single FindPath call.
type Option func(*options)

// WithProfiler reports search instrumentation to p.
func WithProfiler(p Profiler) Option {
	return func(o *options) { o.profiler = p }
}

// FindPath searches grid from start to goal and returns the goal node with its
// parent chain linked back to start. Unreachable goals yield ErrNoPath.
//
// Cells whose penalty is non-positive, or that fall outside penalties, are
// never entered. The start cell itself is not checked so an agent standing on
// a blocked tile can still leave it.
func FindPath(start, goal Coord, grid *GridIndex, penalties PenaltyMap, opts ...Option) (*Node, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}
	if penalties == nil {
		return nil, ErrNilPenalty
	}
	if !grid.InBounds(start) {
		return nil, fmt.Errorf("%w: start %v in %dx%d", ErrOutOfBounds, start, grid.width, grid.height)
	}
	if !grid.InBounds(goal) {
		return nil, fmt.Errorf("%w: goal %v in %dx%d", ErrOutOfBounds, goal, grid.width, grid.height)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	profiler := o.profiler

	if grid.used {
		grid.Reset()
	}
	grid.used = true

	startID, _ := grid.ID(start)
	goalID, _ := grid.ID(goal)

	root := &grid.nodes[startID]
	root.GCost = 0
	root.HCost = Distance(start, goal)
	root.Parent = NoParent

	open := &openSet{grid: grid, items: make([]NodeID, 0, 64)}
	open.insert(startID)

	for open.Len() > 0 {
		currentID := open.popMin()
		current := &grid.nodes[currentID]
		if profiler != nil {
			profiler.RecordNodeExpanded()
		}
		if currentID == goalID {
			return current, nil
		}

		generated := 0
		for _, offset := range neighborOffsets {
			coord := current.Coord.Add(offset)
			id, ok := grid.ID(coord)
			if !ok {
				continue
			}
			neighbor := &grid.nodes[id]
			if neighbor.state == nodeClosed {
				continue
			}
			penalty, ok := penalties.Penalty(coord)
			if !ok || penalty <= 0 {
				continue
			}
			generated++

			tentative := current.GCost + Distance(current.Coord, coord) + penalty
			inOpen := open.contains(id)
			if inOpen && tentative >= neighbor.GCost {
				continue
			}

			neighbor.GCost = tentative
			neighbor.HCost = Distance(coord, goal)
			neighbor.Parent = currentID
			if profiler != nil {
				profiler.RecordHeuristicEvaluation()
			}
			if inOpen {
				open.fix(id)
			} else {
				open.insert(id)
			}
		}
		if profiler != nil {
			profiler.RecordNeighborGeneration(generated)
		}
	}

	return nil, ErrNoPath
}
