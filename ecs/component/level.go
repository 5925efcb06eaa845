package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
)

// Level exposes the loaded level to systems: the search window, the penalty
// map and the world projection.
type Level struct {
	Name       string
	Pathfinder *astar.Pathfinder
	// SafePoints are walkable cells used when no walkable goal can be found
	// near the target.
	SafePoints []astar.Coord
	Bounds     cp.BB
	// Width and Height are the level size in cells, counted from cell (0,0).
	Width  int
	Height int
}

// Projection returns the level's cell/world projection, or nil.
func (l *Level) Projection() astar.Projection {
	if l == nil || l.Pathfinder == nil {
		return nil
	}
	return l.Pathfinder.Projection
}

// Penalties returns the level's penalty map, or nil.
func (l *Level) Penalties() astar.PenaltyMap {
	if l == nil || l.Pathfinder == nil {
		return nil
	}
	return l.Pathfinder.Penalties
}

var LevelComponent = NewComponent[Level]()
