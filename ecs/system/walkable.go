package system

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
)

// DefaultFallback is returned when neither the target cell, its neighbours
// nor any safe point can be used.
var DefaultFallback = astar.Coord{}

// WalkableResolver picks a walkable cell at or next to a world position.
type WalkableResolver struct {
	Penalties  astar.PenaltyMap
	Projection astar.Projection
	// SafePoints are tried, nearest first, when the whole neighbourhood
	// is blocked.
	SafePoints []astar.Coord
	Rand       *rand.Rand
	Logger     *log.Logger
}

// Nearest returns target's cell when it is walkable, else a random walkable
// neighbour, else the nearest safe point, else DefaultFallback.
func (r *WalkableResolver) Nearest(target cp.Vector) astar.Coord {
	if r.Projection == nil {
		return DefaultFallback
	}
	cell := r.Projection.WorldToCell(target)
	if astar.Walkable(r.Penalties, cell) {
		return cell
	}

	offsets := astar.NeighborOffsets()
	for _, i := range r.perm(len(offsets)) {
		candidate := cell.Add(offsets[i])
		if astar.Walkable(r.Penalties, candidate) {
			return candidate
		}
	}

	fallback, ok := r.nearestSafePoint(cell)
	if !ok {
		fallback = DefaultFallback
	}
	if r.Logger != nil {
		r.Logger.Debug("no walkable cell near target", "target", cell, "fallback", fallback, "safe_point", ok)
	}
	return fallback
}

func (r *WalkableResolver) perm(n int) []int {
	if r.Rand == nil {
		return rand.Perm(n)
	}
	return r.Rand.Perm(n)
}

func (r *WalkableResolver) nearestSafePoint(from astar.Coord) (astar.Coord, bool) {
	best, bestDist, found := astar.Coord{}, 0, false
	for _, sp := range r.SafePoints {
		if !astar.Walkable(r.Penalties, sp) {
			continue
		}
		d := astar.Distance(from, sp)
		if !found || d < bestDist {
			best, bestDist, found = sp, d, true
		}
	}
	return best, found
}
