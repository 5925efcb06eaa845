// Package astar implements an 8-directional A* search over a fixed-size grid
// with additive per-cell movement penalties.
//
// A search runs over a GridIndex that it owns exclusively. Nodes link to
// their predecessor by NodeID, an index into that grid's node arena, so a
// finished search can be walked back from the goal with Extract. Open set
// ordering is fCost, then hCost, then insertion order, which keeps results
// reproducible for identical inputs.
//
// Pathfinder bundles a grid size, a PenaltyMap and a Projection into the
// BuildPath call agents use to request a route.
package astar
