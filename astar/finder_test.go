package astar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b Coord
		want int
	}{
		{"same", Coord{2, 2}, Coord{2, 2}, 0},
		{"straight", Coord{0, 0}, Coord{5, 0}, 50},
		{"diagonal", Coord{0, 0}, Coord{3, 3}, 42},
		{"mixed", Coord{0, 0}, Coord{3, 4}, 52},
		{"symmetric", Coord{3, 4}, Coord{0, 0}, 52},
		{"negative", Coord{-2, 1}, Coord{1, -1}, 38},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Distance(c.a, c.b))
		})
	}
}

func TestFindPathOpenGridMatchesOctileDistance(t *testing.T) {
	const penalty = 3
	pairs := []struct {
		start, goal Coord
	}{
		{Coord{0, 0}, Coord{9, 0}},
		{Coord{0, 0}, Coord{9, 9}},
		{Coord{2, 7}, Coord{8, 1}},
		{Coord{5, 5}, Coord{1, 3}},
		{Coord{9, 2}, Coord{0, 6}},
	}
	for _, p := range pairs {
		t.Run(p.start.String()+"->"+p.goal.String(), func(t *testing.T) {
			grid := NewGridIndex(10, 10)
			goal, err := FindPath(p.start, p.goal, grid, uniformMap(10, 10, penalty))
			require.NoError(t, err)
			require.Equal(t, p.goal, goal.Coord)

			cells := trace(grid, goal)
			steps := len(cells) - 1
			require.Equal(t, chebyshev(p.start, p.goal), steps)

			travelled := 0
			for i := 0; i < steps; i++ {
				travelled += Distance(cells[i], cells[i+1])
			}
			require.Equal(t, Distance(p.start, p.goal), travelled)
			require.Equal(t, travelled+penalty*steps, goal.GCost)
		})
	}
}

func TestFindPathUniformPenaltyScenario(t *testing.T) {
	grid := NewGridIndex(10, 10)
	goal, err := FindPath(Coord{0, 0}, Coord{3, 4}, grid, uniformMap(10, 10, 10))
	require.NoError(t, err)

	cells := trace(grid, goal)
	require.Len(t, cells, 5, "expected 4 steps after the start cell")
	require.Equal(t, 52, Distance(Coord{0, 0}, Coord{3, 4}))
	require.Equal(t, 52+4*10, goal.GCost)
	require.Equal(t, 0, goal.HCost)
	require.Equal(t, Coord{0, 0}, cells[len(cells)-1])
}

func TestFindPathNeverEntersBlockedCells(t *testing.T) {
	// Vertical wall at x=4 with a single gap at y=8.
	var wall []Coord
	for y := 0; y < 10; y++ {
		if y == 8 {
			continue
		}
		wall = append(wall, Coord{4, y})
	}
	penalties := uniformMap(10, 10, 1, wall...)

	grid := NewGridIndex(10, 10)
	goal, err := FindPath(Coord{1, 1}, Coord{8, 1}, grid, penalties)
	require.NoError(t, err)

	cells := trace(grid, goal)
	require.Contains(t, cells, Coord{4, 8})
	for _, c := range cells {
		require.True(t, Walkable(penalties, c), "path entered blocked cell %v", c)
	}
}

func TestFindPathStartEqualsGoal(t *testing.T) {
	grid := NewGridIndex(5, 5)
	goal, err := FindPath(Coord{2, 2}, Coord{2, 2}, grid, uniformMap(5, 5, 1))
	require.NoError(t, err)
	require.Equal(t, NoParent, goal.Parent)
	require.Equal(t, 0, goal.GCost)

	steps := Extract(grid, goal, gridProjection{size: 1}.CellToWorld, gridProjection{size: 1}.CellMidpoint())
	require.Equal(t, 1, steps.Len())
	_, ok := steps.Pop()
	require.True(t, ok)
	require.Zero(t, steps.Len(), "no movement steps once the start cell is popped")
}

func TestFindPathUnreachableTerminates(t *testing.T) {
	goalCell := Coord{5, 5}
	var ring []Coord
	for _, off := range NeighborOffsets() {
		ring = append(ring, goalCell.Add(off))
	}
	penalties := uniformMap(10, 10, 1, ring...)

	var metrics SearchMetrics
	grid := NewGridIndex(10, 10)
	goal, err := FindPath(Coord{0, 0}, goalCell, grid, penalties, WithProfiler(metrics.Profiler()))
	require.ErrorIs(t, err, ErrNoPath)
	require.Nil(t, goal)

	snap := metrics.Snapshot()
	require.LessOrEqual(t, snap.NodesExpanded, int64(10*10))
	require.Equal(t, int64(100-len(ring)-1), snap.NodesExpanded)
}

func TestFindPathBlockedGoal(t *testing.T) {
	grid := NewGridIndex(6, 6)
	_, err := FindPath(Coord{0, 0}, Coord{5, 5}, grid, uniformMap(6, 6, 1, Coord{5, 5}))
	require.ErrorIs(t, err, ErrNoPath)
}

func TestFindPathRejectsInvalidInput(t *testing.T) {
	penalties := uniformMap(4, 4, 1)
	cases := []struct {
		name        string
		start, goal Coord
		grid        *GridIndex
		penalties   PenaltyMap
		want        error
	}{
		{"start_outside", Coord{-1, 0}, Coord{1, 1}, NewGridIndex(4, 4), penalties, ErrOutOfBounds},
		{"goal_outside", Coord{0, 0}, Coord{4, 1}, NewGridIndex(4, 4), penalties, ErrOutOfBounds},
		{"empty_grid", Coord{0, 0}, Coord{0, 0}, NewGridIndex(0, 4), penalties, ErrOutOfBounds},
		{"nil_grid", Coord{0, 0}, Coord{1, 1}, nil, penalties, ErrNilGrid},
		{"nil_penalties", Coord{0, 0}, Coord{1, 1}, NewGridIndex(4, 4), nil, ErrNilPenalty},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := FindPath(c.start, c.goal, c.grid, c.penalties)
			require.ErrorIs(t, err, c.want)
		})
	}
}

func TestFindPathPrefersLowerHeuristicOnEqualCost(t *testing.T) {
	// (1,0) and (1,1) both reach the goal for 26; (1,1) sits closer to it.
	grid := NewGridIndex(4, 4)
	goal, err := FindPath(Coord{0, 0}, Coord{2, 1}, grid, uniformMap(4, 4, 1))
	require.NoError(t, err)
	require.Equal(t, 26, goal.GCost)
	require.Equal(t, []Coord{{2, 1}, {1, 1}, {0, 0}}, trace(grid, goal))
}

func TestFindPathBreaksFullTiesByInsertionOrder(t *testing.T) {
	// The blocked centre leaves two mirror-image routes; (0,1) is inserted first.
	grid := NewGridIndex(3, 3)
	goal, err := FindPath(Coord{1, 0}, Coord{1, 2}, grid, uniformMap(3, 3, 1, Coord{1, 1}))
	require.NoError(t, err)
	require.Equal(t, []Coord{{1, 2}, {0, 1}, {1, 0}}, trace(grid, goal))
}

func TestFindPathIsReproducibleOnReusedGrid(t *testing.T) {
	penalties := uniformMap(12, 12, 2, Coord{5, 4}, Coord{5, 5}, Coord{5, 6}, Coord{6, 6})
	grid := NewGridIndex(12, 12)

	first, err := FindPath(Coord{1, 5}, Coord{10, 6}, grid, penalties)
	require.NoError(t, err)
	firstCells := trace(grid, first)
	firstCost := first.GCost

	second, err := FindPath(Coord{1, 5}, Coord{10, 6}, grid, penalties)
	require.NoError(t, err)
	require.Equal(t, firstCells, trace(grid, second))
	require.Equal(t, firstCost, second.GCost)
}

func TestFindPathHonoursObstacleLayer(t *testing.T) {
	terrain := uniformMap(5, 3, 1)
	items := NewPenaltyGrid(Coord{}, 5, 3, 1)
	for y := 0; y < 3; y++ {
		items.Set(Coord{2, y}, 0)
	}

	grid := NewGridIndex(5, 3)
	_, err := FindPath(Coord{0, 1}, Coord{4, 1}, grid, Layered(terrain, items))
	require.ErrorIs(t, err, ErrNoPath)

	items.Set(Coord{2, 0}, 7)
	goal, err := FindPath(Coord{0, 1}, Coord{4, 1}, grid, Layered(terrain, items))
	require.NoError(t, err)
	require.Contains(t, trace(grid, goal), Coord{2, 0})
}
