package levels

import (
	"errors"
	"strings"
	"testing"

	"github.com/d5/tengo/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
)

func TestLoadArena(t *testing.T) {
	lvl, err := Load("arena.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lvl.Width != 20 || lvl.Height != 15 {
		t.Fatalf("unexpected size %dx%d", lvl.Width, lvl.Height)
	}
	if lvl.Target != (astar.Coord{X: 17, Y: 10}) {
		t.Fatalf("unexpected target %v", lvl.Target)
	}
	if len(lvl.Agents) != 3 || len(lvl.SafePoints) != 3 {
		t.Fatalf("expected 3 agents and 3 safe points, got %d/%d", len(lvl.Agents), len(lvl.SafePoints))
	}
	if lvl.Agents[1].Overrides["move_speed"] != 3.5 {
		t.Fatalf("expected move_speed override, got %v", lvl.Agents[1].Overrides)
	}

	cases := []struct {
		name string
		cell astar.Coord
		cost int
	}{
		{"wall", astar.Coord{X: 0, Y: 0}, 0},
		{"floor_near_wall", astar.Coord{X: 1, Y: 1}, 15},
		{"mud_near_wall", astar.Coord{X: 9, Y: 1}, 45},
		{"plank", astar.Coord{X: 5, Y: 5}, 20},
		{"open_floor", astar.Coord{X: 5, Y: 3}, 10},
		{"item_obstacle", astar.Coord{X: 9, Y: 4}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cost, ok := lvl.Penalties.Penalty(c.cell)
			if !ok || cost != c.cost {
				t.Fatalf("Penalty(%v) = %d,%v want %d", c.cell, cost, ok, c.cost)
			}
		})
	}

	// The obstacle layer is independent of terrain.
	if cost, _ := lvl.Terrain.Penalty(astar.Coord{X: 9, Y: 4}); cost != 10 {
		t.Fatalf("terrain under an item obstacle should stay floor, got %d", cost)
	}

	bb := lvl.Bounds()
	if bb.R != 20 || bb.T != 15 || bb.L != 0 || bb.B != 0 {
		t.Fatalf("unexpected bounds %+v", bb)
	}
}

func TestArenaPathAvoidsBlockedCells(t *testing.T) {
	lvl, err := Load("arena.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pf := lvl.Pathfinder(100, 100)
	steps, err := pf.BuildPath(lvl.Agents[0].Cell, lvl.Target)
	if err != nil {
		t.Fatalf("BuildPath: %v", err)
	}
	if steps.Len() < 2 {
		t.Fatalf("expected a multi-step path, got %d", steps.Len())
	}
	for _, v := range steps {
		c := lvl.Layout.WorldToCell(v)
		if !astar.Walkable(lvl.Penalties, c) {
			t.Fatalf("path crosses blocked cell %v", c)
		}
	}
}

func TestLayoutProjection(t *testing.T) {
	l := Layout{Origin: cp.Vector{X: -4, Y: 2}, CellSize: 2}
	cases := []struct {
		world cp.Vector
		cell  astar.Coord
	}{
		{cp.Vector{X: -4, Y: 2}, astar.Coord{X: 0, Y: 0}},
		{cp.Vector{X: -2.1, Y: 3.9}, astar.Coord{X: 0, Y: 0}},
		{cp.Vector{X: 0, Y: 6}, astar.Coord{X: 2, Y: 2}},
		{cp.Vector{X: -4.5, Y: 1}, astar.Coord{X: -1, Y: -1}},
	}
	for _, c := range cases {
		if got := l.WorldToCell(c.world); got != c.cell {
			t.Fatalf("WorldToCell(%v) = %v want %v", c.world, got, c.cell)
		}
	}
	if got := l.CellCenter(astar.Coord{X: 1, Y: 1}); got != (cp.Vector{X: -1, Y: 5}) {
		t.Fatalf("CellCenter = %v", got)
	}
	if got := (Layout{}).CellMidpoint(); got != (cp.Vector{X: 0.5, Y: 0.5}) {
		t.Fatalf("zero cell size should default to 1, got %v", got)
	}
}

func TestBuildErrors(t *testing.T) {
	legend := map[string]int{"#": 0, ".": 1}
	cases := []struct {
		name string
		spec LevelSpec
		want error
	}{
		{"empty", LevelSpec{}, ErrEmptyLevel},
		{"ragged", LevelSpec{Legend: legend, Rows: []string{"...", ".."}}, ErrRaggedRows},
		{"unknown_tile", LevelSpec{Legend: legend, Rows: []string{"..?"}}, ErrUnknownTile},
		{"blocked_target", LevelSpec{Legend: legend, Rows: []string{"#.."}}, ErrBlockedPlacement},
		{"blocked_agent", LevelSpec{
			Legend: legend,
			Rows:   []string{"..#"},
			Agents: []AgentPlacementSpec{{Prefab: "chaser.yaml", X: 2}},
		}, ErrBlockedPlacement},
		{"safe_point_outside", LevelSpec{
			Legend:     legend,
			Rows:       []string{"..."},
			SafePoints: []CellSpec{{X: 5}},
		}, ErrBlockedPlacement},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Build(c.spec, nil)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestSafePointsDefaultToSpawns(t *testing.T) {
	lvl, err := Build(LevelSpec{
		Legend: map[string]int{".": 1},
		Rows:   []string{"....", "...."},
		Agents: []AgentPlacementSpec{{Prefab: "a", X: 3, Y: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(lvl.SafePoints) != 1 || lvl.SafePoints[0] != (astar.Coord{X: 3, Y: 1}) {
		t.Fatalf("expected spawn as safe point, got %v", lvl.SafePoints)
	}
}

func TestCostRange(t *testing.T) {
	lvl, err := Build(LevelSpec{
		Legend: map[string]int{"#": 0, ".": 2, "~": 7},
		Rows:   []string{".#.", "~.#"},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if lo, hi := lvl.CostRange(); lo != 2 || hi != 7 {
		t.Fatalf("expected range [2,7], got [%d,%d]", lo, hi)
	}

	flat, err := Build(LevelSpec{Legend: map[string]int{".": 3}, Rows: []string{"..."}}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if lo, hi := flat.CostRange(); lo != 3 || hi != 3 {
		t.Fatalf("expected range [3,3], got [%d,%d]", lo, hi)
	}
}

func TestBakeScript(t *testing.T) {
	rows := []string{"ab", "cd"}
	cases := []struct {
		name string
		src  string
		want []int
		err  error
	}{
		{
			name: "coordinates",
			src:  `penalty := func(x, y, base, tile) { return base + x + 10*y }`,
			want: []int{5, 6, 15, 16},
		},
		{
			name: "tile_and_size",
			src: `penalty := func(x, y, base, tile) {
	if tile == "d" { return width * height }
	return base
}`,
			want: []int{5, 5, 5, 4},
		},
		{
			name: "negative_blocks",
			src:  `penalty := func(x, y, base, tile) { return x - 1 }`,
			want: []int{0, 0, 0, 0},
		},
		{
			name: "stdlib_import",
			src: `math := import("math")
penalty := func(x, y, base, tile) { return int(math.abs(x - 1)) + 1 }`,
			want: []int{2, 1, 2, 1},
		},
		{
			name: "non_int_result",
			src:  `penalty := func(x, y, base, tile) { return "x" }`,
			err:  ErrScriptResult,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			grid := astar.NewPenaltyGrid(astar.Coord{}, 2, 2, 5)
			err := BakeScript([]byte(c.src), rows, grid)
			if c.err != nil {
				if !errors.Is(err, c.err) {
					t.Fatalf("expected %v, got %v", c.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BakeScript: %v", err)
			}
			var got []int
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					v, _ := grid.Penalty(astar.Coord{X: x, Y: y})
					got = append(got, v)
				}
			}
			for i := range c.want {
				if got[i] != c.want[i] {
					t.Fatalf("cell %d: got %v want %v", i, got, c.want)
				}
			}
		})
	}

	if err := BakeScript([]byte("penalty := func("), rows, astar.NewPenaltyGrid(astar.Coord{}, 1, 1, 1)); err == nil {
		t.Fatalf("expected compile error")
	}
	if err := BakeScript(nil, rows, nil); !errors.Is(err, astar.ErrNilPenalty) {
		t.Fatalf("expected ErrNilPenalty, got %v", err)
	}
}

func TestAddGlobalsReportsRejectedValue(t *testing.T) {
	script := tengo.NewScript([]byte(`out := width`))
	err := addGlobals(script, []scriptGlobal{
		{"width", 3},
		{"bad", make(chan int)},
		{"height", 4},
	})
	if err == nil || !strings.Contains(err.Error(), "global bad") {
		t.Fatalf("expected error naming the rejected global, got %v", err)
	}

	script = tengo.NewScript([]byte(`out := width * height`))
	if err := addGlobals(script, []scriptGlobal{{"width", 3}, {"height", 4}}); err != nil {
		t.Fatalf("addGlobals: %v", err)
	}
	compiled, err := script.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := compiled.Get("out").Int(); got != 12 {
		t.Fatalf("out = %d, want 12", got)
	}
}
