// Package levels loads tile levels from yaml and bakes their penalty maps.
package levels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyLevel       = errors.New("levels: level has no rows")
	ErrRaggedRows       = errors.New("levels: rows differ in width")
	ErrUnknownTile      = errors.New("levels: tile missing from legend")
	ErrBlockedPlacement = errors.New("levels: placement on a blocked or missing cell")
)

type CellSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c CellSpec) Coord() astar.Coord {
	return astar.Coord{X: c.X, Y: c.Y}
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type AgentPlacementSpec struct {
	Prefab    string         `yaml:"prefab"`
	X         int            `yaml:"x"`
	Y         int            `yaml:"y"`
	Overrides map[string]any `yaml:"overrides"`
}

// LevelSpec is the yaml shape of a level.
type LevelSpec struct {
	Name           string               `yaml:"name"`
	CellSize       float64              `yaml:"cell_size"`
	Origin         PointSpec            `yaml:"origin"`
	DefaultPenalty int                  `yaml:"default_penalty"`
	Legend         map[string]int       `yaml:"legend"`
	ObstacleTiles  string               `yaml:"obstacle_tiles"`
	PenaltyScript  string               `yaml:"penalty_script"`
	Rows           []string             `yaml:"rows"`
	Target         CellSpec             `yaml:"target"`
	SafePoints     []CellSpec           `yaml:"safe_points"`
	Agents         []AgentPlacementSpec `yaml:"agents"`
}

// AgentPlacement is an agent to spawn at Cell from the named prefab.
type AgentPlacement struct {
	Prefab    string
	Cell      astar.Coord
	Overrides map[string]any
}

// Level is a loaded level with its penalty layers baked.
type Level struct {
	Name   string
	Layout Layout
	Rows   []string
	Width  int
	Height int
	// Terrain holds per-cell movement cost; Obstacles marks item obstacles
	// with 0 and everything else with 1.
	Terrain    *astar.PenaltyGrid
	Obstacles  *astar.PenaltyGrid
	Penalties  astar.PenaltyMap
	Target     astar.Coord
	SafePoints []astar.Coord
	Agents     []AgentPlacement
}

// Load reads and builds a level such as "arena.yaml".
func Load(name string) (*Level, error) {
	data, err := Read(name)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return lvl, nil
}

// Parse decodes a level spec and builds it. A penalty_script path is read
// with Read.
func Parse(data []byte) (*Level, error) {
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	var script []byte
	if strings.TrimSpace(spec.PenaltyScript) != "" {
		src, err := Read(spec.PenaltyScript)
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", spec.PenaltyScript, err)
		}
		script = src
	}
	return Build(spec, script)
}

// Build turns a spec into a Level. script, when non-empty, is baked over the
// terrain layer after the legend is applied.
func Build(spec LevelSpec, script []byte) (*Level, error) {
	if len(spec.Rows) == 0 {
		return nil, ErrEmptyLevel
	}
	width := len(spec.Rows[0])
	for i, row := range spec.Rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, i, len(row), width)
		}
	}
	height := len(spec.Rows)

	terrain := astar.NewPenaltyGrid(astar.Coord{}, width, height, spec.DefaultPenalty)
	obstacles := astar.NewPenaltyGrid(astar.Coord{}, width, height, 1)
	for y, row := range spec.Rows {
		for x := 0; x < len(row); x++ {
			tile := string(row[x])
			c := astar.Coord{X: x, Y: y}
			if strings.Contains(spec.ObstacleTiles, tile) {
				obstacles.Set(c, 0)
				continue
			}
			cost, ok := spec.Legend[tile]
			if !ok {
				return nil, fmt.Errorf("%w: %q at %v", ErrUnknownTile, tile, c)
			}
			terrain.Set(c, cost)
		}
	}
	if len(script) > 0 {
		if err := BakeScript(script, spec.Rows, terrain); err != nil {
			return nil, err
		}
	}

	lvl := &Level{
		Name: spec.Name,
		Layout: Layout{
			Origin:   cp.Vector{X: spec.Origin.X, Y: spec.Origin.Y},
			CellSize: spec.CellSize,
		},
		Rows:      append([]string(nil), spec.Rows...),
		Width:     width,
		Height:    height,
		Terrain:   terrain,
		Obstacles: obstacles,
		Penalties: astar.Layered(terrain, obstacles),
		Target:    spec.Target.Coord(),
	}

	if !astar.Walkable(lvl.Penalties, lvl.Target) {
		return nil, fmt.Errorf("%w: target %v", ErrBlockedPlacement, lvl.Target)
	}
	for _, a := range spec.Agents {
		cell := astar.Coord{X: a.X, Y: a.Y}
		if !astar.Walkable(lvl.Penalties, cell) {
			return nil, fmt.Errorf("%w: agent %s at %v", ErrBlockedPlacement, a.Prefab, cell)
		}
		lvl.Agents = append(lvl.Agents, AgentPlacement{Prefab: a.Prefab, Cell: cell, Overrides: a.Overrides})
	}
	for _, sp := range spec.SafePoints {
		if !astar.Walkable(lvl.Penalties, sp.Coord()) {
			return nil, fmt.Errorf("%w: safe point %v", ErrBlockedPlacement, sp.Coord())
		}
		lvl.SafePoints = append(lvl.SafePoints, sp.Coord())
	}
	if len(lvl.SafePoints) == 0 {
		for _, a := range lvl.Agents {
			lvl.SafePoints = append(lvl.SafePoints, a.Cell)
		}
	}
	return lvl, nil
}

// Pathfinder returns a pathfinder over this level searching a width x height
// window.
func (l *Level) Pathfinder(width, height int) *astar.Pathfinder {
	return astar.NewPathfinder(width, height, l.Penalties, l.Layout)
}

// Bounds returns the level's world-space bounding box.
func (l *Level) Bounds() cp.BB {
	lo := l.Layout.CellToWorld(astar.Coord{})
	hi := l.Layout.CellToWorld(astar.Coord{X: l.Width, Y: l.Height})
	return cp.BB{L: lo.X, B: lo.Y, R: hi.X, T: hi.Y}
}

// CostRange returns the lowest and highest walkable penalty in the level, or
// zeros when nothing is walkable.
func (l *Level) CostRange() (lo, hi int) {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			cost, ok := l.Penalties.Penalty(astar.Coord{X: x, Y: y})
			if !ok || cost <= 0 {
				continue
			}
			if lo == 0 || cost < lo {
				lo = cost
			}
			if cost > hi {
				hi = cost
			}
		}
	}
	return lo, hi
}
