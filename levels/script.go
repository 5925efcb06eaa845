package levels

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/gridchase/astar"
)

var ErrScriptResult = errors.New("levels: penalty script must return an int")

// Scripts define `penalty := func(x, y, base, tile) { ... }`; the dispatch
// below stores the result for the host to read. `width` and `height` are
// available as globals.
const penaltyDispatchScript = `
__out := penalty(__x, __y, __base, __tile)
`

// BakeScript runs a tengo penalty script once per cell of terrain and stores
// the returned cost. rows supplies the tile character passed as `tile`.
// Negative results are stored as 0 (blocked).
func BakeScript(src []byte, rows []string, terrain *astar.PenaltyGrid) error {
	if terrain == nil {
		return astar.ErrNilPenalty
	}
	script := tengo.NewScript(append(append([]byte(nil), src...), []byte("\n"+penaltyDispatchScript)...))
	err := addGlobals(script, []scriptGlobal{
		{"__x", 0},
		{"__y", 0},
		{"__base", 0},
		{"__tile", ""},
		{"width", terrain.Width()},
		{"height", terrain.Height()},
	})
	if err != nil {
		return err
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("levels: compile penalty script: %w", err)
	}

	lo, _ := terrain.Bounds()
	for y := 0; y < terrain.Height(); y++ {
		for x := 0; x < terrain.Width(); x++ {
			c := astar.Coord{X: lo.X + x, Y: lo.Y + y}
			base, _ := terrain.Penalty(c)
			if err := compiled.Set("__x", c.X); err != nil {
				return err
			}
			if err := compiled.Set("__y", c.Y); err != nil {
				return err
			}
			if err := compiled.Set("__base", base); err != nil {
				return err
			}
			if err := compiled.Set("__tile", tileAt(rows, x, y)); err != nil {
				return err
			}
			if err := compiled.Run(); err != nil {
				return fmt.Errorf("levels: penalty script at %v: %w", c, err)
			}
			out := compiled.Get("__out")
			if out.ValueType() != "int" {
				return fmt.Errorf("%w: got %s at %v", ErrScriptResult, out.ValueType(), c)
			}
			cost := out.Int()
			if cost < 0 {
				cost = 0
			}
			terrain.Set(c, cost)
		}
	}
	return nil
}

type scriptGlobal struct {
	name  string
	value any
}

func addGlobals(script *tengo.Script, globals []scriptGlobal) error {
	for _, g := range globals {
		if err := script.Add(g.name, g.value); err != nil {
			return fmt.Errorf("levels: penalty script global %s: %w", g.name, err)
		}
	}
	return nil
}

func tileAt(rows []string, x, y int) string {
	if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
		return ""
	}
	return string(rows[y][x])
}
