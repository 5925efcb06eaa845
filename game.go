package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/common"
	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/prefabs"
	"github.com/milk9111/gridchase/sim"
)

// targetSpeed is how fast the player moves the target, in cells per second.
const targetSpeed = 6.0

type GameConfig struct {
	Level   string
	Debug   bool
	Physics bool
	Seed    int64
	Logger  *log.Logger
}

type Game struct {
	cfg     GameConfig
	sim     *sim.Sim
	logger  *log.Logger
	watcher *prefabs.Watcher

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI

	lastReload error
}

func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	g := &Game{cfg: cfg, logger: cfg.Logger}
	if err := g.reload(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	g.watcher = g.startWatcher()
	return g, nil
}

func (g *Game) simOptions() []sim.Option {
	seed := g.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return []sim.Option{
		sim.WithLogger(g.logger),
		sim.WithSeed(seed),
		sim.WithPhysics(g.cfg.Physics),
	}
}

// reload rebuilds the simulation from disk, keeping the running one on
// failure.
func (g *Game) reload() error {
	s, err := sim.Load(g.cfg.Level, g.simOptions()...)
	if err != nil {
		g.lastReload = err
		return err
	}
	g.sim = s
	g.lastReload = nil
	ebiten.SetTPS(s.Settings.TickRate)
	return nil
}

func (g *Game) startWatcher() *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{prefabs.Dir, levels.Dir} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		g.logger.Warn("hot reload disabled", "err", err)
		return nil
	}
	g.logger.Info("watching for changes", "dirs", dirs)
	return w
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Debug("file changed", "path", change.Path, "kind", change.Kind)
			changed = true
			continue
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("watcher", "err", err)
			}
			continue
		default:
		}
		break
	}
	if !changed {
		return
	}
	if err := g.reload(); err != nil {
		g.logger.Error("reload failed, keeping previous level", "err", err)
		return
	}
	g.logger.Info("reloaded", "level", g.cfg.Level)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollReload()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.moveTarget()
	g.sim.Step()
	return nil
}

func (g *Game) moveTarget() {
	var dir cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir.Y++
	}
	if dir == (cp.Vector{}) {
		return
	}
	step := dir.Normalize().Mult(targetSpeed * g.sim.Level.Layout.CellSize * g.sim.World.Delta())
	// try each axis on its own so the target slides along walls
	if !g.sim.MoveTarget(step) {
		g.sim.MoveTarget(cp.Vector{X: step.X})
		g.sim.MoveTarget(cp.Vector{Y: step.Y})
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	view := g.view()
	drawLevel(screen, g.sim.Level, view)
	drawAgents(screen, g.sim, view, g.cfg.Debug)
	if g.cfg.Debug && g.sim.Physics != nil {
		drawPhysicsDebug(g.sim.World, g.sim.Physics.Space(), screen, view)
	}

	stats := g.sim.Nav.Stats()
	status := fmt.Sprintf("TPS: %.1f  frame: %d  rebuilds: %d (last tick %d, failed %d)",
		ebiten.ActualTPS(), g.sim.World.Frame(), stats.TotalRebuilds, stats.LastTickRebuilds, stats.FailedRebuilds)
	if g.lastReload != nil {
		status += "\nreload error: " + g.lastReload.Error()
	}
	ebitenutil.DebugPrint(screen, status)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// view fits the level into the logical screen.
func (g *Game) view() debugView {
	lvl := g.sim.Level
	size := lvl.Layout.CellSize
	if size <= 0 {
		size = 1
	}
	w := float64(lvl.Width) * size
	h := float64(lvl.Height) * size
	scale := min(float64(common.BaseWidth)/w, float64(common.BaseHeight-20)/h)
	return debugView{
		Offset: cp.Vector{
			X: (float64(common.BaseWidth)-w*scale)/2 - lvl.Layout.Origin.X*scale,
			Y: 20 + (float64(common.BaseHeight-20)-h*scale)/2 - lvl.Layout.Origin.Y*scale,
		},
		Scale: scale,
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// restart rebuilds the simulation with the current settings.
func (g *Game) restart() error {
	if err := g.reload(); err != nil {
		return fmt.Errorf("game: restart %s: %w", g.cfg.Level, err)
	}
	return nil
}
