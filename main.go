package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "arena.yaml", "level file in levels/")
	physics := flag.Bool("physics", false, "move agents with chipmunk bodies")
	seed := flag.Int64("seed", 0, "random seed for patrols (0 = time based)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "gridchase"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("gridchase")

	game, err := NewGame(GameConfig{
		Level:   *levelName,
		Debug:   *debug,
		Physics: *physics,
		Seed:    *seed,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("start", "err", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run", "err", err)
	}
}
