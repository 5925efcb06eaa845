// Command navtui runs a level in the terminal. Arrow keys or WASD move the
// target; agents are drawn by mode with their remaining paths.
package main

import (
	"flag"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/milk9111/gridchase/sim"
)

func main() {
	levelName := flag.String("level", "arena.yaml", "level file in levels/")
	seed := flag.Int64("seed", 0, "random seed for patrols (0 = time based)")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// the terminal belongs to bubbletea, so logs go to a file or nowhere
	logger := log.New(nopWriter{})
	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "navtui")
		if err != nil {
			log.Fatal("open log", "err", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: log.DebugLevel})
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	s, err := sim.Load(*levelName, sim.WithLogger(logger), sim.WithSeed(*seed))
	if err != nil {
		log.Fatal("load level", "level", *levelName, "err", err)
	}

	if _, err := tea.NewProgram(newModel(s), tea.WithAltScreen()).Run(); err != nil {
		log.Error("navtui", "err", err)
		os.Exit(1)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
