// Command pathprofile runs random searches over a level from a pool of
// workers sharing one set of search metrics, then prints a report.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

func main() {
	cfg := defaultConfig()
	flag.StringVar(&cfg.Level, "level", cfg.Level, "level file in levels/")
	flag.IntVar(&cfg.Searches, "n", cfg.Searches, "number of searches")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent workers")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for endpoints (0 = time based)")
	debug := flag.Bool("debug", false, "log every failed search")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pathprofile"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	rep, err := run(cfg, logger)
	if err != nil {
		logger.Fatal("profile", "err", err)
	}
	fmt.Println(rep.Render())
}
