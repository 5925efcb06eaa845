package main

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/prefabs"
)

var errNoWalkableCells = errors.New("pathprofile: level has no walkable cells")

type config struct {
	Level    string
	Searches int
	Workers  int
	Seed     int64
}

func defaultConfig() config {
	return config{
		Level:    "arena.yaml",
		Searches: 1000,
		Workers:  runtime.NumCPU(),
	}
}

type query struct {
	start, target astar.Coord
}

type report struct {
	Level   string
	Workers int
	Wall    time.Duration
	Metrics astar.MetricsSnapshot
	NoPath  int64
	// LongestPath is the most steps any found path had.
	LongestPath int
}

// run builds the level's pathfinder and fans the searches out over the
// worker pool. Endpoints are drawn up front so a seed reproduces the same
// queries whatever the worker count.
func run(cfg config, logger *log.Logger) (report, error) {
	if cfg.Searches <= 0 {
		return report{}, fmt.Errorf("pathprofile: searches must be positive, got %d", cfg.Searches)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	settings, err := prefabs.LoadNavSettings()
	if err != nil {
		return report{}, err
	}
	lvl, err := levels.Load(cfg.Level)
	if err != nil {
		return report{}, err
	}

	var cells []astar.Coord
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			c := astar.Coord{X: x, Y: y}
			if astar.Walkable(lvl.Penalties, c) {
				cells = append(cells, c)
			}
		}
	}
	if len(cells) == 0 {
		return report{}, errNoWalkableCells
	}

	var metrics astar.SearchMetrics
	pf := lvl.Pathfinder(settings.GridWidth, settings.GridHeight)
	pf.Profiler = metrics.Profiler()

	rng := rand.New(rand.NewSource(cfg.Seed))
	queries := make(chan query, cfg.Searches)
	for i := 0; i < cfg.Searches; i++ {
		queries <- query{start: cells[rng.Intn(len(cells))], target: cells[rng.Intn(len(cells))]}
	}
	close(queries)

	type result struct {
		noPath  int64
		longest int
	}
	results := make([]result, cfg.Workers)

	began := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(res *result) {
			defer wg.Done()
			for q := range queries {
				steps, err := pf.BuildPath(q.start, q.target)
				if err != nil {
					res.noPath++
					logger.Debug("no path", "start", q.start, "target", q.target, "err", err)
					continue
				}
				res.longest = max(res.longest, steps.Len())
			}
		}(&results[i])
	}
	wg.Wait()

	rep := report{
		Level:   lvl.Name,
		Workers: cfg.Workers,
		Wall:    time.Since(began),
		Metrics: metrics.Snapshot(),
	}
	for _, r := range results {
		rep.NoPath += r.noPath
		rep.LongestPath = max(rep.LongestPath, r.longest)
	}
	return rep, nil
}

func perSearch(total int64, searches int64) string {
	if searches == 0 {
		return "-"
	}
	return strconv.FormatFloat(float64(total)/float64(searches), 'f', 1, 64)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Render formats the report as a table.
func (r report) Render() string {
	m := r.Metrics
	avg := time.Duration(0)
	if m.Searches > 0 {
		avg = m.SearchTime / time.Duration(m.Searches)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("metric", "total", "per search").
		Row("searches", strconv.FormatInt(m.Searches, 10), "").
		Row("found", strconv.FormatInt(m.Found, 10), "").
		Row("no path", strconv.FormatInt(r.NoPath, 10), "").
		Row("nodes expanded", strconv.FormatInt(m.NodesExpanded, 10), perSearch(m.NodesExpanded, m.Searches)).
		Row("neighbors generated", strconv.FormatInt(m.NeighborCount, 10), perSearch(m.NeighborCount, m.Searches)).
		Row("heuristic evals", strconv.FormatInt(m.HeuristicEvaluations, 10), perSearch(m.HeuristicEvaluations, m.Searches)).
		Row("search time", m.SearchTime.String(), avg.String()).
		Row("longest path", strconv.Itoa(r.LongestPath), "")
	title := fmt.Sprintf("%s: %d workers, wall %s", r.Level, r.Workers, r.Wall.Round(time.Microsecond))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}
