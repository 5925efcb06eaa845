package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridchase/astar"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/sim"
)

var (
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240"))

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1)

	wallStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	floorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	roughStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("94"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)

	modeStyles = map[component.NavMode]lipgloss.Style{
		component.NavIdle:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		component.NavPatrolling: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		component.NavChasing:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	modeRunes = map[component.NavMode]string{
		component.NavIdle:       "i",
		component.NavPatrolling: "p",
		component.NavChasing:    "C",
	}
)

type tickMsg time.Time

type model struct {
	sim    *sim.Sim
	paused bool
	ticks  int
}

func newModel(s *sim.Sim) model {
	return model{sim: s}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.sim.Settings.TickRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var delta cp.Vector
		switch msg.String() {
		case "up", "w":
			delta.Y = -1
		case "down", "s":
			delta.Y = 1
		case "left", "a":
			delta.X = -1
		case "right", "d":
			delta.X = 1
		case " ", "p":
			m.paused = !m.paused
			return m, nil
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		default:
			return m, nil
		}
		// one key press moves the target one cell
		m.sim.MoveTarget(delta.Mult(m.sim.Level.Layout.CellSize))
		return m, nil

	case tickMsg:
		if !m.paused {
			m.sim.Step()
			m.ticks++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) View() string {
	views := m.sim.Agents()
	mapView := mapViewStyle.Render(renderGrid(m.sim, views))
	status := statusPanelStyle.Render(m.renderStatus(views))
	return lipgloss.JoinHorizontal(lipgloss.Top, mapView, status)
}

// renderGrid draws one character per cell. Agents draw over the target,
// which draws over paths.
func renderGrid(s *sim.Sim, views []sim.AgentView) string {
	lvl := s.Level
	layout := lvl.Layout

	floor, _ := lvl.CostRange()
	cells := make([][]string, lvl.Height)
	for y := range cells {
		cells[y] = make([]string, lvl.Width)
		for x := range cells[y] {
			cost, ok := lvl.Penalties.Penalty(astar.Coord{X: x, Y: y})
			switch {
			case !ok || cost <= 0:
				cells[y][x] = wallStyle.Render("#")
			case cost > floor:
				cells[y][x] = roughStyle.Render(":")
			default:
				cells[y][x] = floorStyle.Render(".")
			}
		}
	}
	put := func(p cp.Vector, glyph string) {
		c := layout.WorldToCell(p)
		if c.X < 0 || c.Y < 0 || c.X >= lvl.Width || c.Y >= lvl.Height {
			return
		}
		cells[c.Y][c.X] = glyph
	}

	for _, v := range views {
		for _, p := range v.Path {
			put(p, pathStyle.Render("*"))
		}
	}
	put(s.TargetPosition(), targetStyle.Render("@"))
	for _, v := range views {
		style, ok := modeStyles[v.Mode]
		if !ok {
			style = modeStyles[component.NavIdle]
		}
		put(v.Position, style.Render(modeRunes[v.Mode]))
	}

	var b strings.Builder
	for y, row := range cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, ""))
	}
	return b.String()
}

func (m model) renderStatus(views []sim.AgentView) string {
	stats := m.sim.Nav.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "level: %s\n", m.sim.Level.Name)
	fmt.Fprintf(&b, "tick: %d", m.sim.World.Frame())
	if m.paused {
		b.WriteString(" (paused)")
	}
	fmt.Fprintf(&b, "\nrebuilds: %d (failed %d)\n\n", stats.TotalRebuilds, stats.FailedRebuilds)
	for _, v := range views {
		fmt.Fprintf(&b, "%s %-10s steps %d\n", v.Entity, v.Mode, len(v.Path))
	}
	b.WriteString("\narrows/wasd move target\nspace pause, q quit")
	return b.String()
}
