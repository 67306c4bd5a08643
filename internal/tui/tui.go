// Package tui provides a live simulation dashboard using Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agrodyn/fieldsim/internal/sim"
	"github.com/agrodyn/fieldsim/internal/world"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)
)

// One style per cell state for the field map.
var cellStyles = map[world.CellState]lipgloss.Style{
	world.StateInitial:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	world.StatePloughed:       lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
	world.StateSown:           lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
	world.StateGrowing:        lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	world.StateNeedWater:      lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	world.StateHealthy:        lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	world.StateDiseased:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	world.StateReadyToHarvest: lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
}

var cellGlyphs = map[world.CellState]string{
	world.StateInitial:        ".",
	world.StatePloughed:       "=",
	world.StateSown:           "s",
	world.StateGrowing:        "g",
	world.StateNeedWater:      "w",
	world.StateHealthy:        "H",
	world.StateDiseased:       "D",
	world.StateReadyToHarvest: "R",
}

type tickMsg time.Time

// Model is the dashboard TUI model.
type Model struct {
	engine   *sim.Engine
	snap     sim.Snapshot
	interval time.Duration

	spinner  spinner.Model
	paused   bool
	quitting bool
	width    int
	height   int
}

// New creates a dashboard over a fresh engine.
func New(cfg sim.Config, interval time.Duration) Model {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	engine := sim.New(cfg)
	return Model{
		engine:   engine,
		snap:     engine.Snapshot(),
		interval: interval,
		spinner:  s,
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.spinner.Tick)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			// Single-step while paused.
			if m.paused {
				m.engine.Step()
				m.snap = m.engine.Snapshot()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.paused {
			m.engine.Step()
			m.snap = m.engine.Snapshot()
		}
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the field map plus a status sidebar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render("fieldsim") + " " + m.spinner.View()
	if m.paused {
		title += "  " + pausedStyle.Render("PAUSED")
	}

	field := boxStyle.Render(m.fieldView())
	side := boxStyle.Render(m.sideView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, field, " ", side)

	help := helpStyle.Render("space pause · n step · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

func (m Model) fieldView() string {
	grid := m.engine.Grid()
	occupied := make(map[world.Position]string, len(m.snap.Agents))
	for _, a := range m.snap.Agents {
		occupied[a.Position] = string(a.Type[0])
	}

	var b strings.Builder
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			pos := world.Position{X: x, Y: y}
			if g, ok := occupied[pos]; ok {
				b.WriteString(agentStyle.Render(g) + " ")
				continue
			}
			state := grid.CellStateAt(pos)
			b.WriteString(cellStyles[state].Render(cellGlyphs[state]) + " ")
		}
		if y < grid.Height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) sideView() string {
	snap := m.snap
	var b strings.Builder

	fmt.Fprintf(&b, "tick       %d\n", snap.Tick)
	fmt.Fprintf(&b, "harvested  %d\n", snap.Harvested)
	fmt.Fprintf(&b, "active     %d\n", snap.ActiveTasks)
	fmt.Fprintf(&b, "queued     %d\n\n", snap.QueuedTasks)

	fmt.Fprintf(&b, "%s\n", infoStyle.Render("weather"))
	fmt.Fprintf(&b, "temp  %.1f°C\n", snap.Weather.Temperature)
	fmt.Fprintf(&b, "hum   %.0f%%\n", snap.Weather.Humidity)
	fmt.Fprintf(&b, "rain  %t\n", snap.Weather.RainForecast)
	fmt.Fprintf(&b, "wind  %.0f\n\n", snap.Weather.WindSpeed)

	fmt.Fprintf(&b, "%s\n", infoStyle.Render("crops"))
	fmt.Fprintf(&b, "yield  %.1f\n", snap.Yield.EstimatedYield)
	fmt.Fprintf(&b, "health %.1f%%\n\n", snap.Stress.HealthScore)

	fmt.Fprintf(&b, "%s\n", infoStyle.Render("agents"))
	for _, a := range snap.Agents {
		fmt.Fprintf(&b, "%-13s %s\n", a.ID, a.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run starts the dashboard program.
func Run(cfg sim.Config, interval time.Duration) error {
	p := tea.NewProgram(New(cfg, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
