package render

import (
	"github.com/fatih/color"

	"github.com/agrodyn/fieldsim/internal/sim"
	"github.com/agrodyn/fieldsim/internal/world"
)

// One glyph per cell state, colorized per crop condition.
var stateGlyphs = map[world.CellState]struct {
	glyph string
	color *color.Color
}{
	world.StateInitial:        {".", color.New(color.FgHiBlack)},
	world.StatePloughed:       {"=", color.New(color.FgYellow)},
	world.StateSown:           {"s", color.New(color.FgHiYellow)},
	world.StateGrowing:        {"g", color.New(color.FgGreen)},
	world.StateNeedWater:      {"w", color.New(color.FgHiCyan)},
	world.StateHealthy:        {"H", color.New(color.FgHiGreen)},
	world.StateDiseased:       {"D", color.New(color.FgHiRed)},
	world.StateReadyToHarvest: {"R", color.New(color.FgHiMagenta)},
}

var agentGlyph = color.New(color.FgHiWhite, color.Bold)

// Field prints the grid map with agents overlaid at their positions.
func (w *Writer) Field(grid *world.Grid, agents []sim.AgentStatus) {
	occupied := make(map[world.Position]string, len(agents))
	for _, a := range agents {
		occupied[a.Position] = string(a.Type[0])
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			pos := world.Position{X: x, Y: y}
			if g, ok := occupied[pos]; ok {
				w.Print("%s ", agentGlyph.Sprint(g))
				continue
			}
			entry := stateGlyphs[grid.CellStateAt(pos)]
			w.Print("%s ", entry.color.Sprint(entry.glyph))
		}
		w.Line()
	}
}

// Summary prints the per-tick snapshot summary below the field map.
func (w *Writer) Summary(snap sim.Snapshot) {
	w.Println("tick %d  harvested %d  active %d  queued %d",
		snap.Tick, snap.Harvested, snap.ActiveTasks, snap.QueuedTasks)
	w.Println("weather: %.1f°C  humidity %.0f%%  rain=%t  wind %.0f",
		snap.Weather.Temperature, snap.Weather.Humidity,
		snap.Weather.RainForecast, snap.Weather.WindSpeed)
	w.Println("yield: est %.1f  potential %.1f  health %.1f%%",
		snap.Yield.EstimatedYield, snap.Yield.PotentialYield,
		snap.Stress.HealthScore)
}

// Legend prints the state-to-glyph mapping.
func (w *Writer) Legend() {
	w.Section("legend")
	for _, state := range world.AllStates {
		entry := stateGlyphs[state]
		w.Item("%s %s", entry.color.Sprint(entry.glyph), state)
	}
}
