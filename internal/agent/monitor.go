package agent

import (
	"math/rand"

	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/world"
)

// ScanInterval is how many ticks pass between full field scans.
const ScanInterval = 15

// DiseaseThreshold is the probability above which a cell flips to diseased.
const DiseaseThreshold = 0.85

// Monitor is the drone agent. It does not take task offers; it scans the
// whole field on its own timer, estimates disease probability per cell,
// and raises an alert when a cell crosses the threshold.
type Monitor struct {
	ID string

	grid    *world.Grid
	channel *bus.Channel
	rng     *rand.Rand

	pos      world.Position
	lastScan int
}

// NewMonitor creates the drone monitor.
func NewMonitor(id string, start world.Position, grid *world.Grid, channel *bus.Channel, rng *rand.Rand) *Monitor {
	return &Monitor{
		ID:      id,
		grid:    grid,
		channel: channel,
		rng:     rng,
		pos:     start,
	}
}

// Position returns the drone's grid position.
func (m *Monitor) Position() world.Position { return m.pos }

// Step runs one tick. A full scan happens every ScanInterval ticks.
func (m *Monitor) Step(tick int) {
	if tick-m.lastScan < ScanInterval {
		return
	}
	m.lastScan = tick
	for x := 0; x < m.grid.Width; x++ {
		for y := 0; y < m.grid.Height; y++ {
			m.scanCell(world.Position{X: x, Y: y}, tick)
		}
	}
}

// scanCell estimates disease probability for one cell. Only crops that are
// sown, growing, or healthy are scanned; low water and late growth raise
// the estimate, with a small random component.
func (m *Monitor) scanCell(pos world.Position, tick int) {
	switch m.grid.CellStateAt(pos) {
	case world.StateGrowing, world.StateHealthy, world.StateSown:
	default:
		return
	}

	attrs := m.grid.CellAttributes(pos)
	water := attrs[world.AttrWaterLevel]
	growth := attrs[world.AttrGrowth]

	probability := 0.02 +
		(1.0-water)*0.15 +
		(growth/100.0)*0.1 +
		m.rng.Float64()*0.1

	m.grid.UpdateCellAttributes(pos, world.Attributes{
		world.AttrDiseaseProb: probability,
	})

	if probability > DiseaseThreshold {
		m.grid.SetCellState(pos, world.StateDiseased)
		m.channel.Publish(bus.NewMessage(bus.TopicAlertDisease, m.ID, tick, bus.DiseaseAlertPayload{
			Cell:               pos,
			DiseaseProbability: probability,
			WaterLevel:         water,
		}))
	}
}
