// Package world holds the authoritative grid state for the simulation.
// Cells carry a state tag plus a numeric attribute bag; all mutation goes
// through the accessor methods so out-of-bounds coordinates stay harmless.
package world

// CellState tags the agricultural state of one grid cell.
type CellState int

const (
	StateInitial CellState = iota
	StatePloughed
	StateSown
	StateGrowing
	StateNeedWater
	StateHealthy
	StateDiseased
	StateReadyToHarvest
)

// AllStates lists every cell state in declaration order.
var AllStates = []CellState{
	StateInitial, StatePloughed, StateSown, StateGrowing,
	StateNeedWater, StateHealthy, StateDiseased, StateReadyToHarvest,
}

// String returns the human-readable state name.
func (s CellState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StatePloughed:
		return "ploughed"
	case StateSown:
		return "sown"
	case StateGrowing:
		return "growing"
	case StateNeedWater:
		return "need_water"
	case StateHealthy:
		return "healthy"
	case StateDiseased:
		return "diseased"
	case StateReadyToHarvest:
		return "ready_to_harvest"
	default:
		return "unknown"
	}
}

// Position identifies one grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Attribute keys for the per-cell attribute bag.
const (
	AttrWaterLevel  = "water_level"
	AttrGrowth      = "growth_progress"
	AttrDiseaseProb = "disease_probability"
	AttrLastWatered = "last_watered"
)

// Attributes is the numeric attribute bag attached to each cell.
type Attributes map[string]float64

// Grid owns the cell map. Width*Height cells, each with exactly one state
// and one attribute bag for the lifetime of the process.
type Grid struct {
	Width  int
	Height int

	states    []CellState
	attrs     []Attributes
	harvested int
}

// NewGrid creates a grid with every cell in the initial state.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		states: make([]CellState, width*height),
		attrs:  make([]Attributes, width*height),
	}
	for i := range g.attrs {
		g.attrs[i] = Attributes{
			AttrWaterLevel:  0.0,
			AttrGrowth:      0,
			AttrDiseaseProb: 0.0,
			AttrLastWatered: 0,
		}
	}
	return g
}

// InBounds reports whether pos lies on the grid.
func (g *Grid) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

func (g *Grid) index(pos Position) int {
	return pos.Y*g.Width + pos.X
}

// CellStateAt returns the state of the cell at pos. Out-of-bounds
// coordinates read as the initial state rather than erroring.
func (g *Grid) CellStateAt(pos Position) CellState {
	if !g.InBounds(pos) {
		return StateInitial
	}
	return g.states[g.index(pos)]
}

// SetCellState updates the state tag of the cell at pos. Out-of-bounds
// writes are dropped.
func (g *Grid) SetCellState(pos Position, state CellState) {
	if !g.InBounds(pos) {
		return
	}
	g.states[g.index(pos)] = state
}

// CellAttributes returns a copy of the attribute bag for the cell at pos.
// Out-of-bounds coordinates return an empty bag.
func (g *Grid) CellAttributes(pos Position) Attributes {
	if !g.InBounds(pos) {
		return Attributes{}
	}
	src := g.attrs[g.index(pos)]
	out := make(Attributes, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// UpdateCellAttributes merges the given keys into the cell's attribute bag.
// Keys absent from patch keep their current values.
func (g *Grid) UpdateCellAttributes(pos Position, patch Attributes) {
	if !g.InBounds(pos) {
		return
	}
	bag := g.attrs[g.index(pos)]
	for k, v := range patch {
		bag[k] = v
	}
}

// CountCellsByState counts cells currently tagged with state.
func (g *Grid) CountCellsByState(state CellState) int {
	n := 0
	for _, s := range g.states {
		if s == state {
			n++
		}
	}
	return n
}

// RecordHarvest increments the global harvest counter.
func (g *Grid) RecordHarvest() {
	g.harvested++
}

// Harvested returns the total crops harvested so far.
func (g *Grid) Harvested() int {
	return g.harvested
}
