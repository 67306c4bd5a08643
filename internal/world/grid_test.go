package world

import (
	"math/rand"
	"testing"
)

func TestGridInitialState(t *testing.T) {
	g := NewGrid(4, 3)

	total := 0
	for _, s := range AllStates {
		total += g.CountCellsByState(s)
	}
	if total != 12 {
		t.Errorf("expected 12 cells across all states, got %d", total)
	}
	if g.CountCellsByState(StateInitial) != 12 {
		t.Errorf("expected all cells initial, got %d", g.CountCellsByState(StateInitial))
	}
}

func TestAttributeMerge(t *testing.T) {
	g := NewGrid(2, 2)
	pos := Position{X: 1, Y: 1}

	g.UpdateCellAttributes(pos, Attributes{AttrWaterLevel: 0.7})
	g.UpdateCellAttributes(pos, Attributes{AttrGrowth: 40})

	attrs := g.CellAttributes(pos)
	if attrs[AttrWaterLevel] != 0.7 {
		t.Errorf("water_level overwritten by partial update: %v", attrs[AttrWaterLevel])
	}
	if attrs[AttrGrowth] != 40 {
		t.Errorf("growth_progress not merged: %v", attrs[AttrGrowth])
	}
	if _, ok := attrs[AttrDiseaseProb]; !ok {
		t.Error("default attribute keys lost after merge")
	}
}

func TestOutOfBoundsReadsAreNeutral(t *testing.T) {
	g := NewGrid(2, 2)
	oob := Position{X: 5, Y: -1}

	if got := g.CellStateAt(oob); got != StateInitial {
		t.Errorf("out-of-bounds state = %v, want initial", got)
	}
	if attrs := g.CellAttributes(oob); len(attrs) != 0 {
		t.Errorf("out-of-bounds attributes = %v, want empty", attrs)
	}

	// Writes must be dropped, not panic.
	g.SetCellState(oob, StateDiseased)
	g.UpdateCellAttributes(oob, Attributes{AttrWaterLevel: 1})
	if g.CountCellsByState(StateDiseased) != 0 {
		t.Error("out-of-bounds write leaked into the grid")
	}
}

func TestProgressionGrowingToNeedWater(t *testing.T) {
	g := NewGrid(1, 1)
	pos := Position{}
	g.SetCellState(pos, StateGrowing)
	g.UpdateCellAttributes(pos, Attributes{AttrWaterLevel: 0.3, AttrGrowth: 10})

	// 0.3 - 0.05 = 0.25 < 0.3 → needs water
	g.StepCells()
	if got := g.CellStateAt(pos); got != StateNeedWater {
		t.Errorf("state = %v, want need_water", got)
	}
}

func TestProgressionGrowingToHealthyToHarvest(t *testing.T) {
	g := NewGrid(1, 1)
	pos := Position{}
	g.SetCellState(pos, StateGrowing)
	g.UpdateCellAttributes(pos, Attributes{AttrWaterLevel: 1.0, AttrGrowth: 60})

	g.StepCells()
	if got := g.CellStateAt(pos); got != StateHealthy {
		t.Fatalf("state = %v, want healthy", got)
	}

	g.UpdateCellAttributes(pos, Attributes{AttrWaterLevel: 1.0, AttrGrowth: 100})
	g.StepCells()
	if got := g.CellStateAt(pos); got != StateReadyToHarvest {
		t.Errorf("state = %v, want ready_to_harvest", got)
	}
}

func TestWeatherStaysInRange(t *testing.T) {
	w := NewWeather()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		w.Update(rng)
		if w.Temperature < 20 || w.Temperature > 35 {
			t.Fatalf("temperature out of range: %v", w.Temperature)
		}
		if w.Humidity < 40 || w.Humidity > 90 {
			t.Fatalf("humidity out of range: %v", w.Humidity)
		}
		if w.WindSpeed < 5 || w.WindSpeed > 40 {
			t.Fatalf("wind out of range: %v", w.WindSpeed)
		}
	}
}

func TestStressIndicators(t *testing.T) {
	g := NewGrid(2, 1)
	g.SetCellState(Position{X: 0}, StateGrowing)
	g.SetCellState(Position{X: 1}, StateHealthy)
	g.UpdateCellAttributes(Position{X: 0}, Attributes{AttrWaterLevel: 0.1})
	g.UpdateCellAttributes(Position{X: 1}, Attributes{AttrWaterLevel: 0.9})

	w := NewWeather()
	ind := g.Stress(w)
	if ind.TotalCrops != 2 || ind.WaterStressed != 1 {
		t.Errorf("stress = %+v, want 1 of 2 water-stressed", ind)
	}
	if ind.WaterStressPct != 50.0 {
		t.Errorf("water stress pct = %v, want 50", ind.WaterStressPct)
	}
}
