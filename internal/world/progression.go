package world

// StepCells applies the automatic per-tick progression rules:
//
//	growing/healthy: water drains by 0.05, growth +2 while water > 0.3
//	growing  → need_water when water < 0.3
//	growing  → healthy when growth > 50 and water > 0.5
//	healthy  → need_water when water < 0.3
//	healthy  → ready_to_harvest when growth reaches 100
func (g *Grid) StepCells() {
	for i, state := range g.states {
		if state != StateGrowing && state != StateHealthy {
			continue
		}
		bag := g.attrs[i]

		water := bag[AttrWaterLevel] - 0.05
		if water < 0 {
			water = 0
		}
		bag[AttrWaterLevel] = water

		if water > 0.3 {
			growth := bag[AttrGrowth] + 2
			if growth > 100 {
				growth = 100
			}
			bag[AttrGrowth] = growth
		}

		switch state {
		case StateGrowing:
			if water < 0.3 {
				g.states[i] = StateNeedWater
			} else if bag[AttrGrowth] > 50 && water > 0.5 {
				g.states[i] = StateHealthy
			}
		case StateHealthy:
			if water < 0.3 {
				g.states[i] = StateNeedWater
			} else if bag[AttrGrowth] >= 100 {
				g.states[i] = StateReadyToHarvest
			}
		}
	}
}
