package world

import "math"

// YieldPrediction estimates harvestable output from the current crop mix.
type YieldPrediction struct {
	EstimatedYield     float64 `json:"estimated_yield"`
	CurrentHarvest     int     `json:"current_harvest"`
	PotentialYield     float64 `json:"potential_yield"`
	TicksToHarvest     int     `json:"ticks_to_harvest"`
	AvgGrowthProgress  float64 `json:"average_growth_progress"`
	HealthyCrops       int     `json:"healthy_crops"`
	AtRiskCrops        int     `json:"at_risk_crops"`
}

// PredictYield estimates yield per cell weighted by crop health. Growth is
// assumed to advance 2 points per tick when projecting the harvest date.
func (g *Grid) PredictYield() YieldPrediction {
	growing := g.CountCellsByState(StateGrowing)
	healthy := g.CountCellsByState(StateHealthy)
	ready := g.CountCellsByState(StateReadyToHarvest)
	diseased := g.CountCellsByState(StateDiseased)

	totalGrowth := 0.0
	cropCount := 0
	for i, state := range g.states {
		if state == StateGrowing || state == StateHealthy || state == StateNeedWater {
			totalGrowth += g.attrs[i][AttrGrowth]
			cropCount++
		}
	}
	avgGrowth := 0.0
	if cropCount > 0 {
		avgGrowth = totalGrowth / float64(cropCount)
	}

	estimated := float64(healthy)*1.0 + float64(growing)*0.7 + float64(diseased)*0.3 + float64(ready)*1.0

	ticksToHarvest := 0
	if avgGrowth > 0 {
		ticksToHarvest = int((100 - avgGrowth) / 2)
	}

	return YieldPrediction{
		EstimatedYield:    round2(estimated),
		CurrentHarvest:    g.harvested,
		PotentialYield:    round2(estimated + float64(g.harvested)),
		TicksToHarvest:    ticksToHarvest,
		AvgGrowthProgress: round1(avgGrowth),
		HealthyCrops:      healthy,
		AtRiskCrops:       diseased,
	}
}

// StressIndicators summarizes water and temperature stress across crops.
type StressIndicators struct {
	WaterStressed       int     `json:"water_stressed_count"`
	TemperatureStressed int     `json:"temperature_stressed_count"`
	TotalCrops          int     `json:"total_crops"`
	WaterStressPct      float64 `json:"water_stress_percentage"`
	TempStressPct       float64 `json:"temperature_stress_percentage"`
	HealthScore         float64 `json:"overall_health_score"`
}

// Stress computes stress indicators for the current weather. A crop is
// water-stressed below 0.3 water, temperature-stressed under heat with
// water below 0.5.
func (g *Grid) Stress(weather *Weather) StressIndicators {
	waterStressed := 0
	tempStressed := 0
	total := 0

	for i, state := range g.states {
		switch state {
		case StateGrowing, StateHealthy, StateNeedWater, StateSown:
			total++
			water := g.attrs[i][AttrWaterLevel]
			if water < 0.3 {
				waterStressed++
			}
			if weather.Temperature > 32 && water < 0.5 {
				tempStressed++
			}
		}
	}

	ind := StressIndicators{
		WaterStressed:       waterStressed,
		TemperatureStressed: tempStressed,
		TotalCrops:          total,
		HealthScore:         100,
	}
	if total > 0 {
		ind.WaterStressPct = round1(float64(waterStressed) / float64(total) * 100)
		ind.TempStressPct = round1(float64(tempStressed) / float64(total) * 100)
		ind.HealthScore = round1(float64(total-waterStressed-tempStressed) / float64(total) * 100)
	}
	return ind
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
