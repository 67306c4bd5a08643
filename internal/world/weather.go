package world

import "math/rand"

// Weather holds the shared weather state. The engine mutates it on a
// fixed cadence; everything else reads it.
type Weather struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	RainForecast   bool    `json:"rain_forecast_24h"`
	WindSpeed      float64 `json:"wind_speed"`
}

// NewWeather returns the default starting conditions.
func NewWeather() *Weather {
	return &Weather{
		Temperature:  25.0,
		Humidity:     60.0,
		RainForecast: false,
		WindSpeed:    10.0,
	}
}

// HeatStress reports whether the temperature is high enough to stress crops.
func (w *Weather) HeatStress() bool {
	return w.Temperature > 32
}

// Update advances the weather with small random variations: temperature
// 20-35, humidity 40-90, wind 5-40, 10% chance of rain in the forecast.
func (w *Weather) Update(rng *rand.Rand) {
	w.Temperature = clamp(w.Temperature+rng.Float64()*4-2, 20, 35)
	w.Humidity = clamp(w.Humidity+rng.Float64()*10-5, 40, 90)
	w.RainForecast = rng.Float64() < 0.1
	w.WindSpeed = clamp(w.WindSpeed+rng.Float64()*6-3, 5, 40)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
