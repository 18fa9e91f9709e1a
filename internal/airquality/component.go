package airquality

import (
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

type Band string

const (
	BandNormal   Band = "Normal"
	BandModerate Band = "Moderate"
	BandPoor     Band = "Poor"
	BandUnknown  Band = "—"
)

var bands = map[weather.Pollutant][2]float64{
	weather.PollutantPM25: {12, 35},
	weather.PollutantPM10: {20, 50},
	weather.PollutantNO2:  {40, 100},
	weather.PollutantO3:   {60, 120},
}

// EvaluateComponent classifies a single concentration. Pollutants without
// published bands are BandUnknown.
func EvaluateComponent(p weather.Pollutant, value float64) Band {
	limits, ok := bands[p]
	if !ok {
		return BandUnknown
	}

	switch {
	case value < limits[0]:
		return BandNormal
	case value < limits[1]:
		return BandModerate
	default:
		return BandPoor
	}
}
