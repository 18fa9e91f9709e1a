package airquality

import (
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

type Tier string

const (
	TierNoData    Tier = "No data"
	TierGood      Tier = "Good"
	TierModerate  Tier = "Moderate"
	TierElevated  Tier = "Elevated pollution"
	TierHigh      Tier = "High pollution"
	noDataSummary      = "Air quality components are unavailable."
)

// Assessment is the scored summary of one air pollution reading.
type Assessment struct {
	Tier    Tier                          `json:"tier"`
	Score   int                           `json:"score"`
	Summary string                        `json:"summary"`
	Details map[weather.Pollutant]float64 `json:"details"`
}

type threshold struct {
	above  float64
	points int
}

// Thresholds are checked top down and the first match wins.
var scoring = []struct {
	pollutant  weather.Pollutant
	thresholds []threshold
}{
	{weather.PollutantPM25, []threshold{{35, 3}, {15, 2}, {5, 1}}},
	{weather.PollutantPM10, []threshold{{50, 3}, {25, 2}, {10, 1}}},
	{weather.PollutantNO2, []threshold{{100, 2}, {40, 1}}},
	{weather.PollutantO3, []threshold{{120, 2}, {60, 1}}},
}

// Score rates the components on a 0..10 scale. With extended set, Details
// holds every known pollutant, 0 for the ones the reading lacks.
func Score(components weather.AirComponents, extended bool) Assessment {
	details := map[weather.Pollutant]float64{}

	if len(components) == 0 {
		return Assessment{Tier: TierNoData, Summary: noDataSummary, Details: details}
	}

	score := 0
	for _, rule := range scoring {
		value := components.Value(rule.pollutant)
		for _, t := range rule.thresholds {
			if value > t.above {
				score += t.points
				break
			}
		}
	}

	if extended {
		for _, p := range weather.Pollutants {
			details[p] = components.Value(p)
		}
	}

	tier, summary := classify(score)

	return Assessment{
		Tier:    tier,
		Score:   score,
		Summary: summary,
		Details: details,
	}
}

func classify(score int) (Tier, string) {
	switch {
	case score <= 2:
		return TierGood, "Air quality is normal."
	case score <= 5:
		return TierModerate, "Acceptable for most people."
	case score <= 8:
		return TierElevated, "Sensitive groups should reduce time outdoors."
	default:
		return TierHigh, "Limit outdoor activity."
	}
}
