package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/localize"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

// outlookDays is how many days after the first forecast day the report lists.
const outlookDays = 3

type CurrentConditions struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	Code        int     `json:"code"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Report is the document served to the mini app.
type Report struct {
	City        string               `json:"city"`
	Current     CurrentConditions    `json:"current"`
	Tomorrow    *weather.DaySummary  `json:"tomorrow"`
	Forecast    []weather.DaySummary `json:"forecast"`
	WeatherCode int                  `json:"weatherCode"`
}

// buildReport fetches current conditions and the forecast for coord. Only a
// failed current-conditions call is fatal; a failed forecast yields an empty
// outlook.
func buildReport(ctx context.Context, provider providers.WeatherProvider, coord weather.Coordinate) (Report, error) {
	current, err := provider.CurrentWeather(ctx, coord)
	if err != nil {
		return Report{}, err
	}

	points, err := provider.Forecast(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("coord", coord.String()).Msg("forecast unavailable, serving current conditions only")
		points = nil
	}

	primary := current.Primary()
	report := Report{
		City: current.Name,
		Current: CurrentConditions{
			Temp:        current.Temperature,
			FeelsLike:   current.FeelsLike,
			Humidity:    current.Humidity,
			Description: localize.Localize(primary.Description),
			Code:        primary.ID,
			WindSpeed:   current.WindSpeed,
		},
		Forecast:    []weather.DaySummary{},
		WeatherCode: primary.ID,
	}

	days := weather.GroupByDay(points)
	for i := 1; i < len(days) && i <= outlookDays; i++ {
		summary := weather.SummarizeDay(days[i].Date, days[i].Points)
		summary.Description = localize.Localize(summary.Description)
		report.Forecast = append(report.Forecast, summary)
	}
	if len(report.Forecast) > 0 {
		tomorrow := report.Forecast[0]
		report.Tomorrow = &tomorrow
	}

	return report, nil
}
