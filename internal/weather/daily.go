package weather

import (
	"sort"
	"time"
)

type DayGroup struct {
	Date   string
	Points []ForecastPoint
}

type DaySummary struct {
	Date        string  `json:"date"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"description"`
	Code        int     `json:"code"`
}

// GroupByDay buckets forecast points by UTC calendar date. Days come back in
// ascending order; points keep the provider order within a day.
func GroupByDay(points []ForecastPoint) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup

	for _, p := range points {
		day := p.Date()
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Date: day})
		}
		groups[i].Points = append(groups[i].Points, p)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date < groups[j].Date
	})

	return groups
}

// SummarizeDay reduces a day's points to min/max temperature. The condition
// is taken from the first point of the day, not a majority vote.
func SummarizeDay(date string, points []ForecastPoint) DaySummary {
	summary := DaySummary{Date: date, Code: DefaultConditionCode}
	if len(points) == 0 {
		return summary
	}

	summary.TempMin = points[0].Temperature
	summary.TempMax = points[0].Temperature
	for _, p := range points[1:] {
		if p.Temperature < summary.TempMin {
			summary.TempMin = p.Temperature
		}
		if p.Temperature > summary.TempMax {
			summary.TempMax = p.Temperature
		}
	}

	first := points[0].Condition
	if first.ID != 0 {
		summary.Code = first.ID
	}
	summary.Description = first.Description

	return summary
}

// ConditionEmoji picks an emoji for an OpenWeather condition code.
func ConditionEmoji(code int) string {
	switch {
	case code == 800:
		return "☀️"
	case code == 801:
		return "🌤️"
	case code == 802:
		return "⛅"
	case code == 803 || code == 804:
		return "☁️"
	case code >= 200 && code < 300:
		return "⛈️"
	case code >= 300 && code < 400:
		return "🌦️"
	case code >= 500 && code < 600:
		return "🌧️"
	case code >= 600 && code < 700:
		return "❄️"
	case code >= 700 && code < 800:
		return "🌫️"
	default:
		return "🌡️"
	}
}

// FormatDayLabel renders YYYY-MM-DD as DD.MM.YYYY; unparseable input is
// returned as is.
func FormatDayLabel(day string) string {
	parsed, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return day
	}
	return parsed.Format("02.01.2006")
}
