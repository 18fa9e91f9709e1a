package weather

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultConditionCode is the OpenWeather code for clear sky, used when a
// payload carries no condition entry.
const DefaultConditionCode = 800

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key is a stable textual form of the coordinate, suitable for map keys.
func (c Coordinate) Key() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// WeatherSnapshot is the current-conditions record returned by the provider.
type WeatherSnapshot struct {
	Name        string      `json:"name"`
	Coordinate  Coordinate  `json:"coord"`
	ObservedAt  time.Time   `json:"observed_at"`
	Temperature float64     `json:"temp"`
	FeelsLike   float64     `json:"feels_like"`
	Humidity    float64     `json:"humidity"`
	WindSpeed   float64     `json:"wind_speed"`
	Conditions  []Condition `json:"weather"`
}

// Primary returns the first condition entry, or a clear-sky placeholder.
func (s WeatherSnapshot) Primary() Condition {
	if len(s.Conditions) == 0 {
		return Condition{ID: DefaultConditionCode}
	}
	return s.Conditions[0]
}

// ForecastPoint is a single 3-hour forecast datum.
type ForecastPoint struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temp"`
	Condition   Condition `json:"condition"`
}

// Date returns the UTC calendar day of the point as YYYY-MM-DD.
func (p ForecastPoint) Date() string {
	return p.Time.UTC().Format(time.DateOnly)
}

// Pollutant is an air pollution component symbol as used by the provider.
type Pollutant string

const (
	PollutantCO   Pollutant = "co"
	PollutantNO   Pollutant = "no"
	PollutantNO2  Pollutant = "no2"
	PollutantO3   Pollutant = "o3"
	PollutantSO2  Pollutant = "so2"
	PollutantPM25 Pollutant = "pm2_5"
	PollutantPM10 Pollutant = "pm10"
	PollutantNH3  Pollutant = "nh3"
)

// Pollutants lists every component the provider reports, in display order.
var Pollutants = []Pollutant{
	PollutantCO,
	PollutantNO,
	PollutantNO2,
	PollutantO3,
	PollutantSO2,
	PollutantPM25,
	PollutantPM10,
	PollutantNH3,
}

// AirComponents maps pollutant symbols to concentrations in µg/m³.
type AirComponents map[Pollutant]float64

// Value returns the concentration for p, 0 when absent.
func (a AirComponents) Value(p Pollutant) float64 {
	return a[p]
}
