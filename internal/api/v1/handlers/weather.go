package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/service"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

type WeatherHandler struct {
	weatherService service.WeatherService
	timeout        time.Duration
}

func NewWeatherHandler(weatherService service.WeatherService, timeout time.Duration) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		timeout:        timeout,
	}
}

// GetWeather serves GET /api/weather?city=... or ?lat=..&lon=..
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := parseReportQuery(r)
	if query.Coordinate == nil && query.City == "" {
		respondWithError(w, http.StatusBadRequest, "provide city or lat and lon")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	report, err := h.weatherService.GetReport(ctx, query)
	if err != nil {
		status, detail := classifyError(err)
		log.Error().
			Err(err).
			Str("city", query.City).
			Str("request_id", RequestIDFromContext(r.Context())).
			Int("status", status).
			Msg("failed to build weather report")
		respondWithError(w, status, detail)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

func (h *WeatherHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// parseReportQuery prefers coordinates; an unparseable or out-of-range pair
// falls back to city.
func parseReportQuery(r *http.Request) service.ReportQuery {
	values := r.URL.Query()
	query := service.ReportQuery{City: strings.TrimSpace(values.Get("city"))}

	latRaw := strings.TrimSpace(values.Get("lat"))
	lonRaw := strings.TrimSpace(values.Get("lon"))
	if latRaw == "" || lonRaw == "" {
		return query
	}

	lat, errLat := strconv.ParseFloat(latRaw, 64)
	lon, errLon := strconv.ParseFloat(lonRaw, 64)
	if errLat == nil && errLon == nil && validCoordinate(lat, lon) {
		query.Coordinate = &weather.Coordinate{Lat: lat, Lon: lon}
	}

	return query
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrLocationRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, providers.ErrPlaceNotFound):
		return http.StatusNotFound, providers.UserMessage(err, "place not found")
	case errors.Is(err, service.ErrShuttingDown):
		return http.StatusServiceUnavailable, "service is shutting down"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timed out waiting for weather data"
	case providers.KindOf(err) != 0:
		return http.StatusBadGateway, providers.UserMessage(err, "")
	default:
		return http.StatusInternalServerError, "could not retrieve weather data"
	}
}
