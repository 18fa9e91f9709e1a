package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/inmemorycache"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"

	geocodeEndpoint  = "/geo/1.0/direct"
	currentEndpoint  = "/data/2.5/weather"
	forecastEndpoint = "/data/2.5/forecast"
	airEndpoint      = "/data/2.5/air_pollution"
)

// DefaultBackoff is the wait before each retry of a rate-limited request.
var DefaultBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

type WeatherProvider interface {
	ResolveCoordinates(ctx context.Context, place string, limit int) (weather.Coordinate, error)
	CurrentWeather(ctx context.Context, coord weather.Coordinate) (weather.WeatherSnapshot, error)
	Forecast(ctx context.Context, coord weather.Coordinate) ([]weather.ForecastPoint, error)
	AirPollution(ctx context.Context, coord weather.Coordinate) (weather.AirComponents, error)
	LastError() string
}

type Config struct {
	APIKey  string
	BaseURL string
	Lang    string
	Units   string
	Timeout time.Duration
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Client struct {
	apiKey  string
	baseURL string
	lang    string
	units   string

	httpClient *http.Client
	cache      inmemorycache.Cache
	backoff    []time.Duration
	sleep      Sleeper
	metrics    *Metrics

	mu      sync.Mutex
	lastErr string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithSleeper(sleep Sleeper) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

func WithBackoff(backoff []time.Duration) Option {
	return func(c *Client) {
		c.backoff = backoff
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient builds an OpenWeather client. A nil cache disables caching.
func NewClient(cfg Config, cache inmemorycache.Cache, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		lang:    cfg.Lang,
		units:   cfg.Units,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:   cache,
		backoff: DefaultBackoff,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LastError returns the user-facing reason of the most recent failed call,
// or "" when the most recent call succeeded.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

type geocodeResult struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// ResolveCoordinates geocodes a free-text place name and returns the first match.
func (c *Client) ResolveCoordinates(ctx context.Context, place string, limit int) (weather.Coordinate, error) {
	if limit <= 0 {
		limit = 1
	}
	params := c.localized(map[string]string{
		"q":     strings.TrimSpace(place),
		"limit": strconv.Itoa(limit),
	})
	delete(params, "units")

	var results []json.RawMessage
	err := c.request(ctx, geocodeEndpoint, params, true, func(body []byte) error {
		if !json.Valid(body) {
			return errors.New("invalid JSON")
		}
		// Anything other than a list is treated as "no results".
		if err := json.Unmarshal(body, &results); err != nil {
			results = nil
		}
		return nil
	})
	if err != nil {
		return weather.Coordinate{}, err
	}

	if len(results) == 0 {
		return weather.Coordinate{}, c.fail(geocodeEndpoint, &Error{Kind: KindNotFound})
	}

	var first geocodeResult
	if err := json.Unmarshal(results[0], &first); err != nil || first.Lat == nil || first.Lon == nil {
		return weather.Coordinate{}, c.fail(geocodeEndpoint, &Error{Kind: KindNotFound, Err: err})
	}

	return weather.Coordinate{Lat: *first.Lat, Lon: *first.Lon}, nil
}

type currentPayload struct {
	Name  string             `json:"name"`
	Dt    int64              `json:"dt"`
	Coord weather.Coordinate `json:"coord"`
	Main  struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []weather.Condition `json:"weather"`
}

func (c *Client) CurrentWeather(ctx context.Context, coord weather.Coordinate) (weather.WeatherSnapshot, error) {
	var snapshot weather.WeatherSnapshot

	err := c.request(ctx, currentEndpoint, c.localized(coordParams(coord)), true, func(body []byte) error {
		var payload currentPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return err
		}
		if payload.Main.Temp == nil || payload.Main.FeelsLike == nil || payload.Main.Humidity == nil {
			return errors.New("missing main.temp, main.feels_like or main.humidity")
		}

		snapshot = weather.WeatherSnapshot{
			Name:        payload.Name,
			Coordinate:  payload.Coord,
			Temperature: *payload.Main.Temp,
			FeelsLike:   *payload.Main.FeelsLike,
			Humidity:    *payload.Main.Humidity,
			WindSpeed:   payload.Wind.Speed,
			Conditions:  payload.Weather,
		}
		if payload.Dt > 0 {
			snapshot.ObservedAt = time.Unix(payload.Dt, 0).UTC()
		}
		return nil
	})
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	return snapshot, nil
}

type forecastPayload struct {
	List *[]struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []weather.Condition `json:"weather"`
	} `json:"list"`
}

// Forecast returns the 5-day / 3-hour forecast. Points without a temperature
// are dropped.
func (c *Client) Forecast(ctx context.Context, coord weather.Coordinate) ([]weather.ForecastPoint, error) {
	var points []weather.ForecastPoint

	err := c.request(ctx, forecastEndpoint, c.localized(coordParams(coord)), true, func(body []byte) error {
		var payload forecastPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return err
		}
		if payload.List == nil {
			return errors.New("missing list")
		}

		points = make([]weather.ForecastPoint, 0, len(*payload.List))
		for _, item := range *payload.List {
			if item.Main.Temp == nil {
				continue
			}
			point := weather.ForecastPoint{
				Time:        time.Unix(item.Dt, 0).UTC(),
				Temperature: *item.Main.Temp,
				Condition:   weather.Condition{ID: weather.DefaultConditionCode},
			}
			if len(item.Weather) > 0 {
				point.Condition = item.Weather[0]
			}
			points = append(points, point)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return points, nil
}

type airPayload struct {
	List *[]struct {
		Components map[string]float64 `json:"components"`
	} `json:"list"`
}

// AirPollution returns the current pollutant concentrations. An empty
// provider list yields an empty map.
func (c *Client) AirPollution(ctx context.Context, coord weather.Coordinate) (weather.AirComponents, error) {
	components := weather.AirComponents{}

	err := c.request(ctx, airEndpoint, coordParams(coord), true, func(body []byte) error {
		var payload airPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return err
		}
		if payload.List == nil {
			return errors.New("missing list")
		}
		if len(*payload.List) == 0 {
			return nil
		}
		for name, value := range (*payload.List)[0].Components {
			components[weather.Pollutant(name)] = value
		}
		return nil
	})
	if err != nil {
		return weather.AirComponents{}, err
	}

	return components, nil
}

// request runs the shared fetch algorithm: cache first, then HTTP with
// retries on 429 only. decode validates and captures the payload; the raw
// body is cached only after decode accepts it.
func (c *Client) request(
	ctx context.Context,
	endpoint string,
	params map[string]string,
	useCache bool,
	decode func(body []byte) error,
) error {
	c.setLastError("")

	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["appid"] = c.apiKey
	key := inmemorycache.CacheKey(endpoint, merged)

	if useCache && c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			if err := decode(body); err == nil {
				log.Debug().Str("endpoint", endpoint).Msg("weather provider cache hit")
				c.metrics.observeCacheHit(endpoint)
				return nil
			}
			log.Warn().Str("endpoint", endpoint).Msg("discarding undecodable cache entry")
		}
	}

	for attempt := 0; ; attempt++ {
		status, body, err := c.do(ctx, endpoint, merged)
		if err != nil {
			return c.fail(endpoint, &Error{Kind: KindNetwork, Err: err})
		}

		if status == http.StatusTooManyRequests {
			if attempt < len(c.backoff) {
				wait := c.backoff[attempt]
				log.Warn().
					Str("endpoint", endpoint).
					Int("attempt", attempt+1).
					Dur("backoff", wait).
					Msg("weather provider rate limited, retrying")
				if err := c.sleep(ctx, wait); err != nil {
					return c.fail(endpoint, &Error{Kind: KindNetwork, Err: err})
				}
				continue
			}
			return c.fail(endpoint, &Error{Kind: KindRateLimited, StatusCode: status})
		}

		if status < 200 || status >= 300 {
			return c.fail(endpoint, &Error{
				Kind:       KindService,
				StatusCode: status,
				Err:        fmt.Errorf("unexpected status code: %d", status),
			})
		}

		if err := decode(body); err != nil {
			return c.fail(endpoint, &Error{Kind: KindMalformed, StatusCode: status, Err: err})
		}

		if useCache && c.cache != nil {
			c.cache.Set(key, body)
		}
		return nil
	}
}

func (c *Client) do(ctx context.Context, endpoint string, params map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return 0, nil, err
	}

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observeRequest(endpoint, "transport_error", time.Since(start))
		return 0, nil, fmt.Errorf("request to weather provider failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.observeRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("reading weather provider response: %w", err)
	}

	return resp.StatusCode, body, nil
}

func (c *Client) fail(endpoint string, err *Error) error {
	c.setLastError(err.Message())

	log.Error().
		Err(err).
		Str("endpoint", endpoint).
		Str("kind", err.Kind.String()).
		Int("status", err.StatusCode).
		Msg("weather provider call failed")

	return err
}

func (c *Client) localized(params map[string]string) map[string]string {
	if c.lang != "" {
		params["lang"] = c.lang
	}
	if c.units != "" {
		params["units"] = c.units
	}
	return params
}

func coordParams(coord weather.Coordinate) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(coord.Lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(coord.Lon, 'f', -1, 64),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
