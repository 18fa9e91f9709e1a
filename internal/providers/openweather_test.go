package providers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/inmemorycache"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/mocks"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

const (
	currentBody = `{
		"name": "Moscow",
		"dt": 1735732800,
		"coord": {"lat": 55.75, "lon": 37.62},
		"main": {"temp": -3.5, "feels_like": -8.1, "humidity": 86},
		"wind": {"speed": 4.2},
		"weather": [{"id": 600, "main": "Snow", "description": "light snow"}]
	}`
	forecastBody = `{
		"list": [
			{"dt": 1735732800, "main": {"temp": -3.0}, "weather": [{"id": 600, "description": "light snow"}]},
			{"dt": 1735743600, "main": {}, "weather": [{"id": 800, "description": "clear sky"}]},
			{"dt": 1735754400, "main": {"temp": -5.5}, "weather": []}
		]
	}`
	airBody = `{"list": [{"components": {"pm2_5": 40, "pm10": 60, "no2": 150, "o3": 150, "co": 230.3}}]}`
)

type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
	return nil
}

func (r *recordingSleeper) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, w := range r.waits {
		total += w
	}
	return total
}

type OpenWeatherClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	handler  http.HandlerFunc
	hits     atomic.Int32
	lastReq  *http.Request
	reqMu    sync.Mutex
	sleeper  *recordingSleeper
	cache    *inmemorycache.ResponseCache
	registry *prometheus.Registry
	client   *providers.Client
}

func (s *OpenWeatherClientTestSuite) SetupTest() {
	s.hits.Store(0)
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.reqMu.Lock()
		s.lastReq = r
		s.reqMu.Unlock()
		s.handler(w, r)
	}))

	var err error
	s.cache, err = inmemorycache.NewResponseCache(10*time.Minute, 64)
	s.Require().NoError(err)

	s.sleeper = &recordingSleeper{}
	s.registry = prometheus.NewRegistry()
	s.client = providers.NewClient(
		providers.Config{
			APIKey:  "test-key",
			BaseURL: s.server.URL,
			Lang:    "ru",
			Units:   "metric",
			Timeout: 2 * time.Second,
		},
		s.cache,
		providers.WithSleeper(s.sleeper.Sleep),
		providers.WithMetrics(providers.NewMetrics(s.registry)),
	)
}

func (s *OpenWeatherClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *OpenWeatherClientTestSuite) respond(status int, body string) {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *OpenWeatherClientTestSuite) request() *http.Request {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()
	return s.lastReq
}

func (s *OpenWeatherClientTestSuite) TestResolveCoordinatesSuccess() {
	s.respond(http.StatusOK, `[{"name": "Moscow", "lat": 55.7558, "lon": 37.6173, "country": "RU"}]`)

	coord, err := s.client.ResolveCoordinates(context.Background(), " Moscow ", 1)

	s.Require().NoError(err)
	s.Equal(weather.Coordinate{Lat: 55.7558, Lon: 37.6173}, coord)
	s.Empty(s.client.LastError())

	req := s.request()
	s.Equal("/geo/1.0/direct", req.URL.Path)
	s.Equal("Moscow", req.URL.Query().Get("q"))
	s.Equal("1", req.URL.Query().Get("limit"))
	s.Equal("test-key", req.URL.Query().Get("appid"))
	s.Equal("ru", req.URL.Query().Get("lang"))
	s.Empty(req.URL.Query().Get("units"))
}

func (s *OpenWeatherClientTestSuite) TestResolveCoordinatesEmptyList() {
	s.respond(http.StatusOK, `[]`)

	_, err := s.client.ResolveCoordinates(context.Background(), "Atlantis", 1)

	s.Require().Error(err)
	s.True(errors.Is(err, providers.ErrPlaceNotFound))
	s.Equal("place not found", s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestResolveCoordinatesNotAList() {
	s.respond(http.StatusOK, `{"cod": "404"}`)

	_, err := s.client.ResolveCoordinates(context.Background(), "Atlantis", 1)

	s.True(errors.Is(err, providers.ErrPlaceNotFound))
}

func (s *OpenWeatherClientTestSuite) TestResolveCoordinatesMissingLatitude() {
	s.respond(http.StatusOK, `[{"name": "Nowhere", "lon": 10.0}]`)

	_, err := s.client.ResolveCoordinates(context.Background(), "Nowhere", 1)

	s.True(errors.Is(err, providers.ErrPlaceNotFound))
	s.Equal("place not found", s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestResolveCoordinatesNonNumericLatitude() {
	s.respond(http.StatusOK, `[{"name": "Nowhere", "lat": "north", "lon": 10.0}]`)

	_, err := s.client.ResolveCoordinates(context.Background(), "Nowhere", 1)

	s.True(errors.Is(err, providers.ErrPlaceNotFound))
}

func (s *OpenWeatherClientTestSuite) TestCurrentWeatherSuccess() {
	s.respond(http.StatusOK, currentBody)

	snapshot, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 55.75, Lon: 37.62})

	s.Require().NoError(err)
	s.Equal("Moscow", snapshot.Name)
	s.Equal(-3.5, snapshot.Temperature)
	s.Equal(-8.1, snapshot.FeelsLike)
	s.Equal(86.0, snapshot.Humidity)
	s.Equal(4.2, snapshot.WindSpeed)
	s.Equal(600, snapshot.Primary().ID)
	s.Equal("light snow", snapshot.Primary().Description)
	s.Equal(time.Unix(1735732800, 0).UTC(), snapshot.ObservedAt)

	q := s.request().URL.Query()
	s.Equal("55.75", q.Get("lat"))
	s.Equal("37.62", q.Get("lon"))
	s.Equal("metric", q.Get("units"))
}

func (s *OpenWeatherClientTestSuite) TestCurrentWeatherMissingTemperature() {
	s.respond(http.StatusOK, `{"name": "Moscow", "main": {"feels_like": 1, "humidity": 50}}`)

	_, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.True(errors.Is(err, providers.ErrMalformedResponse))
	s.Equal(0, s.cache.Len())
}

func (s *OpenWeatherClientTestSuite) TestCurrentWeatherIsCached() {
	s.respond(http.StatusOK, currentBody)
	coord := weather.Coordinate{Lat: 55.75, Lon: 37.62}

	first, err := s.client.CurrentWeather(context.Background(), coord)
	s.Require().NoError(err)

	s.respond(http.StatusInternalServerError, "")
	second, err := s.client.CurrentWeather(context.Background(), coord)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(int32(1), s.hits.Load())
	s.Empty(s.client.LastError())
	s.Equal(1.0, s.counterTotal("weather_provider_cache_hits_total"))
}

func (s *OpenWeatherClientTestSuite) counterTotal(name string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func (s *OpenWeatherClientTestSuite) TestForecastDropsPointsWithoutTemperature() {
	s.respond(http.StatusOK, forecastBody)

	points, err := s.client.Forecast(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().NoError(err)
	s.Require().Len(points, 2)
	s.Equal(-3.0, points[0].Temperature)
	s.Equal(600, points[0].Condition.ID)
	s.Equal(-5.5, points[1].Temperature)
	s.Equal(weather.DefaultConditionCode, points[1].Condition.ID)
	s.Equal("/data/2.5/forecast", s.request().URL.Path)
}

func (s *OpenWeatherClientTestSuite) TestForecastMissingList() {
	s.respond(http.StatusOK, `{"cod": "200"}`)

	points, err := s.client.Forecast(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.True(errors.Is(err, providers.ErrMalformedResponse))
	s.Empty(points)
}

func (s *OpenWeatherClientTestSuite) TestAirPollutionSuccess() {
	s.respond(http.StatusOK, airBody)

	components, err := s.client.AirPollution(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().NoError(err)
	s.Equal(40.0, components.Value(weather.PollutantPM25))
	s.Equal(230.3, components.Value(weather.PollutantCO))
	s.Equal(0.0, components.Value(weather.PollutantNH3))

	q := s.request().URL.Query()
	s.Empty(q.Get("lang"))
	s.Empty(q.Get("units"))
	s.Equal("/data/2.5/air_pollution", s.request().URL.Path)
}

func (s *OpenWeatherClientTestSuite) TestAirPollutionEmptyList() {
	s.respond(http.StatusOK, `{"list": []}`)

	components, err := s.client.AirPollution(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().NoError(err)
	s.Empty(components)
}

func (s *OpenWeatherClientTestSuite) TestRateLimitedThenSuccess() {
	var calls atomic.Int32
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(currentBody))
	}

	snapshot, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().NoError(err)
	s.Equal("Moscow", snapshot.Name)
	s.Equal(int32(4), s.hits.Load())
	s.Equal([]time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, s.sleeper.waits)
	s.GreaterOrEqual(s.sleeper.Total(), 7*time.Second)
	s.Empty(s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestRateLimitExhausted() {
	s.respond(http.StatusTooManyRequests, "")

	_, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().Error(err)
	s.True(errors.Is(err, providers.ErrRateLimited))
	s.Equal(int32(4), s.hits.Load())
	s.Len(s.sleeper.waits, 3)
	s.Equal("too many requests to the weather service, try again later", s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestServiceErrorIsNotRetried() {
	s.respond(http.StatusUnauthorized, `{"cod": 401, "message": "Invalid API key"}`)

	_, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().Error(err)
	s.True(errors.Is(err, providers.ErrService))
	s.Equal(providers.KindService, providers.KindOf(err))
	s.Equal(int32(1), s.hits.Load())
	s.Empty(s.sleeper.waits)
	s.Equal("weather service error (401)", s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestMalformedBody() {
	s.respond(http.StatusOK, `{not json`)

	_, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.True(errors.Is(err, providers.ErrMalformedResponse))
	s.Equal("malformed response from the weather service", s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestMalformedGeocodeBody() {
	s.respond(http.StatusOK, `[{"lat": 1,`)

	_, err := s.client.ResolveCoordinates(context.Background(), "Moscow", 1)

	s.True(errors.Is(err, providers.ErrMalformedResponse))
}

func (s *OpenWeatherClientTestSuite) TestTransportErrorIsNotRetried() {
	s.server.Close()

	_, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})

	s.Require().Error(err)
	s.True(errors.Is(err, providers.ErrNetwork))
	s.Empty(s.sleeper.waits)
	s.Equal("network error, check your connection and try again later", s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) TestLastErrorClearedBySuccess() {
	s.respond(http.StatusBadGateway, "")
	_, err := s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})
	s.Require().Error(err)
	s.NotEmpty(s.client.LastError())

	s.respond(http.StatusOK, currentBody)
	_, err = s.client.CurrentWeather(context.Background(), weather.Coordinate{Lat: 1, Lon: 2})
	s.Require().NoError(err)
	s.Empty(s.client.LastError())
}

func (s *OpenWeatherClientTestSuite) clientWithCache(cache inmemorycache.Cache) *providers.Client {
	return providers.NewClient(
		providers.Config{APIKey: "test-key", BaseURL: s.server.URL, Timeout: 2 * time.Second},
		cache,
		providers.WithSleeper(s.sleeper.Sleep),
	)
}

func (s *OpenWeatherClientTestSuite) TestCachedPayloadSkipsHTTP() {
	cache := mocks.NewMockCache(s.T())
	cache.On("Get", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "/data/2.5/weather?")
	})).Return([]byte(currentBody), true).Once()

	snapshot, err := s.clientWithCache(cache).CurrentWeather(context.Background(), weather.Coordinate{Lat: 55.75, Lon: 37.62})

	s.Require().NoError(err)
	s.Equal(-3.5, snapshot.Temperature)
	s.Equal(int32(0), s.hits.Load())
	cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything)
}

func (s *OpenWeatherClientTestSuite) TestUndecodableCacheEntryIsRefetched() {
	s.respond(http.StatusOK, currentBody)

	cache := mocks.NewMockCache(s.T())
	cache.On("Get", mock.Anything).Return([]byte(`{"name": "broken"}`), true).Once()
	cache.On("Set", mock.Anything, []byte(currentBody)).Return().Once()

	snapshot, err := s.clientWithCache(cache).CurrentWeather(context.Background(), weather.Coordinate{Lat: 55.75, Lon: 37.62})

	s.Require().NoError(err)
	s.Equal("Moscow", snapshot.Name)
	s.Equal(int32(1), s.hits.Load())
}

func (s *OpenWeatherClientTestSuite) TestFailedCallIsNotCached() {
	s.respond(http.StatusServiceUnavailable, "")

	cache := mocks.NewMockCache(s.T())
	cache.On("Get", mock.Anything).Return(nil, false).Once()

	_, err := s.clientWithCache(cache).CurrentWeather(context.Background(), weather.Coordinate{Lat: 55.75, Lon: 37.62})

	s.ErrorIs(err, providers.ErrService)
	cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything)
}

func TestOpenWeatherClientSuite(t *testing.T) {
	suite.Run(t, new(OpenWeatherClientTestSuite))
}

func TestBackoffHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := providers.NewClient(providers.Config{APIKey: "k", BaseURL: server.URL}, nil,
		providers.WithBackoff([]time.Duration{time.Hour}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.CurrentWeather(ctx, weather.Coordinate{Lat: 1, Lon: 2})
	if !errors.Is(err, providers.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
}
