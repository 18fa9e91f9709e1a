package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpiritWalker84/VPD04-Weather-bot/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", conf.ServerAddress)
	assert.Equal(t, "https://api.openweathermap.org", conf.OpenWeatherBaseURL)
	assert.Equal(t, "ru", conf.OpenWeatherLang)
	assert.Equal(t, "metric", conf.OpenWeatherUnits)
	assert.Equal(t, 8*time.Second, conf.RequestTimeout)
	assert.Equal(t, 10*time.Minute, conf.CacheTTL())
	assert.Equal(t, 1024, conf.CacheMaxEntries)
	assert.Equal(t, 30*time.Second, conf.HTTPTimeoutDuration())
	assert.Equal(t, 2, conf.DefaultNotificationInterval)
	assert.Equal(t, 5*time.Minute, conf.NotificationSweepInterval())
	assert.Equal(t, config.StorageFile, conf.StorageDriver)
	assert.Equal(t, "User_Data.json", conf.StorageFile)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OW_API_KEY", "secret")
	t.Setenv("OW_LANG", "en")
	t.Setenv("CACHE_TTL_MIN", "30")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("STORAGE_DRIVER", "postgres")

	conf, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", conf.OpenWeatherAPIKey)
	assert.Equal(t, "en", conf.OpenWeatherLang)
	assert.Equal(t, 30*time.Minute, conf.CacheTTL())
	assert.Equal(t, 3*time.Second, conf.RequestTimeout)
	assert.Equal(t, 0.5, conf.RateLimitRPS)
	assert.Equal(t, config.StoragePostgres, conf.StorageDriver)
}

func TestRequestTimeoutFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"8", 8 * time.Second},
		{" 12 ", 12 * time.Second},
		{"3s", 3 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("REQUEST_TIMEOUT", tt.raw)

			conf, err := config.LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, conf.RequestTimeout)
		})
	}
}

func TestInvalidRequestTimeout(t *testing.T) {
	for _, raw := range []string{"soon", "0", "-5", "-2s"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("REQUEST_TIMEOUT", raw)

			_, err := config.LoadConfig()
			assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
		})
	}
}

func TestCacheTTLHasFloor(t *testing.T) {
	conf := &config.Config{CacheTTLMinutes: 0}
	assert.Equal(t, time.Minute, conf.CacheTTL())

	conf.CacheTTLMinutes = -5
	assert.Equal(t, time.Minute, conf.CacheTTL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		conf      config.Config
		serverErr bool
		botErr    bool
	}{
		{"missing api key", config.Config{BotToken: "t", StorageDriver: config.StorageFile, StorageFile: "u.json"}, true, true},
		{"missing bot token", config.Config{OpenWeatherAPIKey: "k", StorageDriver: config.StorageFile, StorageFile: "u.json"}, false, true},
		{"file storage", config.Config{OpenWeatherAPIKey: "k", BotToken: "t", StorageDriver: config.StorageFile, StorageFile: "u.json"}, false, false},
		{"postgres without host", config.Config{OpenWeatherAPIKey: "k", BotToken: "t", StorageDriver: config.StoragePostgres}, false, true},
		{"postgres", config.Config{OpenWeatherAPIKey: "k", BotToken: "t", StorageDriver: config.StoragePostgres, DBHost: "db", DBName: "bot"}, false, false},
		{"unknown driver", config.Config{OpenWeatherAPIKey: "k", BotToken: "t", StorageDriver: "redis"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.serverErr, tt.conf.ValidateServer() != nil)
			assert.Equal(t, tt.botErr, tt.conf.ValidateBot() != nil)
		})
	}
}
