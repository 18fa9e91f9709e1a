package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/SpiritWalker84/VPD04-Weather-bot/config"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/api/v1/handlers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/inmemorycache"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/service"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logLevel, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Str("service_name", conf.ServiceName).
		Timestamp().
		Logger()

	if err := conf.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, mainCtxStop := context.WithCancel(context.Background())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cache, err := inmemorycache.NewResponseCache(conf.CacheTTL(), conf.CacheMaxEntries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create response cache")
	}

	client := providers.NewClient(providers.Config{
		APIKey:  conf.OpenWeatherAPIKey,
		BaseURL: conf.OpenWeatherBaseURL,
		Lang:    conf.OpenWeatherLang,
		Units:   conf.OpenWeatherUnits,
		Timeout: conf.RequestTimeout,
	}, cache, providers.WithMetrics(providers.NewMetrics(registry)))

	aggregator := service.NewReportAggregator(client, conf.HTTPTimeoutDuration())
	weatherService := service.NewWeatherService(client, aggregator)

	handler := handlers.NewWeatherHandler(weatherService, conf.HTTPTimeoutDuration())
	router := handlers.NewRouter(handler, handlers.RouterConfig{
		RateLimit: rate.Limit(conf.RateLimitRPS),
		Burst:     conf.RateLimitBurst,
		Gatherer:  registry,
	})

	httpServer := &http.Server{
		Addr:              conf.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      conf.HTTPTimeoutDuration() + 5*time.Second,
	}

	handleSignals(ctx, mainCtxStop, func(shutdownCtx context.Context) {
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			log.Fatal().Err(shutdownErr).Msg("server shutdown failed")
		}
		aggregator.Shutdown()
	})

	log.Info().Msgf("started server on %s", conf.ServerAddress)

	serverErr := httpServer.ListenAndServe()
	if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		log.Err(serverErr).Msg("server stopped")
		mainCtxStop()
	}
	<-ctx.Done()
}

func handleSignals(ctx context.Context, cancelCtx context.CancelFunc, callback func(context.Context)) {
	sig := make(chan os.Signal, 1)

	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	const shutdownDuration = 30 * time.Second

	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownDuration)

		go func() {
			<-shutdownCtx.Done()

			if shutdownCtx.Err() == context.DeadlineExceeded {
				panic("graceful shutdown timed out.. forcing exit.")
			}
		}()

		callback(shutdownCtx)

		cancel()
		cancelCtx()
	}()
}
