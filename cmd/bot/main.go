package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SpiritWalker84/VPD04-Weather-bot/config"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/bot"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/bot/telegram"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/db/userstore"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/inmemorycache"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/notifications"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
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

	if err := conf.ValidateBot(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, mainCtxStop := context.WithCancel(context.Background())

	store, err := initializeStore(conf)
	if err != nil {
		log.Fatal().Err(err).Str("driver", conf.StorageDriver).Msg("failed to initialize user store")
	}
	records := userstore.NewRecords(store)

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
	}, cache)

	tg, err := telegram.New(conf.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start telegram client")
	}

	reminder := notifications.NewReminder(records, client, tg, conf.DefaultNotificationInterval)
	handler := bot.NewHandler(client, records, reminder, tg)

	scheduler := notifications.NewScheduler(reminder, conf.NotificationSweepInterval())
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start reminder scheduler")
	}

	handleSignals(ctx, mainCtxStop, func(context.Context) {
		scheduler.Stop()
	})

	log.Info().Str("storage", conf.StorageDriver).Msg("bot started")

	tg.Run(ctx, handler)

	log.Info().Msg("bot stopped")
}

func initializeStore(conf *config.Config) (userstore.Store, error) {
	if conf.StorageDriver == config.StorageFile {
		return userstore.NewFileStore(conf.StorageFile)
	}

	db, err := initializeDatabase(conf)
	if err != nil {
		return nil, err
	}
	return userstore.NewRepository(db), nil
}

func initializeDatabase(config *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&userstore.UserRecord{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(3 * time.Minute)

	return db, nil
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
