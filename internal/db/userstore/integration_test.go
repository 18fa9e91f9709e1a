//go:build integration

package userstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgTestContainers "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/db/userstore"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

const (
	dbName     = "test_bot_database"
	dbUser     = "test_user"
	dbPassword = "test_password"
)

func init() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	container, err := pgTestContainers.Run(ctx,
		"postgres:13.3",
		pgTestContainers.WithDatabase(dbName),
		pgTestContainers.WithUsername(dbUser),
		pgTestContainers.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to terminate PostgreSQL container")
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), dbUser, dbPassword, dbName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userstore.UserRecord{}))

	return db
}

func TestRepositoryAgainstPostgres(t *testing.T) {
	db := setupPostgres(t)
	repo := userstore.NewRepository(db)
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		record := userstore.Record{ChatID: 1, City: "Новосибирск"}
		record.SetCoordinate(weather.Coordinate{Lat: 55.03, Lon: 82.92})

		require.NoError(t, repo.Save(ctx, 1, record))

		got := repo.Load(ctx, 1)
		require.Equal(t, "Новосибирск", got.City)
		coord, ok := got.Coordinate()
		require.True(t, ok)
		require.Equal(t, 82.92, coord.Lon)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, 2, userstore.Record{City: "first"}))
		require.NoError(t, repo.Save(ctx, 2, userstore.Record{City: "second"}))

		require.Equal(t, "second", repo.Load(ctx, 2).City)

		var count int64
		require.NoError(t, db.Model(&userstore.UserRecord{}).Where("user_id = ?", 2).Count(&count).Error)
		require.Equal(t, int64(1), count)
	})

	t.Run("MissingUser", func(t *testing.T) {
		require.Equal(t, userstore.Record{}, repo.Load(ctx, 999))
	})

	t.Run("ListNotifiable", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, 10, userstore.Record{ChatID: 10, Notifications: userstore.Notifications{Enabled: true}}))
		require.NoError(t, repo.Save(ctx, 11, userstore.Record{ChatID: 11}))

		users, err := repo.ListNotifiable(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, int64(10), users[0].UserID)

		require.NoError(t, repo.Save(ctx, 10, userstore.Record{ChatID: 10}))
		users, err = repo.ListNotifiable(ctx)
		require.NoError(t, err)
		require.Empty(t, users)
	})
}
