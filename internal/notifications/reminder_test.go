package notifications_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/db/userstore"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/mocks"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/notifications"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

var moscow = weather.Coordinate{Lat: 55.75, Lon: 37.62}

func init() {
	log.Logger = zerolog.New(os.Stdout).Level(zerolog.WarnLevel)
}

type ReminderTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *userstore.FileStore
	provider *mocks.MockWeatherProvider
	sender   *mocks.MockMessageSender
	reminder *notifications.Reminder
	now      time.Time
}

func (s *ReminderTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	store, err := userstore.NewFileStore(filepath.Join(s.T().TempDir(), "users.json"))
	s.Require().NoError(err)
	s.store = store

	s.provider = mocks.NewMockWeatherProvider(s.T())
	s.sender = mocks.NewMockMessageSender(s.T())
	s.reminder = notifications.NewReminder(userstore.NewRecords(store), s.provider, s.sender, 3,
		notifications.WithClock(func() time.Time { return s.now }))
}

func (s *ReminderTestSuite) save(userID int64, record userstore.Record) {
	s.Require().NoError(s.store.Save(s.ctx, userID, record))
}

func located(city string, n userstore.Notifications) userstore.Record {
	record := userstore.Record{City: city, Notifications: n}
	record.SetCoordinate(moscow)
	return record
}

func snapshot() weather.WeatherSnapshot {
	return weather.WeatherSnapshot{
		Name:        "Moscow",
		Temperature: 20,
		Conditions:  []weather.Condition{{ID: 800, Description: "clear sky"}},
	}
}

func (s *ReminderTestSuite) TestDisabledUserIsSkipped() {
	s.save(1, located("Москва", userstore.Notifications{Enabled: false}))

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.NoError(err)
	s.False(sent)
}

func (s *ReminderTestSuite) TestWithinIntervalIsSkipped() {
	n := userstore.Notifications{Enabled: true, IntervalHours: 2}
	n.MarkSent(s.now.Add(-119 * time.Minute))
	s.save(1, located("Москва", n))

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.NoError(err)
	s.False(sent)
}

func (s *ReminderTestSuite) TestMissingCoordinatesIsSkipped() {
	s.save(1, userstore.Record{City: "Москва", Notifications: userstore.Notifications{Enabled: true}})

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.NoError(err)
	s.False(sent)
}

func (s *ReminderTestSuite) TestSendsAndStampsReminder() {
	n := userstore.Notifications{Enabled: true, IntervalHours: 2}
	n.MarkSent(s.now.Add(-2 * time.Hour))
	s.save(1, located("Москва", n))

	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(snapshot(), nil).Once()
	s.sender.On("SendText", mock.Anything, int64(100), "🔔 Напоминание о погоде: Москва\nСейчас 20°C, Ясно").Return(nil).Once()

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.NoError(err)
	s.True(sent)

	record := s.store.Load(s.ctx, 1)
	s.True(record.Notifications.LastSent().Equal(s.now))
	s.Equal(int64(100), record.ChatID)

	sent, err = s.reminder.Check(s.ctx, 1, 100)
	s.NoError(err)
	s.False(sent, "second check within the interval")
}

func (s *ReminderTestSuite) TestDefaultIntervalApplies() {
	n := userstore.Notifications{Enabled: true}
	n.MarkSent(s.now.Add(-150 * time.Minute))
	s.save(1, located("", n))

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.NoError(err)
	s.False(sent, "default interval is three hours")
}

func (s *ReminderTestSuite) TestCityFallsBackToProviderName() {
	s.save(1, located("", userstore.Notifications{Enabled: true}))

	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(snapshot(), nil).Once()
	s.sender.On("SendText", mock.Anything, int64(100), "🔔 Напоминание о погоде: Moscow\nСейчас 20°C, Ясно").Return(nil).Once()

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.NoError(err)
	s.True(sent)
}

func (s *ReminderTestSuite) TestProviderFailureLeavesStampUntouched() {
	s.save(1, located("Москва", userstore.Notifications{Enabled: true}))
	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(weather.WeatherSnapshot{}, providers.ErrNetwork).Once()

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.False(sent)
	s.ErrorIs(err, providers.ErrNetwork)
	s.True(s.store.Load(s.ctx, 1).Notifications.LastSent().IsZero())
}

func (s *ReminderTestSuite) TestSendFailureLeavesStampUntouched() {
	s.save(1, located("Москва", userstore.Notifications{Enabled: true}))
	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(snapshot(), nil).Once()
	s.sender.On("SendText", mock.Anything, int64(100), mock.Anything).Return(errors.New("blocked")).Once()

	sent, err := s.reminder.Check(s.ctx, 1, 100)

	s.False(sent)
	s.Error(err)
	s.True(s.store.Load(s.ctx, 1).Notifications.LastSent().IsZero())
}

func (s *ReminderTestSuite) TestToggle() {
	n, err := s.reminder.Toggle(s.ctx, 1)
	s.Require().NoError(err)
	s.True(n.Enabled)
	s.Equal(3, n.IntervalHours)

	enabled, hours := s.reminder.Settings(s.ctx, 1)
	s.True(enabled)
	s.Equal(3, hours)

	n, err = s.reminder.Toggle(s.ctx, 1)
	s.Require().NoError(err)
	s.False(n.Enabled)
}

func (s *ReminderTestSuite) TestSetIntervalClamps() {
	n, err := s.reminder.SetInterval(s.ctx, 1, 0)
	s.Require().NoError(err)
	s.Equal(1, n.IntervalHours)

	n, err = s.reminder.SetInterval(s.ctx, 1, 6)
	s.Require().NoError(err)
	s.Equal(6, n.IntervalHours)
	s.False(n.Enabled)
}

func (s *ReminderTestSuite) TestSweep() {
	due := located("Москва", userstore.Notifications{Enabled: true})
	due.ChatID = 100
	s.save(1, due)

	recent := located("Казань", userstore.Notifications{Enabled: true})
	recent.ChatID = 200
	recent.Notifications.MarkSent(s.now.Add(-time.Minute))
	s.save(2, recent)

	noChat := located("Сочи", userstore.Notifications{Enabled: true})
	s.save(3, noChat)

	s.save(4, located("Омск", userstore.Notifications{Enabled: false}))

	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(snapshot(), nil).Once()
	s.sender.On("SendText", mock.Anything, int64(100), mock.Anything).Return(nil).Once()

	s.Equal(1, s.reminder.Sweep(s.ctx))
}

func (s *ReminderTestSuite) TestSweepContinuesAfterFailure() {
	first := located("Москва", userstore.Notifications{Enabled: true})
	first.ChatID = 100
	s.save(1, first)
	second := located("Москва", userstore.Notifications{Enabled: true})
	second.ChatID = 200
	s.save(2, second)

	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(weather.WeatherSnapshot{}, providers.ErrRateLimited).Once()
	s.provider.On("CurrentWeather", mock.Anything, moscow).Return(snapshot(), nil).Once()
	s.sender.On("SendText", mock.Anything, int64(200), mock.Anything).Return(nil).Once()

	s.Equal(1, s.reminder.Sweep(s.ctx))
}

func TestReminderTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderTestSuite))
}

func TestIntervalChoices(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 6}, notifications.IntervalChoices)
}
