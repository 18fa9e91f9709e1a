package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/db/userstore"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/localize"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/providers"
	"github.com/SpiritWalker84/VPD04-Weather-bot/internal/weather"
)

// IntervalChoices are the reminder periods offered to users, in hours.
var IntervalChoices = []int{1, 2, 3, 6}

type MessageSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

type Reminder struct {
	records         *userstore.Records
	provider        providers.WeatherProvider
	sender          MessageSender
	defaultInterval int
	now             func() time.Time
}

type Option func(*Reminder)

func WithClock(now func() time.Time) Option {
	return func(r *Reminder) {
		r.now = now
	}
}

func NewReminder(
	records *userstore.Records,
	provider providers.WeatherProvider,
	sender MessageSender,
	defaultIntervalHours int,
	opts ...Option,
) *Reminder {
	if defaultIntervalHours < 1 {
		defaultIntervalHours = 1
	}
	r := &Reminder{
		records:         records,
		provider:        provider,
		sender:          sender,
		defaultInterval: defaultIntervalHours,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reminder) DefaultInterval() int {
	return r.defaultInterval
}

// Settings returns the user's reminder state with the interval resolved.
func (r *Reminder) Settings(ctx context.Context, userID int64) (enabled bool, intervalHours int) {
	n := r.records.Load(ctx, userID).Notifications
	return n.Enabled, n.Hours(r.defaultInterval)
}

func (r *Reminder) Toggle(ctx context.Context, userID int64) (userstore.Notifications, error) {
	record, err := r.records.Update(ctx, userID, func(rec *userstore.Record) {
		rec.Notifications.Enabled = !rec.Notifications.Enabled
		rec.Notifications.IntervalHours = rec.Notifications.Hours(r.defaultInterval)
	})
	return record.Notifications, err
}

// SetInterval stores the reminder period, clamped to at least one hour.
func (r *Reminder) SetInterval(ctx context.Context, userID int64, hours int) (userstore.Notifications, error) {
	if hours < 1 {
		hours = 1
	}
	record, err := r.records.Update(ctx, userID, func(rec *userstore.Record) {
		rec.Notifications.IntervalHours = hours
	})
	return record.Notifications, err
}

// Check sends a reminder to chatID when the user has reminders on, the
// interval has elapsed and a location is known. It reports whether a
// reminder went out.
func (r *Reminder) Check(ctx context.Context, userID, chatID int64) (bool, error) {
	unlock := r.records.Lock(userID)
	defer unlock()

	store := r.records.Store()
	record := store.Load(ctx, userID)

	n := record.Notifications
	if !n.Enabled {
		return false, nil
	}

	now := r.now()
	if now.Sub(n.LastSent()) < n.Interval(r.defaultInterval) {
		return false, nil
	}

	coord, ok := record.Coordinate()
	if !ok {
		return false, nil
	}

	snapshot, err := r.provider.CurrentWeather(ctx, coord)
	if err != nil {
		return false, fmt.Errorf("fetching weather for reminder: %w", err)
	}

	if err := r.sender.SendText(ctx, chatID, reminderText(record, snapshot)); err != nil {
		return false, fmt.Errorf("sending reminder: %w", err)
	}

	record.Notifications.MarkSent(now)
	if record.ChatID == 0 {
		record.ChatID = chatID
	}
	if err := store.Save(ctx, userID, record); err != nil {
		return true, fmt.Errorf("saving reminder timestamp: %w", err)
	}

	log.Info().Int64("user_id", userID).Int64("chat_id", chatID).Msg("weather reminder sent")

	return true, nil
}

// Sweep checks every user with reminders on and returns how many were sent.
func (r *Reminder) Sweep(ctx context.Context) int {
	users, err := r.records.ListNotifiable(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users for reminders")
		return 0
	}

	sent := 0
	for _, u := range users {
		if ctx.Err() != nil {
			break
		}
		if u.Record.ChatID == 0 {
			continue
		}
		ok, err := r.Check(ctx, u.UserID, u.Record.ChatID)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", u.UserID).Msg("reminder check failed")
			continue
		}
		if ok {
			sent++
		}
	}

	return sent
}

func reminderText(record userstore.Record, snapshot weather.WeatherSnapshot) string {
	city := record.City
	if city == "" {
		city = snapshot.Name
	}
	if city == "" {
		city = "вашей локации"
	}

	description := snapshot.Primary().Description
	if description == "" {
		description = "нет описания"
	}

	return fmt.Sprintf(
		"🔔 Напоминание о погоде: %s\nСейчас %s°C, %s",
		city,
		weather.FormatNumber(snapshot.Temperature),
		localize.Capitalize(localize.Localize(description)),
	)
}
