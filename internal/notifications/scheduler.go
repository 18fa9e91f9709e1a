package notifications

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the reminder sweep periodically.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reminder  *Reminder
	interval  time.Duration
	timeout   time.Duration
}

func NewScheduler(reminder *Reminder, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reminder:  reminder,
		interval:  interval,
		timeout:   2 * time.Minute,
	}
}

// Start schedules the sweep. The first sweep runs immediately.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		sent := s.reminder.Sweep(ctx)
		log.Debug().Int("sent", sent).Msg("reminder sweep finished")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Info().Int("every_minutes", minutes).Msg("reminder scheduler started")

	return nil
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
