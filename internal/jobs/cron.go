package jobs

import (
	"context"
	"log/slog"
	"time"

	"collelink/internal/microservices/http-api/service"

	"github.com/robfig/cron/v3"
)

const reminderRunTimeout = time.Minute

// Scheduler runs the background jobs: today only the event reminder sweep.
type Scheduler struct {
	cron   *cron.Cron
	events service.EventService
	window time.Duration
	logger *slog.Logger
}

func NewScheduler(events service.EventService, window time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		events: events,
		window: window,
		logger: logger,
	}
}

// Start registers the reminder job with the given cron spec and starts the
// scheduler in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runReminders)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder job scheduled", "spec", spec, "window", s.window)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), reminderRunTimeout)
	defer cancel()

	sent, err := s.events.SendReminders(ctx, s.window)
	if err != nil {
		s.logger.Error("event reminder sweep failed", "error", err)
		return
	}
	if sent > 0 {
		s.logger.Info("event reminders sent", "count", sent)
	}
}
