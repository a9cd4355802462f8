// Package scheduler runs the service's periodic maintenance jobs.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Cleaner removes state whose window has elapsed.
type Cleaner interface {
	Cleanup()
}

type Scheduler struct {
	limiter  Cleaner
	c        *cron.Cron
	logger   *slog.Logger
	schedule string
}

// New creates a scheduler that periodically drops stale rate-limit counters.
func New(limiter Cleaner, log *slog.Logger) *Scheduler {
	return &Scheduler{
		limiter:  limiter,
		c:        cron.New(),
		logger:   log.With("component", "scheduler"),
		schedule: "@every 10m",
	}
}

func (s *Scheduler) Start() {
	_, err := s.c.AddFunc(s.schedule, func() {
		s.logger.Debug("Running job: dropping stale rate-limit counters")
		s.limiter.Cleanup()
	})
	if err != nil {
		s.logger.Error("Error scheduling cleanup job", "error", err)
		return
	}
	s.c.Start()
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}
