package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler periodically re-fetches forecasts for every cached field so that
// open views receive fresh alerts without an explicit refresh.
type Scheduler struct {
	cron     *cron.Cron
	service  *Service
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler with a cron expression (with seconds).
func NewScheduler(service *Service, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		service:  service,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		s.logger.Debug("Running scheduled alert refresh")
		s.service.RefreshAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
