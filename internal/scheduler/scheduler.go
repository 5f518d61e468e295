package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// Reporter builds a report; *weather.Service satisfies it.
type Reporter interface {
	Handle(ctx context.Context, req weather.Request) (weather.Report, error)
}

// Scheduler periodically re-runs reports for watched postal codes so the
// Puck stays current without a client polling.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reporter  Reporter
	requests  []weather.Request
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. timeout bounds one run for one postal code.
func New(requests []weather.Request, interval, timeout time.Duration, reporter Reporter, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		reporter:  reporter,
		requests:  requests,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.requests) == 0 {
		s.logger.Info("scheduler: no postal codes to watch; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	if _, err := s.scheduler.Every(interval).Do(s.runOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "postal_codes", len(s.requests), "interval", interval)
	return nil
}

// runOnce refreshes every watched postal code concurrently.
func (s *Scheduler) runOnce() {
	s.logger.Debug("scheduler: running report refresh")

	var wg sync.WaitGroup
	for _, req := range s.requests {
		wg.Add(1)
		go func(req weather.Request) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			report, err := s.reporter.Handle(ctx, req)
			if err != nil {
				s.logger.Warn("scheduler: refresh failed", "postal_code", req.PostalCode, "error", err)
				return
			}
			s.logger.Debug("scheduler: refreshed", "postal_code", req.PostalCode, "alert_present", report.AlertPresent)
		}(req)
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
