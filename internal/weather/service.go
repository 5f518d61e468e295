package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/i474232898/weather-alert-relay/internal/observability"
)

// Service answers report requests: it fetches weather and the active alert,
// filters the alert by severity, merges both and relays a summary to the Puck.
// It keeps no state between requests.
type Service struct {
	weather  WeatherProvider
	resolver RegionResolver
	alerts   AlertProvider
	relay    *DeviceRelay
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewService creates a new Service. relay may be nil to disable device pushes.
func NewService(
	weather WeatherProvider,
	resolver RegionResolver,
	alerts AlertProvider,
	relay *DeviceRelay,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		weather:  weather,
		resolver: resolver,
		alerts:   alerts,
		relay:    relay,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle builds the report for req. Weather is mandatory: when it cannot be
// fetched the error wraps ErrUpstreamUnavailable. The alert branch is best
// effort and any failure in it only results in AlertPresent == false.
func (s *Service) Handle(ctx context.Context, req Request) (Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		current Weather
		wErr    error
		alert   *Alert
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, wErr = s.weather.CurrentWeather(ctx, req.PostalCode)
		if wErr != nil {
			// No report without weather; stop the alert branch early.
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		alert = s.activeAlert(ctx, req)
	}()
	wg.Wait()

	if wErr != nil {
		s.metrics.Reports.WithLabelValues("upstream_unavailable").Inc()
		s.logger.Error("weather fetch failed", "postal_code", req.PostalCode, "provider", s.weather.Name(), "error", wErr)
		if errors.Is(wErr, ErrUpstreamUnavailable) {
			return Report{}, fmt.Errorf("weather for %s: %w", req.PostalCode, wErr)
		}
		return Report{}, fmt.Errorf("weather for %s: %w: %w", req.PostalCode, ErrUpstreamUnavailable, wErr)
	}

	report := MergeReport(current, alert)

	if s.relay != nil {
		var payload *DisplayPayload
		if alert != nil {
			p := BuildAlertPayload(*alert, req.ColorPreference)
			payload = &p
		}
		s.relay.Relay(current, payload)
	}

	s.metrics.Reports.WithLabelValues("ok").Inc()
	return report, nil
}

// activeAlert runs the alert branch. It returns nil when there is no alert to
// show, for whatever reason.
func (s *Service) activeAlert(ctx context.Context, req Request) *Alert {
	log := s.logger.With("postal_code", req.PostalCode, "provider", s.alerts.Name())

	region, err := s.resolver.Resolve(ctx, req.PostalCode)
	if err != nil {
		s.absent(ctx, log, "region resolution failed", err)
		return nil
	}

	raw, err := s.alerts.ActiveAlert(ctx, region)
	if err != nil {
		s.absent(ctx, log, "alert fetch failed", err)
		return nil
	}
	if raw == nil {
		s.metrics.AlertsFiltered.WithLabelValues("none").Inc()
		log.Debug("no active alert", "zone", region.Zone)
		return nil
	}
	if raw.Vocabulary == "" {
		raw.Vocabulary = s.alerts.Vocabulary()
	}

	alert, err := NormalizeAlert(*raw)
	if err != nil {
		s.absent(ctx, log, "alert normalization failed", err)
		return nil
	}

	if !IsSevereEnough(alert.SeverityLabel, alert.Vocabulary, req.SeverityThreshold) {
		s.metrics.AlertsFiltered.WithLabelValues("below_threshold").Inc()
		log.Debug("alert below threshold",
			"severity", alert.SeverityLabel,
			"rank", Rank(alert.SeverityLabel, alert.Vocabulary),
			"threshold", req.SeverityThreshold)
		return nil
	}

	s.metrics.AlertsSurfaced.WithLabelValues(string(alert.Vocabulary)).Inc()
	return &alert
}

func (s *Service) absent(ctx context.Context, log *slog.Logger, msg string, err error) {
	// Cancelled by a failed weather branch or a departed caller; the provider
	// did nothing wrong.
	if ctx.Err() != nil {
		log.Debug(msg, "error", err)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		s.metrics.AlertsFiltered.WithLabelValues("not_found").Inc()
		log.Info(msg, "error", err)
	case errors.Is(err, ErrMalformedUpstreamData):
		s.metrics.AlertsFiltered.WithLabelValues("malformed").Inc()
		log.Warn(msg, "error", err)
	default:
		s.metrics.AlertsFiltered.WithLabelValues("error").Inc()
		log.Warn(msg, "error", err)
	}
}
