package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// BreakerConfig controls the per-provider circuit breaker.
type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig is used by all providers unless overridden.
var DefaultBreakerConfig = BreakerConfig{
	MaxRequests:         5,
	Interval:            1 * time.Minute,
	Timeout:             2 * time.Minute,
	ConsecutiveFailures: 5,
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errNoHTTPClient = errors.New("http client not configured")
	// errCallerGone marks calls abandoned because the caller's context ended.
	errCallerGone   = errors.New("caller context done")
)

// upstream is the shared HTTP plumbing of every provider: one breaker per
// provider, no retries, JSON decoding and error classification.
type upstream struct {
	name      string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
	userAgent string
	metrics   *observability.Metrics
}

func newUpstream(name string, client *http.Client, metrics *observability.Metrics, cfg BreakerConfig) *upstream {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// A missing postal code, a bad payload or a caller that gave up says
		// nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, weather.ErrNotFound) ||
				errors.Is(err, weather.ErrMalformedUpstreamData) ||
				errors.Is(err, errCallerGone)
		},
	})

	return &upstream{
		name:    name,
		client:  client,
		circuit: cb,
		metrics: metrics,
	}
}

// getJSON fetches rawURL and decodes the JSON body into out. A 204 leaves
// out untouched. Errors wrap weather.ErrNotFound (404),
// weather.ErrMalformedUpstreamData (undecodable body) or
// weather.ErrUpstreamUnavailable (everything else).
func (u *upstream) getJSON(ctx context.Context, rawURL string, out any) error {
	if u.client == nil {
		return fmt.Errorf("%s: %w: %w", u.name, weather.ErrUpstreamUnavailable, errNoHTTPClient)
	}

	if err := ctx.Err(); err != nil {
		u.metrics.UpstreamCalls.WithLabelValues(u.name, "cancelled").Inc()
		return fmt.Errorf("%s: %w: %w: %w", u.name, weather.ErrUpstreamUnavailable, errCallerGone, err)
	}

	start := time.Now()
	_, err := u.circuit.Execute(func() (interface{}, error) {
		return nil, u.do(ctx, rawURL, out)
	})
	u.metrics.UpstreamLatency.WithLabelValues(u.name).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		u.metrics.UpstreamCalls.WithLabelValues(u.name, "success").Inc()
		return nil
	case errors.Is(err, errCallerGone):
		u.metrics.UpstreamCalls.WithLabelValues(u.name, "cancelled").Inc()
		return fmt.Errorf("%s: %w", u.name, err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		u.metrics.UpstreamCalls.WithLabelValues(u.name, "error").Inc()
		return fmt.Errorf("%s: %w: circuit breaker: %w", u.name, weather.ErrUpstreamUnavailable, err)
	case errors.Is(err, weather.ErrNotFound):
		u.metrics.UpstreamCalls.WithLabelValues(u.name, "not_found").Inc()
		return fmt.Errorf("%s: %w", u.name, err)
	default:
		u.metrics.UpstreamCalls.WithLabelValues(u.name, "error").Inc()
		return fmt.Errorf("%s: %w", u.name, err)
	}
}

func (u *upstream) do(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if u.userAgent != "" {
		req.Header.Set("User-Agent", u.userAgent)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w: %w", weather.ErrUpstreamUnavailable, errCallerGone, err)
		}
		return fmt.Errorf("%w: %w", weather.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return weather.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", weather.ErrUpstreamUnavailable, errRateLimited)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %w: %d", weather.ErrUpstreamUnavailable, errServerError, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %w: %d", weather.ErrUpstreamUnavailable, errUnexpected, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", weather.ErrMalformedUpstreamData, err)
	}
	return nil
}
