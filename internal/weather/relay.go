package weather

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-alert-relay/internal/observability"
)

// DeviceRelay pushes report summaries to the Puck. Pushes never block the
// caller and their failures are only logged.
//
// The LED clear is not request-isolated: when two alerts are relayed close
// together the first clear can switch off the second alert's LED early.
type DeviceRelay struct {
	display    Display
	clock      clockwork.Clock
	timeout    time.Duration
	clearAfter time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics

	wg sync.WaitGroup
}

// NewDeviceRelay creates a DeviceRelay. timeout bounds each push; a positive
// clearAfter switches the LED off that long after an alert was shown.
func NewDeviceRelay(display Display, clock clockwork.Clock, timeout, clearAfter time.Duration, logger *slog.Logger, metrics *observability.Metrics) *DeviceRelay {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DeviceRelay{
		display:    display,
		clock:      clock,
		timeout:    timeout,
		clearAfter: clearAfter,
		logger:     logger,
		metrics:    metrics,
	}
}

// Relay starts a detached push of the weather text and, when alert is
// non-nil, the alert LED and text. It returns immediately.
func (r *DeviceRelay) Relay(w Weather, alert *DisplayPayload) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.push(w, alert)
	}()
}

// Wait blocks until all started pushes have finished. Scheduled LED clears
// are not waited for.
func (r *DeviceRelay) Wait() {
	r.wg.Wait()
}

func (r *DeviceRelay) push(w Weather, alert *DisplayPayload) {
	// The weather text goes first so an alert text, when present, stays on screen.
	r.pushText(BuildWeatherText(w))
	if alert == nil {
		return
	}

	if r.pushLED(alert.LED) && r.clearAfter > 0 {
		r.clock.AfterFunc(r.clearAfter, func() {
			r.pushLED(LEDOff)
		})
	}
	r.pushText(alert.Text)
}

func (r *DeviceRelay) pushLED(led LEDDirective) bool {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.display.PushLED(ctx, led)
	r.record("led", err)
	return err == nil
}

func (r *DeviceRelay) pushText(text TextDirective) bool {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.display.PushText(ctx, text)
	r.record("lcd", err)
	return err == nil
}

func (r *DeviceRelay) record(channel string, err error) {
	if err != nil {
		r.metrics.DevicePushes.WithLabelValues(channel, "error").Inc()
		r.logger.Warn("device push failed", "channel", channel, "error", err)
		return
	}
	r.metrics.DevicePushes.WithLabelValues(channel, "success").Inc()
}
