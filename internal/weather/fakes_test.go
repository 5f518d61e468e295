package weather

import (
	"context"
	"sync"

	"github.com/i474232898/weather-alert-relay/internal/observability"
)

type fakeWeather struct {
	w   Weather
	err error
}

func (f *fakeWeather) Name() string { return "fake-weather" }

func (f *fakeWeather) CurrentWeather(ctx context.Context, _ string) (Weather, error) {
	if f.err != nil {
		return Weather{}, f.err
	}
	return f.w, ctx.Err()
}

type fakeAlerts struct {
	raw   *RawAlert
	err   error
	vocab SeverityVocabulary

	mu     sync.Mutex
	called int
}

func (f *fakeAlerts) Name() string { return "fake-alerts" }

func (f *fakeAlerts) Vocabulary() SeverityVocabulary { return f.vocab }

func (f *fakeAlerts) ActiveAlert(context.Context, Region) (*RawAlert, error) {
	f.mu.Lock()
	f.called++
	f.mu.Unlock()
	if f.raw == nil {
		return nil, f.err
	}
	raw := *f.raw
	return &raw, f.err
}

type fakeResolver struct {
	region Region
	err    error
}

func (f fakeResolver) Resolve(context.Context, string) (Region, error) {
	return f.region, f.err
}

type fakeDisplay struct {
	mu    sync.Mutex
	leds  []LEDDirective
	texts []TextDirective
	err   error
}

func (f *fakeDisplay) PushLED(_ context.Context, led LEDDirective) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leds = append(f.leds, led)
	return f.err
}

func (f *fakeDisplay) PushText(_ context.Context, text TextDirective) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

func (f *fakeDisplay) snapshot() ([]LEDDirective, []TextDirective) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LEDDirective(nil), f.leds...), append([]TextDirective(nil), f.texts...)
}

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}
