package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// googleGeocode is swapped in tests.
var googleGeocode = geocoder.Geocoding

// GoogleLookup resolves postal codes to coordinates with the Google
// Geocoding API. The geocoder package keeps its API key in a package
// variable, so there is one key per process.
type GoogleLookup struct {
	country string
	metrics *observability.Metrics
}

// NewGoogleLookup configures the geocoder key and returns a lookup for
// postal codes in country.
func NewGoogleLookup(apiKey, country string, metrics *observability.Metrics) *GoogleLookup {
	geocoder.ApiKey = apiKey
	return &GoogleLookup{country: country, metrics: metrics}
}

type geocodeResult struct {
	loc geocoder.Location
	err error
}

// Coordinates geocodes postalCode. The geocoder has no context support, so
// the call is abandoned (not aborted) when ctx is done.
func (g *GoogleLookup) Coordinates(ctx context.Context, postalCode string) (weather.Coordinates, error) {
	start := time.Now()
	geocode := googleGeocode
	done := make(chan geocodeResult, 1)
	go func() {
		loc, err := geocode(geocoder.Address{PostalCode: postalCode, Country: g.country})
		done <- geocodeResult{loc: loc, err: err}
	}()

	var res geocodeResult
	select {
	case <-ctx.Done():
		g.record("error", start)
		return weather.Coordinates{}, fmt.Errorf("google: %w: %w", weather.ErrUpstreamUnavailable, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		g.record("error", start)
		return weather.Coordinates{}, fmt.Errorf("google: %w: %w", weather.ErrUpstreamUnavailable, res.err)
	}
	if res.loc.Latitude == 0 && res.loc.Longitude == 0 {
		g.record("not_found", start)
		return weather.Coordinates{}, fmt.Errorf("google: %w: no location for %s", weather.ErrNotFound, postalCode)
	}

	g.record("success", start)
	return weather.Coordinates{Lat: res.loc.Latitude, Lon: res.loc.Longitude}, nil
}

func (g *GoogleLookup) record(outcome string, start time.Time) {
	g.metrics.UpstreamCalls.WithLabelValues("google", outcome).Inc()
	g.metrics.UpstreamLatency.WithLabelValues("google").Observe(time.Since(start).Seconds())
}
