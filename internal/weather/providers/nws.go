package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// zoneCodeLength is the length of a UGC zone code such as "WIZ066".
const zoneCodeLength = 6

// NWSProvider talks to api.weather.gov: point to forecast zone lookups and
// active alerts by zone.
type NWSProvider struct {
	*upstream
	baseURL string
}

// NewNWSProvider creates an api.weather.gov client. The API rejects requests
// without a User-Agent, so userAgent should identify this deployment.
func NewNWSProvider(client *http.Client, userAgent string, metrics *observability.Metrics) *NWSProvider {
	u := newUpstream("nws", client, metrics, DefaultBreakerConfig)
	u.userAgent = userAgent
	return &NWSProvider{
		upstream: u,
		baseURL:  "https://api.weather.gov",
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

func (p *NWSProvider) Vocabulary() weather.SeverityVocabulary {
	return weather.VocabularyNWS
}

type nwsPoint struct {
	Properties struct {
		ForecastZone string `json:"forecastZone"`
	} `json:"properties"`
}

// Zone returns the forecast zone code for a point. The code is the trailing
// six characters of the zone URI, e.g. ".../zones/forecast/WIZ066".
func (p *NWSProvider) Zone(ctx context.Context, at weather.Coordinates) (string, error) {
	var payload nwsPoint
	u := fmt.Sprintf("%s/points/%.4f,%.4f", p.baseURL, at.Lat, at.Lon)
	if err := p.getJSON(ctx, u, &payload); err != nil {
		return "", err
	}

	zone := payload.Properties.ForecastZone
	if len(zone) < zoneCodeLength {
		return "", fmt.Errorf("nws: %w: no forecast zone for %.4f,%.4f", weather.ErrNotFound, at.Lat, at.Lon)
	}
	return zone[len(zone)-zoneCodeLength:], nil
}

type nwsAlerts struct {
	Features []struct {
		Properties struct {
			Event       string  `json:"event"`
			Headline    string  `json:"headline"`
			Severity    string  `json:"severity"`
			Description string  `json:"description"`
			Onset       *string `json:"onset"`
			Effective   *string `json:"effective"`
			Ends        *string `json:"ends"`
			Expires     *string `json:"expires"`
		} `json:"properties"`
	} `json:"features"`
}

// ActiveAlert returns the first actual, active alert for region.Zone, or nil.
func (p *NWSProvider) ActiveAlert(ctx context.Context, region weather.Region) (*weather.RawAlert, error) {
	if region.Zone == "" {
		return nil, fmt.Errorf("nws: %w: region has no zone", weather.ErrNotFound)
	}

	values := url.Values{}
	values.Set("status", "actual")
	values.Set("zone", region.Zone)

	var payload nwsAlerts
	if err := p.getJSON(ctx, p.baseURL+"/alerts/active?"+values.Encode(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Features) == 0 {
		return nil, nil
	}

	props := payload.Features[0].Properties
	return &weather.RawAlert{
		Title:         firstNonEmpty(props.Event, props.Headline),
		SeverityLabel: props.Severity,
		Vocabulary:    weather.VocabularyNWS,
		Description:   props.Description,
		// ends is null for alerts without a known end; expires is always set.
		Onset: firstNonEmpty(deref(props.Onset), deref(props.Effective)),
		Ends:  firstNonEmpty(deref(props.Ends), deref(props.Expires)),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
