package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// WeatherbitProvider serves current conditions and postal-code based alerts
// from the weatherbit.io v2.0 API.
type WeatherbitProvider struct {
	*upstream
	apiKey  string
	country string
	baseURL string
}

// NewWeatherbitProvider creates a weatherbit client for postal codes in country.
func NewWeatherbitProvider(client *http.Client, apiKey, country string, metrics *observability.Metrics) *WeatherbitProvider {
	return &WeatherbitProvider{
		upstream: newUpstream("weatherbit", client, metrics, DefaultBreakerConfig),
		apiKey:   apiKey,
		country:  country,
		baseURL:  "https://api.weatherbit.io/v2.0",
	}
}

func (p *WeatherbitProvider) Name() string {
	return p.name
}

func (p *WeatherbitProvider) Vocabulary() weather.SeverityVocabulary {
	return weather.VocabularyWeatherbit
}

func (p *WeatherbitProvider) query(postalCode string) string {
	values := url.Values{}
	values.Set("postal_code", postalCode)
	values.Set("country", p.country)
	values.Set("key", p.apiKey)
	return values.Encode()
}

type weatherbitCurrent struct {
	Data []struct {
		Temp     *float64 `json:"temp"`
		RH       float64  `json:"rh"`
		CityName string   `json:"city_name"`
		State    string   `json:"state_code"`
		Weather  struct {
			Description string `json:"description"`
			Code        int    `json:"code"`
		} `json:"weather"`
	} `json:"data"`
}

// CurrentWeather fetches current conditions for postalCode.
func (p *WeatherbitProvider) CurrentWeather(ctx context.Context, postalCode string) (weather.Weather, error) {
	if p.apiKey == "" {
		return weather.Weather{}, fmt.Errorf("weatherbit: %w: api key is not configured", weather.ErrUpstreamUnavailable)
	}

	var payload weatherbitCurrent
	if err := p.getJSON(ctx, p.baseURL+"/current?"+p.query(postalCode), &payload); err != nil {
		return weather.Weather{}, err
	}

	if len(payload.Data) == 0 {
		return weather.Weather{}, fmt.Errorf("weatherbit: %w: no observation for %s", weather.ErrMalformedUpstreamData, postalCode)
	}
	obs := payload.Data[0]
	if obs.Temp == nil {
		return weather.Weather{}, fmt.Errorf("weatherbit: %w: observation without temperature", weather.ErrMalformedUpstreamData)
	}

	return weather.Weather{
		Description:      obs.Weather.Description,
		City:             obs.CityName,
		Region:           obs.State,
		TemperatureF:     weather.CelsiusToFahrenheit(*obs.Temp),
		RelativeHumidity: int(math.Round(obs.RH)),
	}, nil
}

type weatherbitAlerts struct {
	Alerts []struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Severity       string `json:"severity"`
		OnsetLocal     string `json:"onset_local"`
		EffectiveLocal string `json:"effective_local"`
		EndsLocal      string `json:"ends_local"`
		ExpiresLocal   string `json:"expires_local"`
	} `json:"alerts"`
}

// ActiveAlert returns the first active alert for region.PostalCode, or nil.
func (p *WeatherbitProvider) ActiveAlert(ctx context.Context, region weather.Region) (*weather.RawAlert, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherbit: %w: api key is not configured", weather.ErrUpstreamUnavailable)
	}

	var payload weatherbitAlerts
	if err := p.getJSON(ctx, p.baseURL+"/alerts?"+p.query(region.PostalCode), &payload); err != nil {
		return nil, err
	}
	if len(payload.Alerts) == 0 {
		return nil, nil
	}

	a := payload.Alerts[0]
	return &weather.RawAlert{
		Title:         a.Title,
		SeverityLabel: a.Severity,
		Vocabulary:    weather.VocabularyWeatherbit,
		Description:   a.Description,
		Onset:         firstNonEmpty(a.OnsetLocal, a.EffectiveLocal),
		Ends:          firstNonEmpty(a.EndsLocal, a.ExpiresLocal),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
