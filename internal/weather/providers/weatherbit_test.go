package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/weather"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func jsonHandler(t *testing.T, body string, check func(r *http.Request)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := w.Write([]byte(body))
		assert.NoError(t, err)
	}
}

func testWeatherbit(baseURL string, m *observability.Metrics) *WeatherbitProvider {
	p := NewWeatherbitProvider(testHTTPClient(), testAPIKey, "US", m)
	p.baseURL = baseURL
	return p
}

func TestWeatherbit_CurrentWeather(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{
		"count": 1,
		"data": [{
			"temp": 20,
			"rh": 55,
			"city_name": "Milwaukee",
			"state_code": "WI",
			"weather": {"description": "Clear sky", "code": 800}
		}]
	}`, func(r *http.Request) {
		assert.Equal(t, "/current", r.URL.Path)
		assert.Equal(t, "53217", r.URL.Query().Get("postal_code"))
		assert.Equal(t, "US", r.URL.Query().Get("country"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
	}))
	defer srv.Close()

	m := testMetrics()
	w, err := testWeatherbit(srv.URL, m).CurrentWeather(context.Background(), "53217")
	require.NoError(t, err)
	assert.Equal(t, weather.Weather{
		Description:      "Clear sky",
		City:             "Milwaukee",
		Region:           "WI",
		TemperatureF:     68,
		RelativeHumidity: 55,
	}, w)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("weatherbit", "success")))
}

func TestWeatherbit_CurrentWeather_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty data", `{"count": 0, "data": []}`},
		{"missing temperature", `{"data": [{"city_name": "Milwaukee", "state_code": "WI"}]}`},
		{"not json", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(t, tt.body, nil))
			defer srv.Close()

			_, err := testWeatherbit(srv.URL, testMetrics()).CurrentWeather(context.Background(), "53217")
			assert.ErrorIs(t, err, weather.ErrMalformedUpstreamData)
		})
	}
}

func TestWeatherbit_CurrentWeather_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := testWeatherbit(srv.URL, testMetrics()).CurrentWeather(context.Background(), "00000")
	assert.ErrorIs(t, err, weather.ErrMalformedUpstreamData)
}

func TestWeatherbit_CurrentWeather_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := testMetrics()
	_, err := testWeatherbit(srv.URL, m).CurrentWeather(context.Background(), "53217")
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("weatherbit", "error")))
}

func TestWeatherbit_CurrentWeather_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testWeatherbit(srv.URL, testMetrics()).CurrentWeather(context.Background(), "53217")
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, errRateLimited)
}

func TestWeatherbit_CurrentWeather_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testWeatherbit(srv.URL, testMetrics()).CurrentWeather(ctx, "53217")
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)
}

func TestWeatherbit_MissingAPIKey(t *testing.T) {
	p := NewWeatherbitProvider(testHTTPClient(), "", "US", testMetrics())

	_, err := p.CurrentWeather(context.Background(), "53217")
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)

	_, err = p.ActiveAlert(context.Background(), weather.Region{PostalCode: "53217"})
	assert.ErrorIs(t, err, weather.ErrUpstreamUnavailable)
}

func TestWeatherbit_ActiveAlert(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{
		"city_name": "Syracuse",
		"alerts": [
			{
				"title": "Winter Storm Warning issued January 12 at 3:14AM EST until January 13 at 6:00PM EST by NWS Binghamton NY",
				"description": "Heavy snow expected.",
				"severity": "Warning",
				"effective_local": "2021-01-12T03:14:00",
				"expires_local": "2021-01-13T18:00:00",
				"onset_local": "2021-01-12T06:00:00",
				"ends_local": ""
			},
			{"title": "Second alert", "severity": "Watch"}
		]
	}`, func(r *http.Request) {
		assert.Equal(t, "/alerts", r.URL.Path)
		assert.Equal(t, "13156", r.URL.Query().Get("postal_code"))
	}))
	defer srv.Close()

	raw, err := testWeatherbit(srv.URL, testMetrics()).ActiveAlert(context.Background(), weather.Region{PostalCode: "13156"})
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, weather.RawAlert{
		Title:         "Winter Storm Warning issued January 12 at 3:14AM EST until January 13 at 6:00PM EST by NWS Binghamton NY",
		SeverityLabel: "Warning",
		Vocabulary:    weather.VocabularyWeatherbit,
		Description:   "Heavy snow expected.",
		Onset:         "2021-01-12T06:00:00",
		Ends:          "2021-01-13T18:00:00",
	}, *raw)
}

func TestWeatherbit_ActiveAlert_None(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, `{"alerts": []}`, nil))
	defer srv.Close()

	raw, err := testWeatherbit(srv.URL, testMetrics()).ActiveAlert(context.Background(), weather.Region{PostalCode: "53217"})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestWeatherbit_ActiveAlert_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := testMetrics()
	_, err := testWeatherbit(srv.URL, m).ActiveAlert(context.Background(), weather.Region{PostalCode: "00000"})
	assert.ErrorIs(t, err, weather.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("weatherbit", "not_found")))
}
