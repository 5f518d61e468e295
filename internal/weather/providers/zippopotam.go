package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// ZippopotamLookup resolves postal codes to coordinates using zippopotam.us.
type ZippopotamLookup struct {
	*upstream
	country string
	baseURL string
}

// NewZippopotamLookup creates a lookup for postal codes in country (e.g. "US").
func NewZippopotamLookup(client *http.Client, country string, metrics *observability.Metrics) *ZippopotamLookup {
	return &ZippopotamLookup{
		upstream: newUpstream("zippopotam", client, metrics, DefaultBreakerConfig),
		country:  strings.ToLower(country),
		baseURL:  "https://api.zippopotam.us",
	}
}

type zippopotamPlace struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// Coordinates returns the first place's coordinates for postalCode.
// Unknown postal codes return an error wrapping weather.ErrNotFound.
func (z *ZippopotamLookup) Coordinates(ctx context.Context, postalCode string) (weather.Coordinates, error) {
	u := fmt.Sprintf("%s/%s/%s", z.baseURL, url.PathEscape(z.country), url.PathEscape(postalCode))

	var payload zippopotamPlace
	if err := z.getJSON(ctx, u, &payload); err != nil {
		return weather.Coordinates{}, err
	}
	if len(payload.Places) == 0 {
		return weather.Coordinates{}, fmt.Errorf("zippopotam: %w: no place for %s", weather.ErrNotFound, postalCode)
	}

	place := payload.Places[0]
	lat, err := strconv.ParseFloat(place.Latitude, 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("zippopotam: %w: latitude %q", weather.ErrMalformedUpstreamData, place.Latitude)
	}
	lon, err := strconv.ParseFloat(place.Longitude, 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("zippopotam: %w: longitude %q", weather.ErrMalformedUpstreamData, place.Longitude)
	}
	return weather.Coordinates{Lat: lat, Lon: lon}, nil
}
