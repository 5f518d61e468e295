package weather

import (
	"context"
	"fmt"
)

// GeoResolver resolves a postal code to a forecast zone in two steps:
// postal code to coordinates, then coordinates to zone.
type GeoResolver struct {
	coords CoordinateLookup
	zones  ZoneLookup
}

// NewGeoResolver creates a GeoResolver.
func NewGeoResolver(coords CoordinateLookup, zones ZoneLookup) *GeoResolver {
	return &GeoResolver{coords: coords, zones: zones}
}

// Resolve returns the zone Region for postalCode. Lookups that find nothing
// return an error wrapping ErrNotFound.
func (g *GeoResolver) Resolve(ctx context.Context, postalCode string) (Region, error) {
	at, err := g.coords.Coordinates(ctx, postalCode)
	if err != nil {
		return Region{}, fmt.Errorf("coordinates for %s: %w", postalCode, err)
	}

	zone, err := g.zones.Zone(ctx, at)
	if err != nil {
		return Region{}, fmt.Errorf("zone for %.4f,%.4f: %w", at.Lat, at.Lon, err)
	}
	if zone == "" {
		return Region{}, fmt.Errorf("zone for %.4f,%.4f: %w", at.Lat, at.Lon, ErrNotFound)
	}

	return Region{PostalCode: postalCode, Zone: zone}, nil
}

// PostalCodeResolver is the RegionResolver for providers keyed by postal code.
// It makes no outbound calls.
type PostalCodeResolver struct{}

// Resolve wraps postalCode in a Region.
func (PostalCodeResolver) Resolve(_ context.Context, postalCode string) (Region, error) {
	if postalCode == "" {
		return Region{}, ErrNotFound
	}
	return Region{PostalCode: postalCode}, nil
}
