package weather

import (
	"context"
)

// WeatherProvider returns current conditions for a postal code.
type WeatherProvider interface {
	Name() string
	CurrentWeather(ctx context.Context, postalCode string) (Weather, error)
}

// AlertProvider returns the first active alert for a region, or nil when
// the region has no active alert.
type AlertProvider interface {
	Name() string
	Vocabulary() SeverityVocabulary
	ActiveAlert(ctx context.Context, region Region) (*RawAlert, error)
}

// RegionResolver turns a postal code into the Region an AlertProvider needs.
type RegionResolver interface {
	Resolve(ctx context.Context, postalCode string) (Region, error)
}

// CoordinateLookup resolves a postal code to coordinates.
type CoordinateLookup interface {
	Coordinates(ctx context.Context, postalCode string) (Coordinates, error)
}

// ZoneLookup resolves coordinates to a forecast zone code.
type ZoneLookup interface {
	Zone(ctx context.Context, at Coordinates) (string, error)
}

// Display is the write-only sink for the Puck's LED ring and LCD.
type Display interface {
	PushLED(ctx context.Context, led LEDDirective) error
	PushText(ctx context.Context, text TextDirective) error
}
