package weather

import "errors"

var (
	// ErrUpstreamUnavailable is returned when a mandatory provider (weather)
	// could not be reached, timed out, or answered with a server error.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound is returned when a postal code or point resolves to nothing,
	// e.g. uninhabited areas without a forecast zone.
	ErrNotFound = errors.New("not found")

	// ErrMalformedUpstreamData is returned when a successful response lacks a
	// required field or carries one that cannot be parsed.
	ErrMalformedUpstreamData = errors.New("malformed upstream data")

	// ErrDevicePush is returned by display clients when a push fails.
	ErrDevicePush = errors.New("device push failed")
)
