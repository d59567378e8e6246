// Package geocode resolves free-text addresses to WGS84 points via the
// Census Geocoder (primary) and Nominatim (fallback).
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client geocodes free-text addresses.
type Client interface {
	// Geocode geocodes a single address. An unresolvable address yields
	// Result{Matched: false}, not an error.
	Geocode(ctx context.Context, address string) (*Result, error)

	// BatchGeocode geocodes multiple addresses with bounded concurrency.
	BatchGeocode(ctx context.Context, addresses []string) ([]Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // provider that matched: "census" or "nominatim"
	Matched   bool
}

// Provider is a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Result, error)
	Available() bool
}

// defaultHTTPClient is shared by providers unless overridden.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// newLimiter allows roughly one request per second with a small burst, the
// fair-use ceiling of the free providers.
func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(1), 2)
}
