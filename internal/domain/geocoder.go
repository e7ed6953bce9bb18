package domain

import "context"

// Place is one match returned by a geocoding provider.
type Place struct {
	Lat         float64
	Lon         float64
	DisplayName string
	PlaceName   string
	Confidence  float64 // provider score in [0, 1], 0 when unknown
}

// Geocoder resolves free text and coordinates through an external provider.
type Geocoder interface {
	// Search returns the provider's matches for a free-text address, best
	// first. Zero matches is an empty slice, not an error.
	Search(ctx context.Context, text string) ([]Place, error)

	// Reverse returns place details for a coordinate pair.
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}
