// Package locate turns addresses into coordinates and back, and drives the
// interactive "pick a point on the map" workflow used when filing a report.
package locate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
)

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 5 * time.Second

// Resolver wraps a domain.Geocoder with a timeout and the fallback policy:
// forward lookups fail with typed errors, reverse lookups always succeed.
type Resolver struct {
	geocoder domain.Geocoder
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewResolver creates a Resolver. A nil geocoder is allowed: forward lookups
// then report the provider as unavailable and reverse lookups fall back to
// formatted coordinates.
func NewResolver(geocoder domain.Geocoder, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Forward resolves free text to the provider's first match, carrying its
// place name and confidence.
func (r *Resolver) Forward(ctx context.Context, text string) (domain.ResolvedLocation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ResolvedLocation{}, &domain.ValidationError{Field: "address", Message: "Please enter an address"}
	}
	if r.geocoder == nil {
		return domain.ResolvedLocation{}, fmt.Errorf("forward geocode: no provider configured: %w", domain.ErrResolverUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	places, err := r.geocoder.Search(ctx, text)
	r.metrics.GeocodeAPIDuration.WithLabelValues("forward").Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.GeocodeRequests.WithLabelValues("forward", "error").Inc()
		r.logger.Warn("forward geocoding failed", "query", text, "error", err)
		return domain.ResolvedLocation{}, fmt.Errorf("forward geocode %q: %w: %w", text, domain.ErrResolverUnavailable, err)
	}
	if len(places) == 0 {
		r.metrics.GeocodeRequests.WithLabelValues("forward", "empty").Inc()
		return domain.ResolvedLocation{}, fmt.Errorf("forward geocode %q: %w", text, domain.ErrNotFound)
	}

	best := places[0]
	coords := domain.LatLng{Lat: best.Lat, Lng: best.Lon}
	if !coords.Valid() {
		r.metrics.GeocodeRequests.WithLabelValues("forward", "error").Inc()
		r.logger.Warn("forward geocoding returned invalid coordinates", "query", text, "lat", best.Lat, "lon", best.Lon)
		return domain.ResolvedLocation{}, fmt.Errorf("forward geocode %q: invalid coordinates %s: %w", text, coords, domain.ErrResolverUnavailable)
	}

	r.metrics.GeocodeRequests.WithLabelValues("forward", "success").Inc()
	address := strings.TrimSpace(best.DisplayName)
	if address == "" {
		address = strings.TrimSpace(best.PlaceName)
	}
	if address == "" {
		address = coords.String()
	}
	return domain.ResolvedLocation{
		Address:     address,
		Coordinates: coords,
		Name:        best.PlaceName,
		Confidence:  best.Confidence,
	}, nil
}

// Reverse resolves coordinates to an address. Provider failures of any kind
// are absorbed: the address becomes the coordinates formatted to six
// decimals. Only invalid input coordinates produce an error.
func (r *Resolver) Reverse(ctx context.Context, p domain.LatLng) (domain.ResolvedLocation, error) {
	if !p.Valid() {
		return domain.ResolvedLocation{}, &domain.ValidationError{Field: "location", Message: "Please select a location"}
	}
	if r.geocoder == nil {
		return r.fallback(p), nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	place, err := r.geocoder.Reverse(ctx, p.Lat, p.Lng)
	r.metrics.GeocodeAPIDuration.WithLabelValues("reverse").Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.GeocodeRequests.WithLabelValues("reverse", "error").Inc()
		r.logger.Warn("reverse geocoding failed, using coordinates",
			"lat", p.Lat,
			"lon", p.Lng,
			"error", err,
		)
		return r.fallback(p), nil
	}

	address := strings.TrimSpace(place.DisplayName)
	if address == "" {
		r.metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
		return r.fallback(p), nil
	}

	r.metrics.GeocodeRequests.WithLabelValues("reverse", "success").Inc()
	return domain.ResolvedLocation{
		Address:     address,
		Coordinates: p,
		Name:        place.PlaceName,
		Confidence:  place.Confidence,
	}, nil
}

func (r *Resolver) fallback(p domain.LatLng) domain.ResolvedLocation {
	r.metrics.GeocodeFallbacks.Inc()
	return domain.ResolvedLocation{Address: p.String(), Coordinates: p}
}
