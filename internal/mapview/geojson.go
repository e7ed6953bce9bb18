// Package mapview renders reports as map markers.
package mapview

import (
	"fmt"
	"time"

	geojson "github.com/paulmach/go.geojson"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

// Marker property keys.
const (
	PropCrime       = "crime"
	PropIcon        = "icon"
	PropAddress     = "address"
	PropDescription = "description"
	PropReportedAt  = "reportedAt"
)

// Feature converts one plottable report into a GeoJSON point. ok is false
// for reports without valid coordinates.
func Feature(r domain.Report) (f *geojson.Feature, ok bool) {
	if !r.Plottable() {
		return nil, false
	}
	c := r.Location.Coordinates
	f = geojson.NewPointFeature([]float64{c.Lng, c.Lat})
	f.ID = r.ID
	f.SetProperty(PropCrime, string(r.Crime))
	f.SetProperty(PropIcon, domain.IconFor(r.Crime))
	f.SetProperty(PropAddress, r.Location.Address)
	f.SetProperty(PropDescription, r.Description)
	if ts, ok := r.Timestamp(); ok {
		f.SetProperty(PropReportedAt, ts.UTC().Format(time.RFC3339))
	}
	return f, true
}

// Markers builds a feature collection from the plottable reports, in order.
// Victim details are never exported.
func Markers(reports []domain.Report) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range reports {
		if f, ok := Feature(r); ok {
			fc.AddFeature(f)
		}
	}
	return fc
}

// MarshalMarkers encodes Markers(reports).
func MarshalMarkers(reports []domain.Report) ([]byte, error) {
	data, err := Markers(reports).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal markers: %w", err)
	}
	return data, nil
}

// DefaultCenter is where the map opens before any report is shown.
var DefaultCenter = domain.LatLng{Lat: 28.6139, Lng: 77.2090}

// DefaultZoom is the initial map zoom level.
const DefaultZoom = 13
