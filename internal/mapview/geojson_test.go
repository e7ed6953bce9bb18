package mapview

import (
	"encoding/json"
	"testing"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

func TestMarkers(t *testing.T) {
	reports := []domain.Report{
		{
			ID:          "1700000000000",
			Crime:       domain.Assault,
			Description: "Fight outside bar",
			Victim:      domain.Victim{Name: "Private Person", Contact: "555"},
			Location:    domain.Location{Address: "Khan Market", Coordinates: &domain.LatLng{Lat: 28.6002, Lng: 77.2270}},
			CreatedAt:   time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		},
		{ID: "1700000000001", Crime: domain.Theft, Location: domain.Location{Address: "unknown"}},
		{
			ID:       "1600000000000",
			Crime:    domain.Other,
			Location: domain.Location{Coordinates: &domain.LatLng{Lat: 19.07, Lng: 72.87}},
		},
	}

	data, err := MarshalMarkers(reports)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, "1700000000000", first.ID)
	assert.True(t, first.Geometry.IsPoint())
	assert.Equal(t, []float64{77.2270, 28.6002}, first.Geometry.Point, "GeoJSON is lon,lat")
	assert.Equal(t, "Assault", first.PropertyMustString(PropCrime))
	assert.Equal(t, "fist-raised", first.PropertyMustString(PropIcon))
	assert.Equal(t, "Khan Market", first.PropertyMustString(PropAddress))
	assert.Equal(t, "2024-02-03T04:05:06Z", first.PropertyMustString(PropReportedAt))
	assert.NotContains(t, string(data), "Private Person")

	legacy := fc.Features[1]
	assert.Equal(t, "question-circle", legacy.PropertyMustString(PropIcon))
	assert.Equal(t, "2020-09-13T12:26:40Z", legacy.PropertyMustString(PropReportedAt), "date falls back to the ID")
}

func TestMarkers_Empty(t *testing.T) {
	data, err := MarshalMarkers(nil)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "FeatureCollection", out["type"])
	assert.Empty(t, out["features"])
}
