package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReports() []Report {
	return []Report{
		{ID: "1", Crime: Theft, Location: Location{Coordinates: &LatLng{Lat: 28.61, Lng: 77.21}}},
		{ID: "2", Crime: Fraud},
		{ID: "3", Crime: Theft, Location: Location{Coordinates: &LatLng{Lat: 19.07, Lng: 72.87}}},
		{ID: "4", Crime: Other, Location: Location{Coordinates: &LatLng{Lat: -33.86, Lng: 151.2}}},
		{ID: "5", Crime: Theft},
	}
}

func ids(reports []Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", SelectAll, false},
		{"all", SelectAll, false},
		{"Theft", "Theft", false},
		{"Breaking and Entering", "Breaking and Entering", false},
		{"Other", "Other", false},
		{"theft", "", true},
		{"ALL", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sel, err := ParseSelector(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.String())
		})
	}
}

func TestFilter(t *testing.T) {
	reports := sampleReports()

	all := Filter(reports, AllReports())
	assert.Equal(t, reports, all)

	theft := Filter(reports, ForCategory(Theft))
	assert.Equal(t, []string{"1", "3", "5"}, ids(theft))
	for _, r := range theft {
		assert.Contains(t, all, r)
	}

	assert.Empty(t, Filter(reports, ForCategory(Assault)))
	assert.Empty(t, Filter(nil, ForCategory(Theft)))
}

func TestPlottable(t *testing.T) {
	reports := sampleReports()
	reports = append(reports, Report{ID: "6", Crime: Theft, Location: Location{Coordinates: &LatLng{Lat: 95, Lng: 0}}})

	assert.Equal(t, []string{"1", "3", "4"}, ids(Plottable(reports)))
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("76.8, 28.4, 77.4, 28.9")
	require.NoError(t, err)
	assert.Equal(t, Bounds{MinLon: 76.8, MinLat: 28.4, MaxLon: 77.4, MaxLat: 28.9}, b)

	for _, raw := range []string{"", "1,2,3", "a,b,c,d", "0,10,1,5", "0,-95,1,5", "-190,0,0,1"} {
		_, err := ParseBounds(raw)
		assert.Error(t, err, raw)
	}
}

func TestWithinBounds(t *testing.T) {
	reports := sampleReports()

	delhi := Bounds{MinLon: 76.8, MinLat: 28.4, MaxLon: 77.4, MaxLat: 28.9}
	assert.Equal(t, []string{"1"}, ids(WithinBounds(reports, delhi)))

	india := Bounds{MinLon: 68, MinLat: 6, MaxLon: 97, MaxLat: 36}
	assert.Equal(t, []string{"1", "3"}, ids(WithinBounds(reports, india)))

	acrossAntimeridian := Bounds{MinLon: 150, MinLat: -40, MaxLon: -170, MaxLat: -30}
	assert.Equal(t, []string{"4"}, ids(WithinBounds(reports, acrossAntimeridian)))
	assert.True(t, acrossAntimeridian.Contains(LatLng{Lat: -35, Lng: 179.9}))
	assert.False(t, acrossAntimeridian.Contains(LatLng{Lat: -35, Lng: 0}))
}
