package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// LatLng is a WGS-84 coordinate pair. It serializes as [lat, lng].
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether both values are finite and within lat/lng ranges.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// String formats the pair as "lat, lng" with six decimals, the form used
// when no street address is available.
func (p LatLng) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}

func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

func (p *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode coordinates: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode coordinates: want 2 values, got %d", len(pair))
	}
	p.Lat, p.Lng = pair[0], pair[1]
	return nil
}

// Location is where an incident happened. Coordinates is nil when the stored
// pair was missing or invalid.
type Location struct {
	Address     string  `json:"address"`
	Coordinates *LatLng `json:"coordinates"`
}

// Victim holds the contact details captured with a report.
type Victim struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Age     *int   `json:"age,omitempty"`
}

// Report is a normalized incident. Values of this type only come out of
// NormalizeRecord or the create path, so Crime is always a taxonomy entry.
type Report struct {
	ID          string    `json:"id"`
	Crime       Category  `json:"crime"`
	Description string    `json:"description"`
	Victim      Victim    `json:"victim"`
	Location    Location  `json:"location"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Plottable reports whether the report can be placed on a map.
func (r Report) Plottable() bool {
	return r.Location.Coordinates != nil && r.Location.Coordinates.Valid()
}

// Timestamp returns CreatedAt when set, otherwise the instant encoded in a
// millisecond ID. List views use it to show a date for legacy records;
// statistics deliberately rely on CreatedAt alone.
func (r Report) Timestamp() (time.Time, bool) {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt, true
	}
	return IDTime(r.ID)
}

// ResolvedLocation is the output of a geocoding step, owned by the
// submission workflow until the draft is submitted.
// Name and Confidence echo the provider's short place name and match score
// (0 to 1) when a provider answered.
type ResolvedLocation struct {
	Address     string  `json:"address"`
	Coordinates LatLng  `json:"coordinates"`
	Name        string  `json:"name,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// AsLocation converts a resolved location into the draft's location field.
func (l ResolvedLocation) AsLocation() *Location {
	c := l.Coordinates
	return &Location{Address: l.Address, Coordinates: &c}
}

// ReportDraft is what the submission form collects before validation.
// Location.Coordinates is nil when the form sent no pair.
type ReportDraft struct {
	Crime         string    `json:"crime"`
	Location      *Location `json:"location"`
	Description   string    `json:"crimeDescription"`
	VictimName    string    `json:"victimName"`
	VictimContact string    `json:"victimContact"`
	VictimAge     *int      `json:"victimAge,omitempty"`
}
