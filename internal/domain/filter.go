package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// SelectAll is the selector value that keeps every report.
const SelectAll = "all"

// Selector chooses which reports a map or list renders: every report, or
// one category. Build it with ParseSelector or AllReports.
type Selector struct {
	category Category
}

// AllReports is the selector that keeps everything.
func AllReports() Selector { return Selector{} }

// ForCategory selects a single taxonomy category.
func ForCategory(c Category) Selector { return Selector{category: c} }

// ParseSelector validates a selector string from the outside world. Empty
// input means "all".
func ParseSelector(raw string) (Selector, error) {
	if raw == "" || raw == SelectAll {
		return AllReports(), nil
	}
	c := Category(raw)
	if !c.Valid() {
		return Selector{}, fmt.Errorf("unknown crime selector %q", raw)
	}
	return ForCategory(c), nil
}

// All reports whether the selector keeps every report.
func (s Selector) All() bool { return s.category == "" }

func (s Selector) String() string {
	if s.All() {
		return SelectAll
	}
	return string(s.category)
}

// Filter returns the reports matching sel, preserving order. For the "all"
// selector the input slice itself is returned.
func Filter(reports []Report, sel Selector) []Report {
	if sel.All() {
		return reports
	}
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.Crime == sel.category {
			out = append(out, r)
		}
	}
	return out
}

// Plottable returns the reports that carry valid coordinates, in order.
func Plottable(reports []Report) []Report {
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.Plottable() {
			out = append(out, r)
		}
	}
	return out
}

// Bounds is a map viewport. A MinLon greater than MaxLon crosses the
// antimeridian.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// ParseBounds reads a "minLon,minLat,maxLon,maxLat" bounding box.
func ParseBounds(raw string) (Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bbox must have 4 comma-separated values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bbox value %q: %w", p, err)
		}
		v[i] = f
	}
	b := Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if !(LatLng{Lat: b.MinLat, Lng: b.MinLon}).Valid() || !(LatLng{Lat: b.MaxLat, Lng: b.MaxLon}).Valid() {
		return Bounds{}, fmt.Errorf("bbox out of range: %s", raw)
	}
	if b.MinLat > b.MaxLat {
		return Bounds{}, fmt.Errorf("bbox min latitude %v above max latitude %v", b.MinLat, b.MaxLat)
	}
	return b, nil
}

func (b Bounds) rect() s2.Rect {
	lo := s2.LatLngFromDegrees(b.MinLat, b.MinLon)
	hi := s2.LatLngFromDegrees(b.MaxLat, b.MaxLon)
	return s2.Rect{
		Lat: r1.Interval{Lo: lo.Lat.Radians(), Hi: hi.Lat.Radians()},
		Lng: s1.IntervalFromEndpoints(lo.Lng.Radians(), hi.Lng.Radians()),
	}
}

// Contains reports whether p lies inside the viewport, edges included.
func (b Bounds) Contains(p LatLng) bool {
	return b.rect().ContainsLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
}

// WithinBounds returns the plottable reports inside b, in order.
func WithinBounds(reports []Report, b Bounds) []Report {
	rect := b.rect()
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if !r.Plottable() {
			continue
		}
		c := r.Location.Coordinates
		if rect.ContainsLatLng(s2.LatLngFromDegrees(c.Lat, c.Lng)) {
			out = append(out, r)
		}
	}
	return out
}
