// Package stats computes the dashboard aggregates over a report snapshot.
//
// Every function is pure and recomputes from its input. Category counts use
// every report; year-based views use only reports with a creation time,
// because a year is never guessed from the ID.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

// CategoryCount is one bar of the category histogram.
type CategoryCount struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
}

// Histogram lists observed categories in order of first occurrence.
type Histogram []CategoryCount

// Get returns the count for c, zero when unobserved.
func (h Histogram) Get(c domain.Category) int {
	for _, cc := range h {
		if cc.Category == c {
			return cc.Count
		}
	}
	return 0
}

// Total sums all counts.
func (h Histogram) Total() int {
	n := 0
	for _, cc := range h {
		n += cc.Count
	}
	return n
}

// YearCount is one point of the yearly trend.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CrosstabRow holds one year's per-category counts. Categories absent from
// Counts are zero for that year.
type CrosstabRow struct {
	Year   int
	Counts map[domain.Category]int
}

// Count returns the cell for c.
func (r CrosstabRow) Count(c domain.Category) int {
	return r.Counts[c]
}

// MarshalJSON flattens the row to {"year":2023,"Theft":4,...}, the shape
// stacked chart widgets consume. Categories follow taxonomy order.
func (r CrosstabRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"year":`)
	buf.WriteString(strconv.Itoa(r.Year))
	for _, c := range domain.Categories() {
		n, ok := r.Counts[c]
		if !ok {
			continue
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return nil, fmt.Errorf("marshal crosstab key: %w", err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(n))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	TotalReports int `json:"totalReports"`
	Categories   int `json:"categories"`
	Years        int `json:"years"`
}

// Dashboard bundles every aggregate for one snapshot.
type Dashboard struct {
	Summary   Summary       `json:"summary"`
	Histogram Histogram     `json:"histogram"`
	Trend     []YearCount   `json:"trend"`
	Crosstab  []CrosstabRow `json:"crosstab"`
}

// CategoryHistogram counts reports per category. Reports with no crime are
// skipped; unrecognized labels count as Other.
func CategoryHistogram(reports []domain.Report) Histogram {
	h := Histogram{}
	index := make(map[domain.Category]int)
	for _, r := range reports {
		if r.Crime == "" {
			continue
		}
		c := domain.Classify(string(r.Crime))
		i, ok := index[c]
		if !ok {
			i = len(h)
			index[c] = i
			h = append(h, CategoryCount{Category: c})
		}
		h[i].Count++
	}
	return h
}

// YearlyTrend counts reports per creation year, ascending. Reports without
// a creation time are excluded.
func YearlyTrend(reports []domain.Report) []YearCount {
	counts := make(map[int]int)
	for _, r := range reports {
		if r.CreatedAt.IsZero() {
			continue
		}
		counts[r.CreatedAt.UTC().Year()]++
	}

	trend := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		trend = append(trend, YearCount{Year: year, Count: n})
	}
	slices.SortFunc(trend, func(a, b YearCount) int { return a.Year - b.Year })
	return trend
}

// YearCategoryCrosstab counts reports per creation year and category, one
// row per year, ascending. Reports without a creation time or crime are
// excluded.
func YearCategoryCrosstab(reports []domain.Report) []CrosstabRow {
	rows := make(map[int]map[domain.Category]int)
	for _, r := range reports {
		if r.CreatedAt.IsZero() || r.Crime == "" {
			continue
		}
		year := r.CreatedAt.UTC().Year()
		if rows[year] == nil {
			rows[year] = make(map[domain.Category]int)
		}
		rows[year][domain.Classify(string(r.Crime))]++
	}

	out := make([]CrosstabRow, 0, len(rows))
	for year, counts := range rows {
		out = append(out, CrosstabRow{Year: year, Counts: counts})
	}
	slices.SortFunc(out, func(a, b CrosstabRow) int { return a.Year - b.Year })
	return out
}

// Summarize reduces the aggregates to headline numbers.
func Summarize(reports []domain.Report, h Histogram, trend []YearCount) Summary {
	return Summary{
		TotalReports: len(reports),
		Categories:   len(h),
		Years:        len(trend),
	}
}

// Compute builds every aggregate for reports.
func Compute(reports []domain.Report) Dashboard {
	h := CategoryHistogram(reports)
	trend := YearlyTrend(reports)
	return Dashboard{
		Summary:   Summarize(reports, h, trend),
		Histogram: h,
		Trend:     trend,
		Crosstab:  YearCategoryCrosstab(reports),
	}
}
