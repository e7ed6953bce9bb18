package stats

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

func at(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestCompute_Scenario(t *testing.T) {
	reports := []domain.Report{
		{ID: "A", Crime: domain.Theft, CreatedAt: at(2023)},
		{ID: "B", Crime: domain.Theft, CreatedAt: at(2024)},
		{ID: "C", Crime: domain.Fraud},
	}

	d := Compute(reports)

	assert.Equal(t, Histogram{{domain.Theft, 2}, {domain.Fraud, 1}}, d.Histogram)
	assert.Equal(t, []YearCount{{2023, 1}, {2024, 1}}, d.Trend)
	assert.Equal(t, Summary{TotalReports: 3, Categories: 2, Years: 2}, d.Summary)
	require.Len(t, d.Crosstab, 2)
	assert.Equal(t, 1, d.Crosstab[0].Count(domain.Theft))
	assert.Equal(t, 0, d.Crosstab[0].Count(domain.Fraud))
}

func TestCompute_Empty(t *testing.T) {
	d := Compute(nil)

	assert.Empty(t, d.Histogram)
	assert.Empty(t, d.Trend)
	assert.Empty(t, d.Crosstab)
	assert.Equal(t, Summary{}, d.Summary)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":{"totalReports":0,"categories":0,"years":0},"histogram":[],"trend":[],"crosstab":[]}`, string(data))
}

func TestCategoryHistogram_FirstOccurrenceOrder(t *testing.T) {
	reports := []domain.Report{
		{Crime: domain.Harassment},
		{Crime: domain.Theft},
		{Crime: ""},
		{Crime: "Arson"},
		{Crime: domain.Harassment},
		{Crime: domain.Other},
	}

	h := CategoryHistogram(reports)

	assert.Equal(t, Histogram{{domain.Harassment, 2}, {domain.Theft, 1}, {domain.Other, 2}}, h)
	assert.Equal(t, 5, h.Total())
	assert.Equal(t, 0, h.Get(domain.Fraud))
}

func TestYearlyTrend_NumericOrder(t *testing.T) {
	reports := []domain.Report{
		{Crime: domain.Theft, CreatedAt: at(2024)},
		{Crime: domain.Theft, CreatedAt: at(999)},
		{Crime: domain.Theft, CreatedAt: at(10000)},
		{Crime: domain.Theft, CreatedAt: at(2024)},
	}

	assert.Equal(t, []YearCount{{999, 1}, {2024, 2}, {10000, 1}}, YearlyTrend(reports))
}

func TestYearlyTrend_UsesUTCYear(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	r := domain.Report{Crime: domain.Theft, CreatedAt: time.Date(2024, 1, 1, 2, 0, 0, 0, ist)}

	assert.Equal(t, []YearCount{{2023, 1}}, YearlyTrend([]domain.Report{r}))
}

func TestCrosstabRow_MarshalJSON(t *testing.T) {
	row := CrosstabRow{Year: 2023, Counts: map[domain.Category]int{
		domain.Other:               1,
		domain.Theft:               4,
		domain.BreakingAndEntering: 2,
	}}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"year":2023,"Theft":4,"Breaking and Entering":2,"Other":1}`, string(data))
}

func randomReports(rng *rand.Rand, n int) []domain.Report {
	cats := append(domain.Categories(), "", "Arson")
	out := make([]domain.Report, n)
	for i := range out {
		r := domain.Report{ID: strconv.Itoa(i), Crime: cats[rng.IntN(len(cats))]}
		if rng.IntN(3) > 0 {
			r.CreatedAt = at(2015 + rng.IntN(10)).Add(time.Duration(rng.IntN(365*24)) * time.Hour)
		}
		out[i] = r
	}
	return out
}

func TestAggregates_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for iter := 0; iter < 50; iter++ {
		reports := randomReports(rng, rng.IntN(200))

		withCrime, withTime := 0, 0
		for _, r := range reports {
			if r.Crime != "" {
				withCrime++
			}
			if !r.CreatedAt.IsZero() {
				withTime++
			}
		}

		h := CategoryHistogram(reports)
		assert.Equal(t, withCrime, h.Total())
		for _, cc := range h {
			assert.GreaterOrEqual(t, cc.Count, 1)
			assert.True(t, cc.Category.Valid())
		}

		trend := YearlyTrend(reports)
		sum := 0
		for i, yc := range trend {
			sum += yc.Count
			if i > 0 {
				assert.Less(t, trend[i-1].Year, yc.Year)
			}
		}
		assert.Equal(t, withTime, sum)

		crosstab := YearCategoryCrosstab(reports)
		for i, row := range crosstab {
			if i > 0 {
				assert.Less(t, crosstab[i-1].Year, row.Year)
			}
			for c, n := range row.Counts {
				assert.True(t, c.Valid())
				assert.GreaterOrEqual(t, n, 1)
			}
		}

		s := Summarize(reports, h, trend)
		assert.Equal(t, len(reports), s.TotalReports)
		assert.Equal(t, len(h), s.Categories)
		assert.Equal(t, len(trend), s.Years)
	}
}
