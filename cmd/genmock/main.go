// Command genmock writes a deterministic Realtime Database export of mock
// crime reports. Reports go through the real store create path, so the
// output has exactly the stored shape the service writes. A handful of
// legacy-shaped records are added to exercise normalization.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/reports_export.json -count 200 -legacy 10
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/memstore"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/stats"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/store"
)

var baseDate = time.Date(2021, time.January, 1, 9, 0, 0, 0, time.UTC)

type place struct {
	address  string
	lat, lng float64
}

var places = []place{
	{"Connaught Place, New Delhi", 28.6315, 77.2167},
	{"Karol Bagh, New Delhi", 28.6519, 77.1909},
	{"Chandni Chowk, Delhi", 28.6506, 77.2303},
	{"Lajpat Nagar, New Delhi", 28.5677, 77.2433},
	{"Saket, New Delhi", 28.5245, 77.2066},
	{"Hauz Khas, New Delhi", 28.5494, 77.2001},
	{"Dwarka Sector 10, New Delhi", 28.5811, 77.0574},
	{"Rohini Sector 7, Delhi", 28.7158, 77.1135},
	{"Mayur Vihar Phase 1, Delhi", 28.6044, 77.2946},
	{"Janakpuri, New Delhi", 28.6219, 77.0878},
}

var descriptions = map[domain.Category][]string{
	domain.Theft:               {"Phone snatched near metro exit", "Wallet stolen in crowded market", "Bicycle taken from parking"},
	domain.Assault:             {"Attacked by two men after an argument", "Physical altercation outside a bar"},
	domain.Vandalism:           {"Car windows smashed overnight", "Graffiti on shop shutters"},
	domain.Fraud:               {"Fake UPI payment request", "Card skimmed at ATM"},
	domain.Harassment:          {"Followed home from bus stop", "Repeated threatening calls"},
	domain.BreakingAndEntering: {"House lock broken while family away", "Shop entered through back window"},
	domain.Other:               {"Suspicious unattended bag", "Noise complaint escalated"},
}

var names = []string{"Aarav", "Priya", "Rohan", "Ananya", "Vikram", "Sneha", "Kabir", "Meera", "Arjun", "Isha"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the export JSON")
	count := flag.Int("count", 200, "reports created through the store")
	legacy := flag.Int("legacy", 10, "additional records in the legacy shape")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	clock := clockwork.NewFakeClockAt(baseDate)
	domain.SetClock(clock)
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	kv := memstore.New()
	s := store.New(kv, store.DefaultCollection, nil, logger, observability.NewMetrics())

	ctx := context.Background()
	for range *count {
		clock.Advance(time.Duration(2+rng.IntN(238)) * time.Hour)
		if _, err := s.Create(ctx, randomDraft(rng)); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
	}
	if err := writeLegacy(ctx, kv, rng, *legacy); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := kv.Export(f); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	log.Printf("wrote %d reports (%d legacy): %s", *count+*legacy, *legacy, *out)

	reports, err := s.FetchAll(ctx)
	if err != nil {
		return err
	}
	printStats(stats.Compute(reports))
	return nil
}

func randomDraft(rng *rand.Rand) domain.ReportDraft {
	cats := domain.Categories()
	crime := cats[rng.IntN(len(cats))]
	p := places[rng.IntN(len(places))]
	descs := descriptions[crime]
	name := names[rng.IntN(len(names))]

	d := domain.ReportDraft{
		Crime: string(crime),
		Location: domain.ResolvedLocation{
			Address:     p.address,
			Coordinates: jitter(rng, p),
		}.AsLocation(),
		Description:   descs[rng.IntN(len(descs))],
		VictimName:    name,
		VictimContact: fmt.Sprintf("98%08d", rng.IntN(100_000_000)),
	}
	if rng.IntN(10) < 6 {
		age := 18 + rng.IntN(63)
		d.VictimAge = &age
	}
	return d
}

// jitter spreads reports around a neighbourhood by up to about 500 m.
func jitter(rng *rand.Rand, p place) domain.LatLng {
	return domain.LatLng{
		Lat: p.lat + (rng.Float64()-0.5)*0.01,
		Lng: p.lng + (rng.Float64()-0.5)*0.01,
	}
}

// writeLegacy stores records the way the first release of the form did:
// no created_at, text ages, and free-text crime labels.
func writeLegacy(ctx context.Context, kv store.KV, rng *rand.Rand, n int) error {
	labels := []string{"Theft", "Assault", "Pickpocketing", "Vandalism", ""}
	start := baseDate.AddDate(0, -6, 0).UnixMilli()
	for i := range n {
		p := places[rng.IntN(len(places))]
		rec := map[string]any{
			"crime": labels[i%len(labels)],
			"location": map[string]any{
				"address":     p.address,
				"coordinates": []float64{p.lat, p.lng},
			},
			"crimeDescription": "Reported before timestamps were recorded",
			"victimName":       names[rng.IntN(len(names))],
			"victimContact":    "not provided",
			"victimAge":        strconv.Itoa(20 + rng.IntN(50)),
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode legacy record: %w", err)
		}
		id := strconv.FormatInt(start+int64(i)*int64(time.Hour/time.Millisecond), 10)
		if err := kv.Write(ctx, store.RecordPath(store.DefaultCollection, id), raw); err != nil {
			return fmt.Errorf("write legacy record: %w", err)
		}
	}
	return nil
}

func printStats(d stats.Dashboard) {
	log.Printf("total: %d reports, %d categories, %d years",
		d.Summary.TotalReports, d.Summary.Categories, d.Summary.Years)
	for _, c := range d.Histogram {
		log.Printf("  %-22s %d", c.Category, c.Count)
	}
	for _, y := range d.Trend {
		log.Printf("  %d: %d", y.Year, y.Count)
	}
}
