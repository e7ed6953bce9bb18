// Package store reads and writes the report collection through an opaque
// key-value service, normalizing every record on the way out.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
)

// DefaultCollection is the path reports live under.
const DefaultCollection = "reports"

// maxCreateAttempts bounds how many IDs Create tries when other writers
// sharing the collection have already taken them.
const maxCreateAttempts = 8

// ErrRecordExists is returned by KV.Write when the record path is taken.
var ErrRecordExists = errors.New("record already exists")

// Entry is one child of a collection snapshot.
type Entry struct {
	Key   string
	Value []byte
}

// KV is the backing key-value service.
type KV interface {
	// Read returns every child of collection. found is false when the
	// collection does not exist, which is not an error.
	Read(ctx context.Context, collection string) (entries []Entry, found bool, err error)

	// Write creates value at recordPath ("<collection>/<key>"). It returns
	// ErrRecordExists and leaves the stored value alone when the path is
	// already taken.
	Write(ctx context.Context, recordPath string, value []byte) error

	// Ping checks connectivity for readiness checks.
	Ping(ctx context.Context) error
}

// Publisher announces newly created reports to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, report domain.Report) error
}

// RecordPath joins a collection and a key into a record path.
func RecordPath(collection, key string) string {
	return collection + "/" + key
}

// SplitRecordPath is the inverse of RecordPath. The key is everything after
// the last slash.
func SplitRecordPath(path string) (collection, key string, ok bool) {
	i := strings.LastIndexByte(path, '/')
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// DecodeCollection reads a JSON collection snapshot. null means the
// collection is absent. Objects whose keys are small sequential integers may
// arrive as arrays with null holes, so both shapes are accepted.
func DecodeCollection(body []byte) ([]Entry, bool, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, false, nil
	}

	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, false, fmt.Errorf("decode collection: %w", err)
		}
		entries := make([]Entry, 0, len(items))
		for i, raw := range items {
			if raw == nil || bytes.Equal(raw, []byte("null")) {
				continue
			}
			entries = append(entries, Entry{Key: strconv.Itoa(i), Value: raw})
		}
		return entries, true, nil
	}

	var children map[string]json.RawMessage
	if err := json.Unmarshal(body, &children); err != nil {
		return nil, false, fmt.Errorf("decode collection: %w", err)
	}
	entries := make([]Entry, 0, len(children))
	for key, raw := range children {
		entries = append(entries, Entry{Key: key, Value: raw})
	}
	return entries, true, nil
}

// Store implements FetchAll and Create over a KV.
type Store struct {
	kv         KV
	collection string
	publisher  Publisher
	ids        domain.IDGenerator
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Store. publisher may be nil.
func New(kv KV, collection string, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{
		kv:         kv,
		collection: collection,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchAll reads the whole collection in one call and returns it as
// normalized reports in creation order. A missing collection yields an empty
// slice. Malformed records are repaired, never dropped.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Report, error) {
	start := time.Now()
	entries, found, err := s.kv.Read(ctx, s.collection)
	s.metrics.StoreDuration.WithLabelValues("read").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.StoreOperations.WithLabelValues("read", "error").Inc()
		return nil, fmt.Errorf("read %s: %w: %w", s.collection, domain.ErrStoreUnavailable, err)
	}
	s.metrics.StoreOperations.WithLabelValues("read", "success").Inc()

	if !found || len(entries) == 0 {
		s.metrics.ReportsFetched.Observe(0)
		return []domain.Report{}, nil
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return domain.CompareIDs(a.Key, b.Key)
	})

	reports := make([]domain.Report, 0, len(entries))
	for _, e := range entries {
		report, repairs := domain.NormalizeRecord(e.Key, e.Value)
		if len(repairs) > 0 {
			for _, r := range repairs {
				s.metrics.RecordsRepaired.WithLabelValues(string(r)).Inc()
			}
			s.logger.Debug("repaired stored report", "report_id", e.Key, "repairs", repairs)
		}
		reports = append(reports, report)
	}

	s.metrics.ReportsFetched.Observe(float64(len(reports)))
	return reports, nil
}

// Create validates a draft, assigns an ID and creation time, and writes it.
// Nothing is written when validation fails. An ID already taken by another
// writer sharing the collection is skipped for the generator's next one.
func (s *Store) Create(ctx context.Context, draft domain.ReportDraft) (domain.Report, error) {
	if err := domain.ValidateDraft(draft); err != nil {
		field := "unknown"
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			field = verr.Field
		}
		s.metrics.ValidationErrors.WithLabelValues(field).Inc()
		return domain.Report{}, err
	}

	coords := *draft.Location.Coordinates
	report := domain.Report{
		Crime:       domain.Classify(strings.TrimSpace(draft.Crime)),
		Description: strings.TrimSpace(draft.Description),
		Victim: domain.Victim{
			Name:    strings.TrimSpace(draft.VictimName),
			Contact: strings.TrimSpace(draft.VictimContact),
			Age:     draft.VictimAge,
		},
		Location: domain.Location{
			Address:     draft.Location.Address,
			Coordinates: &coords,
		},
	}

	var err error
	for attempt := 1; ; attempt++ {
		report.ID, report.CreatedAt = s.ids.Next()
		err = s.write(ctx, report)
		if !errors.Is(err, ErrRecordExists) {
			break
		}
		s.metrics.StoreOperations.WithLabelValues("write", "conflict").Inc()
		s.logger.Debug("report id taken, retrying", "report_id", report.ID, "attempt", attempt)
		if attempt == maxCreateAttempts {
			break
		}
	}
	if err != nil {
		s.metrics.StoreOperations.WithLabelValues("write", "error").Inc()
		return domain.Report{}, fmt.Errorf("write report %s: %w: %w", report.ID, domain.ErrStoreUnavailable, err)
	}
	s.metrics.StoreOperations.WithLabelValues("write", "success").Inc()
	s.metrics.ReportsCreated.Inc()
	s.logger.Info("report created", "report_id", report.ID, "crime", report.Crime)

	s.publish(ctx, report)
	return report, nil
}

func (s *Store) write(ctx context.Context, report domain.Report) error {
	data, err := domain.EncodeRecord(report)
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.kv.Write(ctx, RecordPath(s.collection, report.ID), data)
	s.metrics.StoreDuration.WithLabelValues("write").Observe(time.Since(start).Seconds())
	return err
}

// publish is best effort: the report is already persisted.
func (s *Store) publish(ctx context.Context, report domain.Report) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.Error("publish report event failed", "report_id", report.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}

// CheckReadiness reports whether the backing service is reachable.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.kv.Ping(ctx); err != nil {
		return fmt.Errorf("report store: %w", err)
	}
	return nil
}
