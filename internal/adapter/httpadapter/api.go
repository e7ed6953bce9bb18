package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/mapview"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/stats"
)

const maxDraftBytes = 64 << 10

type categoryView struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type taxonomyResponse struct {
	Categories    []categoryView `json:"categories"`
	DefaultCenter domain.LatLng  `json:"default_center"`
	DefaultZoom   int            `json:"default_zoom"`
}

// reportView adds the display timestamp list views sort and label by.
type reportView struct {
	domain.Report
	ReportedAt string `json:"reported_at,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, _ *http.Request) {
	cats := domain.Categories()
	resp := taxonomyResponse{
		Categories:    make([]categoryView, 0, len(cats)),
		DefaultCenter: mapview.DefaultCenter,
		DefaultZoom:   mapview.DefaultZoom,
	}
	for _, c := range cats {
		resp.Categories = append(resp.Categories, categoryView{Name: string(c), Icon: domain.IconFor(c)})
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, ok := s.selectedReports(w, r)
	if !ok {
		return
	}
	views := make([]reportView, len(reports))
	for i, rep := range reports {
		views[i] = reportView{Report: rep}
		if ts, ok := rep.Timestamp(); ok {
			views[i].ReportedAt = ts.UTC().Format(time.RFC3339)
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	var bounds *domain.Bounds
	if raw := r.URL.Query().Get("bbox"); raw != "" {
		b, err := domain.ParseBounds(raw)
		if err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "bbox"})
			return
		}
		bounds = &b
	}

	reports, ok := s.selectedReports(w, r)
	if !ok {
		return
	}
	if bounds != nil {
		reports = domain.WithinBounds(reports, *bounds)
	}

	data, err := mapview.MarshalMarkers(reports)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// selectedReports loads the snapshot and applies the ?crime= selector.
func (s *Server) selectedReports(w http.ResponseWriter, r *http.Request) ([]domain.Report, bool) {
	sel, err := domain.ParseSelector(r.URL.Query().Get("crime"))
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "crime"})
		return nil, false
	}
	reports, err := s.reports.FetchAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return domain.Filter(reports, sel), true
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var draft domain.ReportDraft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDraftBytes))
	if err := dec.Decode(&draft); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report body"})
		return
	}

	report, err := s.reports.Create(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, report)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.FetchAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, stats.Compute(reports))
}

func (s *Server) handleGeocodeSearch(w http.ResponseWriter, r *http.Request) {
	loc, err := s.locator.Forward(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, loc)
}

func (s *Server) handleGeocodeReverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "location", Message: "Please select a location"})
		return
	}

	loc, err := s.locator.Reverse(r.Context(), domain.LatLng{Lat: lat, Lng: lon})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, loc)
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrNotFound):
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrResolverUnavailable):
		s.logger.Warn("geocoding failed", "path", r.URL.Path, "error", err)
		sharedobs.WriteJSON(w, http.StatusBadGateway, errorResponse{Error: domain.ErrResolverUnavailable.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logger.Error("report store failed", "path", r.URL.Path, "error", err)
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, errorResponse{Error: domain.ErrStoreUnavailable.Error()})
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
