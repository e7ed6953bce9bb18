// Package nominatim implements domain.Geocoder on the OpenStreetMap
// Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

// DefaultBaseURL is the public OpenStreetMap instance. Its usage policy
// allows one request per second and requires an identifying User-Agent.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client implements domain.Geocoder using Nominatim.
type Client struct {
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Nominatim client limited to requestsPerSecond.
func NewClient(baseURL, userAgent string, requestsPerSecond float64, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, 1),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Search returns the best match for a free-text address.
func (c *Client) Search(ctx context.Context, text string) ([]domain.Place, error) {
	params := url.Values{
		"format": {"json"},
		"q":      {text},
		"limit":  {"1"},
	}
	var results []place
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, fmt.Errorf("forward geocode: %w", err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		p, err := r.toPlace()
		if err != nil {
			c.logger.Warn("skipping malformed nominatim result", "query", text, "error", err)
			continue
		}
		places = append(places, p)
	}
	return places, nil
}

// Reverse returns place details for a coordinate pair.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	params := url.Values{
		"format": {"json"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	var result place
	if err := c.get(ctx, "/reverse", params, &result); err != nil {
		return domain.Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	if result.Error != "" {
		return domain.Place{}, fmt.Errorf("reverse geocode: nominatim: %s", result.Error)
	}
	return domain.Place{
		Lat:         lat,
		Lon:         lon,
		DisplayName: result.DisplayName,
		PlaceName:   result.Name,
		Confidence:  result.Importance,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", strings.TrimPrefix(path, "/"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Nominatim API response types. Coordinates arrive as strings.

type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Name        string  `json:"name"`
	Importance  float64 `json:"importance"`
	Error       string  `json:"error"`
}

func (p place) toPlace() (domain.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	return domain.Place{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		PlaceName:   p.Name,
		Confidence:  p.Importance,
	}, nil
}
