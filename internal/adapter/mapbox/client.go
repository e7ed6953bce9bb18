// Package mapbox implements domain.Geocoder on the Mapbox Geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		logger:  logger,
	}
}

// Search converts a free-text address to its best match.
func (c *Client) Search(ctx context.Context, text string) ([]domain.Place, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(text))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
	}

	features, err := c.doRequest(ctx, u+"?"+params.Encode(), "forward")
	if err != nil {
		return nil, err
	}
	places := make([]domain.Place, 0, len(features))
	for _, f := range features {
		if len(f.Center) != 2 {
			c.logger.Warn("skipping mapbox feature without center", "query", text, "place_name", f.PlaceName)
			continue
		}
		places = append(places, f.toPlace())
	}
	return places, nil
}

// Reverse converts coordinates to place details.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	// Mapbox uses lon,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lon, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
	}

	features, err := c.doRequest(ctx, u+"?"+params.Encode(), "reverse")
	if err != nil {
		return domain.Place{}, err
	}
	if len(features) == 0 {
		return domain.Place{Lat: lat, Lon: lon}, nil
	}
	p := features[0].toPlace()
	p.Lat, p.Lon = lat, lon
	return p, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, source string) ([]feature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s geocode request: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return mapboxResp.Features, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}

func (f feature) toPlace() domain.Place {
	p := domain.Place{
		DisplayName: f.PlaceName,
		PlaceName:   f.Text,
		Confidence:  f.Relevance,
	}
	if len(f.Center) == 2 {
		p.Lon = f.Center[0]
		p.Lat = f.Center[1]
	}
	return p
}
