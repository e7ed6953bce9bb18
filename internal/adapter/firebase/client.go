// Package firebase implements store.KV over the Firebase Realtime Database
// REST API, where every path is addressable as "<database>/<path>.json".
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/store"
)

// Client talks to one Realtime Database instance.
type Client struct {
	baseURL    string
	auth       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for databaseURL, e.g.
// "https://<project>-default-rtdb.firebaseio.com". auth is a database secret
// or ID token and may be empty for public rules.
func NewClient(databaseURL, auth string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(databaseURL, "/"),
		auth:    auth,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) url(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if c.auth != "" {
		params.Set("auth", c.auth)
	}
	u := c.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Read fetches the whole collection in one request. The database answers
// null for a missing path.
func (c *Client) Read(ctx context.Context, collection string) ([]store.Entry, bool, error) {
	body, err := c.do(ctx, http.MethodGet, c.url(collection, nil), nil, nil)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", collection, err)
	}
	entries, found, err := store.DecodeCollection(body)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", collection, err)
	}
	return entries, found, nil
}

// nullETag is the ETag the database reports for a path that holds no data.
// A PUT conditioned on it only succeeds while the path is empty.
const nullETag = "null_etag"

// Write creates the record at recordPath with a conditional PUT. The
// database answers 412 when another writer got there first.
func (c *Client) Write(ctx context.Context, recordPath string, value []byte) error {
	header := http.Header{}
	header.Set("if-match", nullETag)
	if _, err := c.do(ctx, http.MethodPut, c.url(recordPath, nil), value, header); err != nil {
		return fmt.Errorf("write %s: %w", recordPath, err)
	}
	return nil
}

// Ping performs a shallow read of the database root.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodGet, c.url("", url.Values{"shallow": {"true"}}), nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, fullURL string, payload []byte, header http.Header) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusPreconditionFailed {
		return nil, store.ErrRecordExists
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("realtime database request failed", "method", method, "status", resp.StatusCode)
		return nil, fmt.Errorf("realtime database error: status %d: %s", resp.StatusCode, apiError(body))
	}
	return body, nil
}

// apiError extracts {"error": "..."} when present.
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}
