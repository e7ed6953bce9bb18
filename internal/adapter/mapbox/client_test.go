package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Connaught Place")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{
					Center:    []float64{77.2167, 28.6315},
					PlaceName: "Connaught Place, New Delhi, Delhi, India",
					Text:      "Connaught Place",
					Relevance: 0.95,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	places, err := c.Search(context.Background(), "Connaught Place")
	require.NoError(t, err)
	require.Len(t, places, 1)

	assert.Equal(t, 28.6315, places[0].Lat)
	assert.Equal(t, 77.2167, places[0].Lon)
	assert.Equal(t, "Connaught Place, New Delhi, Delhi, India", places[0].DisplayName)
	assert.Equal(t, "Connaught Place", places[0].PlaceName)
	assert.Equal(t, 0.95, places[0].Confidence)
}

func TestClient_Reverse_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "77.209000,28.613900")
		resp := response{
			Features: []feature{
				{
					Center:    []float64{77.2089, 28.6138},
					PlaceName: "Janpath, New Delhi, Delhi, India",
					Text:      "Janpath",
					Relevance: 0.98,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Reverse(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)

	assert.Equal(t, "Janpath, New Delhi, Delhi, India", result.DisplayName)
	assert.Equal(t, "Janpath", result.PlaceName)
	assert.Equal(t, 0.98, result.Confidence)
	assert.Equal(t, 28.6139, result.Lat, "reverse keeps the queried coordinates")
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	places, err := c.Search(context.Background(), "NONEXISTENT")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestClient_Reverse_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Reverse(context.Background(), 0, -150)
	require.NoError(t, err)
	assert.Empty(t, result.DisplayName)
}

func TestClient_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.token = "bad-token"

	_, err := c.Search(context.Background(), "Delhi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Search(context.Background(), "Delhi")
	require.Error(t, err)
}
