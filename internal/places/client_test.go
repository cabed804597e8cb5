package places

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshZadePM/localreco/internal/cache"
)

func newTestClient(apiKey, serverURL string) *Client {
	c := NewClient(apiKey, cache.New(time.Minute, clockwork.NewRealClock()))
	if serverURL != "" {
		c.baseURL = serverURL
	}
	return c
}

func TestLookup_UnconfiguredFallsBack(t *testing.T) {
	client := newTestClient("", "")

	place, err := client.Lookup(context.Background(), "Joe's Pizza", "New York")

	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza", place.DisplayName)
	assert.Contains(t, place.MapURL, "google.com/maps/search")
	assert.Contains(t, place.MapURL, "Joe%27s+Pizza+New+York")
}

func TestLookup_ResolvesCanonicalName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query"), "Joe's Pizza")
		fmt.Fprint(w, `{"status":"OK","results":[{"name":"Joe's Pizza Broadway","place_id":"pid-123"}]}`)
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	place, err := client.Lookup(context.Background(), "Joe's Pizza", "New York")

	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza Broadway", place.DisplayName)
	assert.Contains(t, place.MapURL, "query_place_id=pid-123")
}

func TestLookup_ZeroResultsFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	place, err := client.Lookup(context.Background(), "Nowhere Bistro", "Gotham")

	require.NoError(t, err)
	assert.Equal(t, "Nowhere Bistro", place.DisplayName)
	assert.NotEmpty(t, place.MapURL)
}

func TestLookup_UpstreamFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	place, err := client.Lookup(context.Background(), "Joe's Pizza", "New York")

	require.NoError(t, err, "upstream failure must never surface")
	assert.Equal(t, "Joe's Pizza", place.DisplayName)
	assert.NotEmpty(t, place.MapURL)
}

func TestLookup_ResultsAreCached(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"status":"OK","results":[{"name":"Joe's Pizza","place_id":"pid-123"}]}`)
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	_, err := client.Lookup(context.Background(), "Joe's Pizza", "New York")
	require.NoError(t, err)
	_, err = client.Lookup(context.Background(), "joe's pizza", "new york")
	require.NoError(t, err)

	assert.Equal(t, 1, requests, "second lookup should be served from cache")
}
