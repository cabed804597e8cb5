package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshZadePM/localreco/internal/cache"
	"github.com/AshZadePM/localreco/internal/config"
	"github.com/AshZadePM/localreco/internal/domain"
)

type stubService struct {
	calls int
}

func (s *stubService) SearchAndAggregate(_ context.Context, city, query string) *domain.SearchResponse {
	s.calls++
	return &domain.SearchResponse{
		Query: query,
		City:  city,
		Results: []domain.EstablishmentResult{{
			DisplayName:    "Joe's Pizza",
			SentimentLabel: domain.LabelPositive,
			MentionCount:   3,
			MapURL:         "https://maps.example/joes",
		}},
		TotalResults: 1,
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(ceiling int, redis Pinger) (*Server, *stubService) {
	cfg := &config.Config{
		Port:              "8080",
		HTTPRatePerSecond: 1000,
		HTTPRateBurst:     1000,
	}
	svc := &stubService{}
	clock := clockwork.NewFakeClock()
	admission := cache.NewRateLimiter(time.Minute, ceiling, clock)
	store := cache.New(time.Minute, clock)
	return New(cfg, svc, admission, store, redis), svc
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch_OK(t *testing.T) {
	srv, svc := newTestServer(30, nil)

	rec := doRequest(srv, http.MethodGet, "/api/search?city=New+York&q=pizza")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pizza", resp.Query)
	assert.Equal(t, "New York", resp.City)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Joe's Pizza", resp.Results[0].DisplayName)
	assert.Equal(t, 1, svc.calls)
}

func TestHandleSearch_MissingParams(t *testing.T) {
	srv, svc := newTestServer(30, nil)

	assert.Equal(t, http.StatusBadRequest, doRequest(srv, http.MethodGet, "/api/search?q=pizza").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(srv, http.MethodGet, "/api/search?city=Boston").Code)
	assert.Equal(t, 0, svc.calls, "invalid requests never reach the pipeline")
}

func TestHandleSearch_AdmissionRefused(t *testing.T) {
	srv, svc := newTestServer(1, nil)

	require.Equal(t, http.StatusOK, doRequest(srv, http.MethodGet, "/api/search?city=Boston&q=ramen").Code)

	rec := doRequest(srv, http.MethodGet, "/api/search?city=Boston&q=ramen")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, svc.calls, "refused request must not invoke the pipeline")
}

func TestHandleCacheStatsAndClear(t *testing.T) {
	srv, _ := newTestServer(30, nil)
	srv.store.Set("k", "v", 0)
	srv.store.Get("k")

	rec := doRequest(srv, http.MethodGet, "/api/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(1), stats["keyCount"])
	assert.Equal(t, float64(1), stats["hitCount"])

	require.Equal(t, http.StatusOK, doRequest(srv, http.MethodPost, "/api/cache/clear").Code)

	rec = doRequest(srv, http.MethodGet, "/api/cache/stats")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(0), stats["keyCount"])
}

func TestHandleLiveness(t *testing.T) {
	srv, _ := newTestServer(30, nil)
	assert.Equal(t, http.StatusOK, doRequest(srv, http.MethodGet, "/health/live").Code)
}

func TestHandleReadiness(t *testing.T) {
	srv, _ := newTestServer(30, nil)
	assert.Equal(t, http.StatusOK, doRequest(srv, http.MethodGet, "/health/ready").Code,
		"no redis configured means nothing to check")

	srv, _ = newTestServer(30, failingPinger{})
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(srv, http.MethodGet, "/health/ready").Code)
}

func TestHandleVersion(t *testing.T) {
	srv, _ := newTestServer(30, nil)
	rec := doRequest(srv, http.MethodGet, "/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}
