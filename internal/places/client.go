// Package places resolves establishment names into canonical display names
// and map URLs via the Google Places text search API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AshZadePM/localreco/internal/cache"
	"github.com/AshZadePM/localreco/internal/domain"
	"github.com/AshZadePM/localreco/internal/metrics"
)

const (
	textSearchURL  = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	mapsSearchURL  = "https://www.google.com/maps/search/?api=1"
	requestTimeout = 5 * time.Second
	lookupTTL      = 24 * time.Hour
)

// Client looks up places, caching results per (name, locality) and tripping a
// circuit breaker when the Places API misbehaves. Lookup always produces a
// usable map URL: unresolved names, an open breaker, and an unconfigured
// client all fall back to a generic maps search link.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      *cache.Cache
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(apiKey string, lookupCache *cache.Cache) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "places",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Places circuit breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    textSearchURL,
		apiKey:     apiKey,
		cache:      lookupCache,
		breaker:    breaker,
	}
}

// Lookup resolves name near locality. It never returns an error for upstream
// trouble; the generic fallback place is the recovery value.
func (c *Client) Lookup(ctx context.Context, name, locality string) (domain.Place, error) {
	if c.apiKey == "" {
		return fallback(name, locality), nil
	}

	key := "place:" + strings.ToLower(name) + "|" + strings.ToLower(locality)
	place, err := cache.GetOrCompute(ctx, c.cache, key, lookupTTL, func(ctx context.Context) (domain.Place, error) {
		return c.resolve(ctx, name, locality)
	})
	if err != nil {
		slog.Warn("Place lookup failed, using generic map link", "name", name, "error", err)
		return fallback(name, locality), nil
	}
	return place, nil
}

func (c *Client) resolve(ctx context.Context, name, locality string) (domain.Place, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.textSearch(ctx, name, locality)
	})
	if err != nil {
		return domain.Place{}, err
	}
	return result.(domain.Place), nil
}

func (c *Client) textSearch(ctx context.Context, name, locality string) (domain.Place, error) {
	endpoint := fmt.Sprintf("%s?query=%s&key=%s",
		c.baseURL, url.QueryEscape(name+" "+locality), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Place{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("places", "error").Inc()
		return domain.Place{}, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues("places", "error").Inc()
		return domain.Place{}, fmt.Errorf("places returned status %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			Name    string `json:"name"`
			PlaceID string `json:"place_id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.UpstreamRequests.WithLabelValues("places", "error").Inc()
		return domain.Place{}, fmt.Errorf("failed to decode places response: %w", err)
	}

	metrics.UpstreamRequests.WithLabelValues("places", "ok").Inc()

	if body.Status != "OK" || len(body.Results) == 0 {
		// Not an upstream failure: the name just did not resolve.
		return fallback(name, locality), nil
	}

	top := body.Results[0]
	mapURL := fmt.Sprintf("%s&query=%s&query_place_id=%s",
		mapsSearchURL, url.QueryEscape(top.Name+" "+locality), url.QueryEscape(top.PlaceID))
	return domain.Place{DisplayName: top.Name, MapURL: mapURL}, nil
}

func fallback(name, locality string) domain.Place {
	return domain.Place{
		DisplayName: name,
		MapURL:      fmt.Sprintf("%s&query=%s", mapsSearchURL, url.QueryEscape(name+" "+locality)),
	}
}
