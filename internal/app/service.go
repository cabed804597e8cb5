// Package app wires the extraction, aggregation, sentiment and lookup
// components into the end-to-end search operation.
package app

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/AshZadePM/localreco/internal/domain"
	"github.com/AshZadePM/localreco/internal/mentions"
	"github.com/AshZadePM/localreco/internal/metrics"
	"github.com/AshZadePM/localreco/internal/sentiment"
)

// baseChannels is always searched; city-derived channels are added per query.
var baseChannels = []string{"food", "restaurants", "FoodPorn"}

const (
	// fallbackChannel catches discussion that lives outside food communities.
	fallbackChannel = "AskReddit"

	// querySuffix biases the content search toward eating establishments.
	querySuffix = " restaurant"

	// enrichmentConcurrency bounds parallel place lookups per search.
	enrichmentConcurrency = 4
)

// Service is the aggregation orchestrator. It owns the partial-failure
// policy: a dead search upstream yields an empty response, a failed
// enrichment drops only that establishment, and the caller never sees a hard
// failure.
type Service struct {
	search    domain.SearchClient
	places    domain.PlaceClient
	combiner  *sentiment.Combiner
	responses ResponseCache
	clock     clockwork.Clock
}

func NewService(search domain.SearchClient, places domain.PlaceClient, combiner *sentiment.Combiner, responses ResponseCache, clock clockwork.Clock) *Service {
	return &Service{
		search:    search,
		places:    places,
		combiner:  combiner,
		responses: responses,
		clock:     clock,
	}
}

// SearchAndAggregate answers one (city, query) search. The result is always
// structurally valid; it is served from cache when a previous answer for the
// same lowercased key is still fresh.
func (s *Service) SearchAndAggregate(ctx context.Context, city, query string) *domain.SearchResponse {
	key := cacheKey(city, query)

	if cached, ok := s.responses.Get(ctx, key); ok {
		resp := *cached
		resp.FromCache = true
		return &resp
	}

	started := s.clock.Now()
	resp, cacheable := s.compute(ctx, city, query)
	metrics.SearchDuration.Observe(s.clock.Since(started).Seconds())

	if cacheable {
		s.responses.Set(ctx, key, resp)
	}
	return resp
}

// compute runs the full pipeline. The second return is false when the search
// upstream failed outright: that empty response is a stopgap for this one
// caller and must not shadow recovered results for a whole TTL.
func (s *Service) compute(ctx context.Context, city, query string) (*domain.SearchResponse, bool) {
	resp := &domain.SearchResponse{
		Query:        query,
		City:         city,
		Results:      []domain.EstablishmentResult{},
		ComputedAtMs: s.clock.Now().UnixMilli(),
	}

	results, err := s.search.Search(ctx, query+querySuffix, channelsFor(city))
	if err != nil {
		slog.Warn("Content search unavailable, returning empty response", "city", city, "query", query, "error", err)
		return resp, false
	}

	var found []domain.Mention
	docTexts := make(map[string]string)

	for _, post := range results.Posts {
		found = append(found, mentions.Extract(post.Title, domain.SourceTitle, post.ID)...)
		found = append(found, mentions.Extract(post.Body, domain.SourceBody, post.ID)...)
		docTexts[post.ID] = strings.TrimSpace(post.Title + "\n" + post.Body)
	}
	for _, comment := range results.Comments {
		found = append(found, mentions.Extract(comment.Body, domain.SourceComment, comment.ID)...)
		docTexts[comment.ID] = comment.Body
	}

	resp.Results = s.enrich(ctx, city, mentions.Aggregate(found), docTexts)
	resp.TotalResults = len(resp.Results)
	return resp, true
}

// enrich scores and geo-references each aggregated establishment. Lookups run
// concurrently but land in aggregation order, so the stable sort keeps ties
// reproducible. An establishment whose enrichment fails is dropped with a
// warning while the rest proceed.
func (s *Service) enrich(ctx context.Context, city string, aggregated []domain.AggregatedEstablishment, docTexts map[string]string) []domain.EstablishmentResult {
	slots := make([]*domain.EstablishmentResult, len(aggregated))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichmentConcurrency)

	for i, est := range aggregated {
		i, est := i, est
		g.Go(func() error {
			texts := make([]string, 0, len(est.SourceDocIDs))
			for _, docID := range est.SourceDocIDs {
				texts = append(texts, docTexts[docID])
			}
			score := s.combiner.Combine(texts)

			place, err := s.places.Lookup(gctx, est.Name, city)
			if err != nil {
				slog.Warn("Dropping establishment, enrichment failed", "name", est.Name, "error", err)
				metrics.EstablishmentsDropped.Inc()
				return nil
			}

			slots[i] = &domain.EstablishmentResult{
				DisplayName:          place.DisplayName,
				SentimentScore:       score.Raw,
				SentimentLabel:       score.Label,
				SentimentComparative: score.Comparative,
				MentionCount:         est.MentionCount,
				MapURL:               place.MapURL,
				SourceDocIDs:         est.SourceDocIDs,
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.EstablishmentResult, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			out = append(out, *slot)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].MentionCount != out[b].MentionCount {
			return out[a].MentionCount > out[b].MentionCount
		}
		return out[a].SentimentScore > out[b].SentimentScore
	})

	return out
}

// channelsFor derives the channel list for a city: the fixed base set, the
// city name with whitespace stripped, that name suffixed with "food", and the
// generic fallback. Duplicates and empty names are dropped.
func channelsFor(city string) []string {
	stripped := strings.Join(strings.Fields(city), "")

	candidates := make([]string, 0, len(baseChannels)+3)
	candidates = append(candidates, baseChannels...)
	candidates = append(candidates, stripped, stripped+"food", fallbackChannel)

	seen := make(map[string]struct{}, len(candidates))
	channels := make([]string, 0, len(candidates))
	for _, ch := range candidates {
		if ch == "" {
			continue
		}
		lower := strings.ToLower(ch)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		channels = append(channels, ch)
	}
	return channels
}

func cacheKey(city, query string) string {
	return strings.ToLower(city) + "|" + strings.ToLower(query)
}
