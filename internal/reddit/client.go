// Package reddit implements the content-search client over the Reddit API.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AshZadePM/localreco/internal/domain"
	"github.com/AshZadePM/localreco/internal/metrics"
	"github.com/AshZadePM/localreco/internal/retry"
)

const (
	publicBaseURL  = "https://www.reddit.com"
	oauthBaseURL   = "https://oauth.reddit.com"
	tokenURL       = "https://www.reddit.com/api/v1/access_token"
	requestTimeout = 10 * time.Second
	resultLimit    = 25
	tokenMargin    = 60 * time.Second
)

// statusError signals a non-2xx upstream response so retries can classify it.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("reddit returned status %d", e.code)
}

// Client searches Reddit for discussion documents. With credentials it uses
// the OAuth endpoints with a cached client-credentials token; without, it
// falls back to the public JSON endpoints. Channel-level failures are logged
// and skipped so one broken subreddit never aborts the whole search.
type Client struct {
	httpClient   *http.Client
	publicBase   string
	oauthBase    string
	tokenBase    string
	clientID     string
	clientSecret string
	userAgent    string
	policy       retry.Policy

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(clientID, clientSecret, userAgent string) *Client {
	if userAgent == "" {
		userAgent = "localreco/1.0"
	}
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		publicBase:   publicBaseURL,
		oauthBase:    oauthBaseURL,
		tokenBase:    tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		policy: retry.Policy{
			MaxAttempts:      3,
			InitialBackoff:   500 * time.Millisecond,
			RateLimitBackoff: 2 * time.Second,
			Classify:         classify,
		},
	}
}

func classify(err error) retry.Action {
	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusTooManyRequests:
			return retry.RateLimited
		case se.code >= 500:
			return retry.Backoff
		default:
			return retry.Stop
		}
	}
	return retry.Backoff
}

// Search queries every channel for posts and comments matching query and
// returns whatever it could collect. It errors only when no channel could be
// searched at all.
func (c *Client) Search(ctx context.Context, query string, channels []string) (domain.SearchResults, error) {
	var results domain.SearchResults
	var lastErr error
	succeeded := 0

	for _, channel := range channels {
		posts, err := c.searchPosts(ctx, channel, query)
		if err != nil {
			slog.Warn("Post search failed for channel, skipping", "channel", channel, "error", err)
			lastErr = err
		} else {
			results.Posts = append(results.Posts, posts...)
			succeeded++
		}

		comments, err := c.searchComments(ctx, channel, query)
		if err != nil {
			slog.Warn("Comment search failed for channel, skipping", "channel", channel, "error", err)
			lastErr = err
		} else {
			results.Comments = append(results.Comments, comments...)
			succeeded++
		}
	}

	if succeeded == 0 && lastErr != nil {
		return domain.SearchResults{}, fmt.Errorf("all channels failed: %w", lastErr)
	}
	return results, nil
}

func (c *Client) searchPosts(ctx context.Context, channel, query string) ([]domain.Post, error) {
	children, err := c.searchChannel(ctx, channel, query, "link")
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(children))
	for _, child := range children {
		posts = append(posts, domain.Post{
			ID:      child.Data.Name,
			Title:   child.Data.Title,
			Body:    child.Data.SelfText,
			Channel: child.Data.Subreddit,
		})
	}
	return posts, nil
}

func (c *Client) searchComments(ctx context.Context, channel, query string) ([]domain.Comment, error) {
	children, err := c.searchChannel(ctx, channel, query, "comment")
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(children))
	for _, child := range children {
		comments = append(comments, domain.Comment{
			ID:      child.Data.Name,
			Body:    child.Data.Body,
			Channel: child.Data.Subreddit,
		})
	}
	return comments, nil
}

type listingChild struct {
	Data struct {
		Name      string `json:"name"`
		Title     string `json:"title"`
		SelfText  string `json:"selftext"`
		Body      string `json:"body"`
		Subreddit string `json:"subreddit"`
	} `json:"data"`
}

type listing struct {
	Data struct {
		Children []listingChild `json:"children"`
	} `json:"data"`
}

func (c *Client) searchChannel(ctx context.Context, channel, query, kind string) ([]listingChild, error) {
	return retry.Do(ctx, c.policy, func() ([]listingChild, error) {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return nil, err
		}

		base := c.publicBase
		if token != "" {
			base = c.oauthBase
		}
		endpoint := fmt.Sprintf("%s/r/%s/search.json?q=%s&restrict_sr=on&limit=%d&type=%s&sort=relevance",
			base, url.PathEscape(channel), url.QueryEscape(query), resultLimit, kind)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues("reddit", "error").Inc()
			return nil, fmt.Errorf("reddit request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			metrics.UpstreamRequests.WithLabelValues("reddit", "error").Inc()
			return nil, &statusError{code: resp.StatusCode}
		}

		var parsed listing
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			metrics.UpstreamRequests.WithLabelValues("reddit", "error").Inc()
			return nil, fmt.Errorf("failed to decode reddit response: %w", err)
		}

		metrics.UpstreamRequests.WithLabelValues("reddit", "ok").Inc()
		return parsed.Data.Children, nil
	})
}

// ensureToken returns a valid OAuth token, refreshing the cached one when it
// is close to expiry. An unconfigured client returns the empty token and
// stays on the public endpoints.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(tokenMargin).Before(c.tokenExpiry) {
		return c.token, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenBase, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode}
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", errors.New("token response contained no access token")
	}

	c.token = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.token, nil
}
