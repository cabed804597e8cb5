package domain

import "context"

// SourceKind identifies which part of a document a mention was found in.
type SourceKind string

const (
	SourceTitle   SourceKind = "title"
	SourceBody    SourceKind = "body"
	SourceComment SourceKind = "comment"
)

// Post is a discussion thread returned by the content-search client.
type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Channel string `json:"channel"`
}

// Comment is a short reply returned by the content-search client.
type Comment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Channel string `json:"channel"`
}

// SearchResults is the full harvest for one content search.
type SearchResults struct {
	Posts    []Post
	Comments []Comment
}

// Mention is one candidate establishment name located in one document.
type Mention struct {
	Name        string
	Kind        SourceKind
	DocumentID  string
	Snippet     string
	Occurrences int
}

// AggregatedEstablishment merges all mentions of one establishment across
// documents. Identity is case-insensitive; Name keeps the first-seen casing.
type AggregatedEstablishment struct {
	Name         string
	MentionCount int
	SourceDocIDs []string
}

// SentimentLabel buckets a comparative score.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// SentimentResult carries a raw score, its word-count-normalized comparative
// score, and the derived label.
type SentimentResult struct {
	Raw         float64        `json:"raw"`
	Comparative float64        `json:"comparative"`
	Label       SentimentLabel `json:"label"`
}

// Place is a resolved map reference for an establishment.
type Place struct {
	DisplayName string
	MapURL      string
}

// EstablishmentResult is one ranked entry of a search response.
type EstablishmentResult struct {
	DisplayName          string         `json:"displayName"`
	SentimentScore       float64        `json:"sentimentScore"`
	SentimentLabel       SentimentLabel `json:"sentimentLabel"`
	SentimentComparative float64        `json:"sentimentComparative"`
	MentionCount         int            `json:"mentionCount"`
	MapURL               string         `json:"mapUrl"`
	SourceDocIDs         []string       `json:"sourceDocumentIds"`
}

// SearchResponse is the final, cacheable answer for one (city, query) pair.
// FromCache is overridden per retrieval and never trusted from the cache.
type SearchResponse struct {
	Query        string                `json:"originalQuery"`
	City         string                `json:"originalCity"`
	Results      []EstablishmentResult `json:"establishmentResults"`
	TotalResults int                   `json:"totalResultCount"`
	FromCache    bool                  `json:"wasServedFromCache"`
	ComputedAtMs int64                 `json:"computedAtEpochMillis"`
}

// SearchClient finds discussion documents matching a query across channels.
// Individual channel failures are the client's concern; it returns whatever
// it could collect.
type SearchClient interface {
	Search(ctx context.Context, query string, channels []string) (SearchResults, error)
}

// PlaceClient resolves an establishment name plus a locality hint into a
// display name and a navigable map URL. It must always return a usable URL,
// falling back to a generic search link when it cannot resolve.
type PlaceClient interface {
	Lookup(ctx context.Context, name, locality string) (Place, error)
}

// Scorer rates the emotional tone of a single text. Raw is bounded to a small
// fixed range; comparative is raw divided by the word count (0 for empty text).
type Scorer interface {
	Score(text string) (raw, comparative float64, err error)
}
