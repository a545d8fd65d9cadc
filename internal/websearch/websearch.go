// Package websearch decides when a message warrants web-search augmentation,
// executes the search across two backends, and renders results for prompt
// injection and user-facing citation.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

const maxResults = 5

// Result is one search hit. Results are ephemeral: built per call, rendered,
// and discarded, never persisted.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// ErrMissingCredential is returned when a credentialed backend is invoked
// without its API key configured.
var ErrMissingCredential = errors.New("search API key not configured")

// ErrInvalidResponse marks a successful status with an unparseable body.
var ErrInvalidResponse = errors.New("invalid response from search API")

// HTTPError is returned when a search backend answers with a non-success
// status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("search error (%d): %s", e.StatusCode, e.Body)
}

// Keywords signaling temporal or current-events intent. Matched as substrings
// of the lower-cased query.
var triggerKeywords = []string{
	// Time-sensitive
	"latest", "recent", "new", "current", "today", "yesterday",
	"this week", "this month", "this year", "now", "just",
	// News/Events
	"news", "update", "announcement", "release", "launched",
	"happened", "event", "breaking",
	// Prices/Data
	"price", "stock", "weather", "score", "result",
	"how much", "cost",
	// Years
	"2024", "2025", "2026",
	// Questions about current state
	"who is the", "what is the current", "is there a",
	"has anyone", "did they", "when did", "when will",
}

// Question shapes that usually need current information.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what happened`),
	regexp.MustCompile(`who won`),
	regexp.MustCompile(`is .+ still`),
	regexp.MustCompile(`how many .+ now`),
	regexp.MustCompile(`what's new`),
}

// ShouldSearch reports whether the query looks like it needs fresh web
// context. It is a deterministic classifier over the literal text, not a
// model call.
func ShouldSearch(query string) bool {
	lowered := strings.ToLower(query)

	for _, keyword := range triggerKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	for _, pattern := range questionPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}

	return false
}

// Service executes searches: the keyless DuckDuckGo HTML endpoint first, then
// Tavily when DuckDuckGo comes back empty and a key is configured.
type Service struct {
	client        *resty.Client
	duckDuckGoURL string
	tavilyURL     string
	tavilyKey     func() string
	logger        *slog.Logger
}

// New creates a search service. tavilyKey is consulted per call so key changes
// take effect without rebuilding the service; it may return "".
func New(tavilyKey func() string, logger *slog.Logger) *Service {
	if tavilyKey == nil {
		tavilyKey = func() string { return "" }
	}

	return &Service{
		client:        resty.New(),
		duckDuckGoURL: duckDuckGoDefaultURL,
		tavilyURL:     tavilyDefaultURL,
		tavilyKey:     tavilyKey,
		logger:        logger,
	}
}

// ShouldSearch exposes the trigger decision on the service so callers can hold
// a single search collaborator.
func (s *Service) ShouldSearch(query string) bool {
	return ShouldSearch(query)
}

// Search runs the query. Backend policy: DuckDuckGo first; when it yields
// nothing and Tavily is configured, one Tavily attempt; otherwise whatever
// DuckDuckGo returned, possibly empty.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	results, err := s.searchDuckDuckGo(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		if key := s.tavilyKey(); key != "" {
			s.logger.Debug("No DuckDuckGo results, falling back to Tavily", "query", query)
			return s.searchTavily(ctx, query, key)
		}
	}

	return results, nil
}
