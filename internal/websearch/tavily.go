package websearch

import (
	"context"
	"fmt"
)

const tavilyDefaultURL = "https://api.tavily.com/search"

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
	MaxResults        int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (s *Service) searchTavily(ctx context.Context, query, apiKey string) ([]Result, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	var parsed tavilyResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(tavilyRequest{
			APIKey:            apiKey,
			Query:             query,
			SearchDepth:       "basic",
			IncludeAnswer:     false,
			IncludeRawContent: false,
			MaxResults:        maxResults,
		}).
		SetResult(&parsed).
		Post(s.tavilyURL)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if parsed.Results == nil {
		return nil, fmt.Errorf("%w: missing results field", ErrInvalidResponse)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Title == "" || r.URL == "" {
			continue
		}
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	return results, nil
}
