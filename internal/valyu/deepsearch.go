package valyu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SearchOptions narrows a deep search.
type SearchOptions struct {
	IncludedSources    []string `json:"included_sources,omitempty"`
	MaxNumResults      int      `json:"max_num_results,omitempty"`
	RelevanceThreshold float64  `json:"relevance_threshold,omitempty"`
}

// SearchResult is one document returned by a deep search.
type SearchResult struct {
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
}

// SearchResponse is the deep-search payload.
type SearchResponse struct {
	Results []SearchResult `json:"results,omitempty"`
}

// Searcher abstracts the Valyu deep-search API used by the comparison
// pipeline. Implementations degrade to mock results instead of failing.
type Searcher interface {
	DeepSearch(ctx context.Context, query string, opts *SearchOptions) SearchResponse
}

// HTTPSearcher is a Searcher backed by the deep-search HTTP endpoint.
type HTTPSearcher struct {
	URL    string
	APIKey string
	Client *http.Client
}

// DeepSearch posts a query to the deep-search endpoint. With no credential
// configured, or on any transport or status failure, it returns the
// templated mock response instead.
func (s *HTTPSearcher) DeepSearch(ctx context.Context, query string, opts *SearchOptions) SearchResponse {
	if s.APIKey == "" || s.URL == "" {
		log.Warn().Msg("Using mock Valyu search response (no valid API key)")
		return MockSearchResponse(query)
	}

	payload := map[string]interface{}{"query": query}
	if opts != nil {
		if len(opts.IncludedSources) > 0 {
			payload["included_sources"] = opts.IncludedSources
		}
		if opts.MaxNumResults > 0 {
			payload["max_num_results"] = opts.MaxNumResults
		}
		if opts.RelevanceThreshold > 0 {
			payload["relevance_threshold"] = opts.RelevanceThreshold
		}
	}

	resp, err := s.doSearch(ctx, payload)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Valyu search failed, using mock response")
		return MockSearchResponse(query)
	}
	return resp
}

func (s *HTTPSearcher) doSearch(ctx context.Context, payload map[string]interface{}) (SearchResponse, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return SearchResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return SearchResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("valyu search request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SearchResponse{}, fmt.Errorf("valyu search error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data SearchResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return SearchResponse{}, err
	}
	return data, nil
}

// MockSearchResponse templates deterministic results from the query so the
// pipeline can run with zero external dependencies configured.
func MockSearchResponse(query string) SearchResponse {
	return SearchResponse{
		Results: []SearchResult{
			{
				Title:   "Sample Financial Report - " + query,
				URL:     "https://example.com/report1",
				Content: "Sample financial data for " + query + " in 2024",
			},
			{
				Title:   "ESG Report - " + query,
				URL:     "https://example.com/report2",
				Content: "Environmental, Social, and Governance report for " + query,
			},
		},
	}
}
