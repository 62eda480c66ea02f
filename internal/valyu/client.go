package valyu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fundmanager-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EnrichmentResult is the provider's answer for a single ticker.
type EnrichmentResult struct {
	Ticker      string                  `json:"ticker"`
	Sector      string                  `json:"sector"`
	MarketCap   float64                 `json:"market_cap"`
	CO2Emission float64                 `json:"co2_emission"`
	Sources     []domain.SourceCitation `json:"sources"`
}

// Candidate is one raw company record returned by a company search.
type Candidate struct {
	Ticker      string                  `json:"ticker"`
	CompanyName string                  `json:"company_name"`
	Sector      string                  `json:"sector"`
	MarketCap   float64                 `json:"market_cap"`
	CO2Emission float64                 `json:"co2_emission"`
	Sources     []domain.SourceCitation `json:"sources"`
}

// Client abstracts the Valyu financial-data API. Both operations degrade
// instead of failing: enrichment returns a zeroed "Unknown" record and search
// returns an empty slice when the provider is unreachable.
type Client interface {
	EnrichHolding(ctx context.Context, ticker string) EnrichmentResult
	SearchCompanies(ctx context.Context, query string, maxResults int) []Candidate
}

// HTTPClient is a Client backed by the Valyu HTTP API.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Cache   *redis.Client // optional enrichment cache; nil disables caching
}

const enrichCacheTTL = time.Hour

func (c *HTTPClient) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	return c.Client
}

// EnrichHolding fetches sector/market-cap/CO2 data for a ticker. Any failure
// returns the zeroed "Unknown" record so callers never see a provider error.
func (c *HTTPClient) EnrichHolding(ctx context.Context, ticker string) EnrichmentResult {
	if c.Cache != nil {
		if cached, err := c.Cache.Get(ctx, enrichCacheKey(ticker)).Bytes(); err == nil {
			var result EnrichmentResult
			if json.Unmarshal(cached, &result) == nil {
				return result
			}
		}
	}

	var result EnrichmentResult
	err := c.post(ctx, "/enrich", map[string]interface{}{
		"ticker": ticker,
		"fields": []string{"sector", "market_cap", "co2_emission"},
	}, &result)
	if err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("Valyu enrichment failed, returning mock data")
		return EnrichmentResult{
			Ticker:      ticker,
			Sector:      "Unknown",
			MarketCap:   0,
			CO2Emission: 0,
			Sources:     []domain.SourceCitation{},
		}
	}

	if c.Cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			c.Cache.Set(ctx, enrichCacheKey(ticker), payload, enrichCacheTTL)
		}
	}
	return result
}

// SearchCompanies runs a company search. Any failure returns an empty slice.
func (c *HTTPClient) SearchCompanies(ctx context.Context, query string, maxResults int) []Candidate {
	if maxResults <= 0 {
		maxResults = 100
	}
	var body struct {
		Results []Candidate `json:"results"`
	}
	err := c.post(ctx, "/search", map[string]interface{}{
		"query":           query,
		"max_num_results": maxResults,
	}, &body)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Valyu search failed, returning no candidates")
		return []Candidate{}
	}
	if body.Results == nil {
		return []Candidate{}
	}
	return body.Results
}

func (c *HTTPClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	if c.APIKey == "" {
		return fmt.Errorf("valyu: VALYU_API_KEY is not set")
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("valyu request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("valyu error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}

func enrichCacheKey(ticker string) string {
	return "valyu:enrich:" + ticker
}
