package valyu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fundmanager-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichHolding_Success(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/enrich", r.URL.Path)
		json.NewEncoder(w).Encode(EnrichmentResult{
			Ticker:      "XOM",
			Sector:      "Energy",
			MarketCap:   450,
			CO2Emission: 120,
			Sources:     []domain.SourceCitation{{Title: "Stats", URL: "https://example.com"}},
		})
	}))
	defer server.Close()

	client := &HTTPClient{BaseURL: server.URL, APIKey: "test-key"}
	result := client.EnrichHolding(context.Background(), "XOM")

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Energy", result.Sector)
	assert.Equal(t, 450.0, result.MarketCap)
	require.Len(t, result.Sources, 1)
}

func TestEnrichHolding_FailureReturnsUnknownRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := &HTTPClient{BaseURL: server.URL, APIKey: "test-key"}
	result := client.EnrichHolding(context.Background(), "XOM")

	assert.Equal(t, "XOM", result.Ticker)
	assert.Equal(t, "Unknown", result.Sector)
	assert.Zero(t, result.MarketCap)
	assert.Zero(t, result.CO2Emission)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
}

func TestEnrichHolding_MissingKeyReturnsUnknownRecord(t *testing.T) {
	client := &HTTPClient{BaseURL: "http://localhost:0"}
	result := client.EnrichHolding(context.Background(), "XOM")
	assert.Equal(t, "Unknown", result.Sector)
}

func TestEnrichHolding_CachesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(EnrichmentResult{Ticker: "XOM", Sector: "Energy"})
	}))
	defer server.Close()

	client := &HTTPClient{BaseURL: server.URL, APIKey: "test-key", Cache: rdb}

	first := client.EnrichHolding(context.Background(), "XOM")
	second := client.EnrichHolding(context.Background(), "XOM")

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("valyu:enrich:XOM"))
}

func TestSearchCompanies_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(100), payload["max_num_results"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []Candidate{{Ticker: "NEE", Sector: "Energy", MarketCap: 90, CO2Emission: 10}},
		})
	}))
	defer server.Close()

	client := &HTTPClient{BaseURL: server.URL, APIKey: "test-key"}
	candidates := client.SearchCompanies(context.Background(), "energy companies", 100)

	require.Len(t, candidates, 1)
	assert.Equal(t, "NEE", candidates[0].Ticker)
}

func TestSearchCompanies_FailureReturnsEmptySlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &HTTPClient{BaseURL: server.URL, APIKey: "test-key"}
	candidates := client.SearchCompanies(context.Background(), "energy companies", 10)

	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
}
