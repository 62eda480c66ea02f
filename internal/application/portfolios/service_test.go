package portfolios

import (
	"context"
	"testing"

	"fundmanager-backend/internal/domain"
	"fundmanager-backend/internal/valyu"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEnricher struct {
	results map[string]valyu.EnrichmentResult
}

func (f *fakeEnricher) EnrichHolding(ctx context.Context, ticker string) valyu.EnrichmentResult {
	if result, ok := f.results[ticker]; ok {
		return result
	}
	return valyu.EnrichmentResult{Ticker: ticker, Sector: "Unknown", Sources: []domain.SourceCitation{}}
}

func (f *fakeEnricher) SearchCompanies(ctx context.Context, query string, maxResults int) []valyu.Candidate {
	return []valyu.Candidate{}
}

func setupPortfolioTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Portfolio{}, &domain.Holding{}, &domain.PeerRecommendation{}))
	return &Service{DB: db, Valyu: &fakeEnricher{}}, db
}

func TestUpload_AcceptsWeightsSummingToHundred(t *testing.T) {
	svc, _ := setupPortfolioTest(t)

	portfolio, err := svc.Upload(context.Background(), "Green Fund", nil, []HoldingInput{
		{Ticker: "xom", WeightPct: 40},
		{Ticker: "NEE", WeightPct: 35},
		{Ticker: "aapl", WeightPct: 25},
	})
	require.NoError(t, err)
	require.Len(t, portfolio.Holdings, 3)
	// Holdings come back ordered by descending weight, tickers uppercased.
	assert.Equal(t, "XOM", portfolio.Holdings[0].Ticker)
	assert.Equal(t, 40.0, portfolio.Holdings[0].WeightPct)
	assert.Equal(t, "AAPL", portfolio.Holdings[2].Ticker)
}

func TestUpload_RejectsWeightsOffHundred(t *testing.T) {
	svc, db := setupPortfolioTest(t)

	_, err := svc.Upload(context.Background(), "Bad Fund", nil, []HoldingInput{
		{Ticker: "XOM", WeightPct: 40},
		{Ticker: "NEE", WeightPct: 35},
		{Ticker: "AAPL", WeightPct: 24},
	})
	require.Error(t, err)
	assert.Equal(t, "Weights must sum to 100%, got 99.00%", err.Error())

	// Rejected before any persistence.
	var count int64
	require.NoError(t, db.Model(&domain.Portfolio{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpload_ToleratesRoundingWithinHundredth(t *testing.T) {
	svc, _ := setupPortfolioTest(t)

	_, err := svc.Upload(context.Background(), "Rounded Fund", nil, []HoldingInput{
		{Ticker: "A", WeightPct: 33.33},
		{Ticker: "B", WeightPct: 33.33},
		{Ticker: "C", WeightPct: 33.34},
	})
	assert.NoError(t, err)
}

func TestUpload_RejectsEmptyRows(t *testing.T) {
	svc, _ := setupPortfolioTest(t)

	_, err := svc.Upload(context.Background(), "Empty", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "CSV file is empty or invalid", err.Error())
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := setupPortfolioTest(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.Equal(t, domain.ErrPortfolioNotFound, err)
}

func TestList_ReturnsHoldingCounts(t *testing.T) {
	svc, _ := setupPortfolioTest(t)

	_, err := svc.Upload(context.Background(), "Fund A", nil, []HoldingInput{
		{Ticker: "XOM", WeightPct: 60},
		{Ticker: "NEE", WeightPct: 40},
	})
	require.NoError(t, err)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Fund A", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].HoldingsCount)
}

func TestDelete_CascadesToHoldingsAndRecommendations(t *testing.T) {
	svc, db := setupPortfolioTest(t)

	portfolio, err := svc.Upload(context.Background(), "Fund", nil, []HoldingInput{
		{Ticker: "XOM", WeightPct: 100},
	})
	require.NoError(t, err)

	rec := domain.PeerRecommendation{
		PortfolioID: portfolio.ID,
		HoldingID:   portfolio.Holdings[0].ID,
		PeerTicker:  "NEE",
		Rank:        1,
	}
	require.NoError(t, db.Create(&rec).Error)

	require.NoError(t, svc.Delete(context.Background(), portfolio.ID))

	var holdings, recs int64
	require.NoError(t, db.Model(&domain.Holding{}).Count(&holdings).Error)
	require.NoError(t, db.Model(&domain.PeerRecommendation{}).Count(&recs).Error)
	assert.Zero(t, holdings)
	assert.Zero(t, recs)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := setupPortfolioTest(t)
	err := svc.Delete(context.Background(), uuid.New())
	assert.Equal(t, domain.ErrPortfolioNotFound, err)
}

func TestAnalyse_EnrichesHoldings(t *testing.T) {
	svc, db := setupPortfolioTest(t)
	svc.Valyu = &fakeEnricher{results: map[string]valyu.EnrichmentResult{
		"XOM": {
			Ticker:      "XOM",
			Sector:      "Energy",
			MarketCap:   450,
			CO2Emission: 80,
			Sources: []domain.SourceCitation{
				{Title: "Annual Report", URL: "https://example.com/xom", DatasetName: "valyu/valyu-statistics-US"},
			},
		},
	}}

	portfolio, err := svc.Upload(context.Background(), "Fund", nil, []HoldingInput{
		{Ticker: "XOM", WeightPct: 100},
	})
	require.NoError(t, err)

	enriched, err := svc.Analyse(context.Background(), portfolio.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, enriched)

	var holding domain.Holding
	require.NoError(t, db.First(&holding, "portfolio_id = ?", portfolio.ID).Error)
	require.NotNil(t, holding.Sector)
	assert.Equal(t, "Energy", *holding.Sector)
	require.NotNil(t, holding.MarketCap)
	assert.Equal(t, 450.0, *holding.MarketCap)
	require.NotNil(t, holding.CO2Emission)
	assert.Equal(t, 80.0, *holding.CO2Emission)
	assert.True(t, holding.Analyzed())
	assert.Contains(t, string(holding.DataSources), "Annual Report")
}

func TestAnalyse_UnknownPortfolio(t *testing.T) {
	svc, _ := setupPortfolioTest(t)
	_, err := svc.Analyse(context.Background(), uuid.New())
	assert.Equal(t, domain.ErrPortfolioNotFound, err)
}
