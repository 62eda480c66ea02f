package peers

import (
	"fundmanager-backend/internal/domain"
	"fundmanager-backend/internal/valyu"
)

// Candidate is a raw search result normalized into a valid substitute peer.
type Candidate struct {
	Ticker      string
	Sector      string
	MarketCap   float64
	CO2Emission float64
	Sources     []domain.SourceCitation
}

const marketCapBand = 0.2

// FilterCandidates returns the subset of raw candidates that qualify as a
// replacement peer for the holding: different ticker, same sector, market cap
// within the ±20% band (inclusive), and positive CO2 data. Output order
// follows input order.
func FilterCandidates(holding *domain.Holding, candidates []valyu.Candidate) ([]Candidate, error) {
	if !holding.Analyzed() {
		return nil, domain.ErrHoldingNotAnalyzed
	}

	sector := *holding.Sector
	lowerBound := *holding.MarketCap * (1 - marketCapBand)
	upperBound := *holding.MarketCap * (1 + marketCapBand)

	filtered := []Candidate{}
	for _, candidate := range candidates {
		if candidate.Ticker == holding.Ticker {
			continue
		}
		if candidate.Sector != sector {
			continue
		}
		if candidate.MarketCap < lowerBound || candidate.MarketCap > upperBound {
			continue
		}
		// The differentiator is carbon; candidates without it cannot be recommended.
		if candidate.CO2Emission <= 0 {
			continue
		}

		sources := candidate.Sources
		if sources == nil {
			sources = []domain.SourceCitation{}
		}
		filtered = append(filtered, Candidate{
			Ticker:      candidate.Ticker,
			Sector:      candidate.Sector,
			MarketCap:   candidate.MarketCap,
			CO2Emission: candidate.CO2Emission,
			Sources:     sources,
		})
	}

	return filtered, nil
}
