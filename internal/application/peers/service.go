package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"fundmanager-backend/internal/domain"
	"fundmanager-backend/internal/valyu"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service runs the peer-finding pipeline and holding replacement.
type Service struct {
	DB    *gorm.DB
	Valyu valyu.Client
}

// FindPeersResult carries the analyzed holding plus its freshly ranked
// recommendations.
type FindPeersResult struct {
	Holding         domain.Holding
	Recommendations []domain.PeerRecommendation
}

// ReplacementResult summarizes a holding replacement. CO2Reduction is set
// only when both the old and the new emission values were present; positive
// means improvement.
type ReplacementResult struct {
	OriginalTicker string   `json:"original_ticker"`
	NewTicker      string   `json:"new_ticker"`
	WeightPct      float64  `json:"weight_pct"`
	CO2Reduction   *float64 `json:"co2_reduction"`
}

// FindPeers searches the provider for same-sector companies in the holding's
// market-cap band, ranks them by CO2 emission, and atomically replaces the
// holding's stored recommendation set with the new shortlist. Provider
// failures degrade to "no candidates found"; the only caller-visible failures
// are the not-found and not-analyzed preconditions.
func (s *Service) FindPeers(ctx context.Context, portfolioID, holdingID uuid.UUID) (*FindPeersResult, error) {
	var holding domain.Holding
	if err := s.DB.WithContext(ctx).Where("id = ? AND portfolio_id = ?", holdingID, portfolioID).First(&holding).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, err
	}

	if !holding.Analyzed() {
		return nil, domain.ErrHoldingNotAnalyzed
	}

	query := fmt.Sprintf("top 100 public companies in sector %s with market cap around %s",
		*holding.Sector, strconv.FormatFloat(*holding.MarketCap, 'f', -1, 64))
	candidates := s.Valyu.SearchCompanies(ctx, query, 100)

	filtered, err := FilterCandidates(&holding, candidates)
	if err != nil {
		return nil, err
	}
	ranked := RankCandidates(filtered)

	recommendations := make([]domain.PeerRecommendation, 0, len(ranked))
	for i, peer := range ranked {
		sourcesJSON, err := json.Marshal(peer.Sources)
		if err != nil {
			return nil, err
		}
		recommendations = append(recommendations, domain.PeerRecommendation{
			PortfolioID:     holding.PortfolioID,
			HoldingID:       holding.ID,
			PeerTicker:      peer.Ticker,
			PeerSector:      strPtr(peer.Sector),
			PeerMarketCap:   floatPtr(peer.MarketCap),
			PeerCO2Emission: floatPtr(peer.CO2Emission),
			Rank:            i + 1,
			Sources:         datatypes.JSON(sourcesJSON),
		})
	}

	// Delete + insert in one transaction so a crash cannot leave the holding
	// with a partial recommendation set.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("holding_id = ?", holding.ID).Delete(&domain.PeerRecommendation{}).Error; err != nil {
			return err
		}
		if len(recommendations) == 0 {
			return nil
		}
		return tx.Create(&recommendations).Error
	})
	if err != nil {
		return nil, err
	}

	return &FindPeersResult{Holding: holding, Recommendations: recommendations}, nil
}

// Replace overwrites the holding's identity fields with a stored peer's
// attributes, keeping the holding row (and its weight) in place.
func (s *Service) Replace(ctx context.Context, portfolioID, holdingID uuid.UUID, peerTicker string) (*ReplacementResult, error) {
	var holding domain.Holding
	if err := s.DB.WithContext(ctx).Where("id = ? AND portfolio_id = ?", holdingID, portfolioID).First(&holding).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, err
	}

	var peer domain.PeerRecommendation
	if err := s.DB.WithContext(ctx).Where("holding_id = ? AND peer_ticker = ?", holding.ID, peerTicker).First(&peer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrPeerNotFound
		}
		return nil, err
	}

	originalTicker := holding.Ticker
	oldCO2 := holding.CO2Emission

	holding.Ticker = peer.PeerTicker
	if peer.PeerSector != nil {
		holding.Sector = peer.PeerSector
	}
	if peer.PeerMarketCap != nil {
		holding.MarketCap = peer.PeerMarketCap
	}
	if peer.PeerCO2Emission != nil {
		holding.CO2Emission = peer.PeerCO2Emission
	}
	if peer.Sources != nil {
		holding.DataSources = peer.Sources
	}

	if err := s.DB.WithContext(ctx).Save(&holding).Error; err != nil {
		return nil, err
	}

	var co2Reduction *float64
	if oldCO2 != nil && peer.PeerCO2Emission != nil {
		co2Reduction = floatPtr(*oldCO2 - *peer.PeerCO2Emission)
	}

	return &ReplacementResult{
		OriginalTicker: originalTicker,
		NewTicker:      peer.PeerTicker,
		WeightPct:      holding.WeightPct,
		CO2Reduction:   co2Reduction,
	}, nil
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
