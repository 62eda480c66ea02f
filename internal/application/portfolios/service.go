package portfolios

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"fundmanager-backend/internal/domain"
	"fundmanager-backend/internal/valyu"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ValidationError is a rejected upload (bad rows or weights off 100).
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// HoldingInput is one parsed upload row.
type HoldingInput struct {
	Ticker    string  `json:"ticker"`
	WeightPct float64 `json:"weight_pct"`
}

// PortfolioSummary is the list projection.
type PortfolioSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	HoldingsCount int       `json:"holdings_count"`
}

// Service encapsulates portfolio upload, retrieval and enrichment.
type Service struct {
	DB    *gorm.DB
	Valyu valyu.Client
}

const weightSumTolerance = 0.01

// Upload validates the parsed rows and creates the portfolio plus its
// holdings in one transaction. Uploads whose weights do not sum to 100
// within the tolerance are rejected before any persistence.
func (s *Service) Upload(ctx context.Context, name string, ownerID *string, rows []HoldingInput) (*domain.Portfolio, error) {
	if len(rows) == 0 {
		return nil, ValidationError("CSV file is empty or invalid")
	}

	total := 0.0
	for _, row := range rows {
		total += row.WeightPct
	}
	if math.Abs(total-100) > weightSumTolerance {
		return nil, ValidationError(fmt.Sprintf("Weights must sum to 100%%, got %.2f%%", total))
	}

	portfolio := domain.Portfolio{Name: name, OwnerID: ownerID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&portfolio).Error; err != nil {
			return err
		}
		holdings := make([]domain.Holding, 0, len(rows))
		for _, row := range rows {
			holdings = append(holdings, domain.Holding{
				PortfolioID: portfolio.ID,
				Ticker:      strings.ToUpper(strings.TrimSpace(row.Ticker)),
				WeightPct:   row.WeightPct,
			})
		}
		return tx.Create(&holdings).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, portfolio.ID)
}

// Get returns a portfolio with holdings ordered by descending weight.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	var portfolio domain.Portfolio
	err := s.DB.WithContext(ctx).
		Preload("Holdings", func(db *gorm.DB) *gorm.DB {
			return db.Order("weight_pct DESC")
		}).
		Where("id = ?", id).First(&portfolio).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

// List returns all portfolios, newest first, with holding counts.
func (s *Service) List(ctx context.Context) ([]PortfolioSummary, error) {
	var portfolios []domain.Portfolio
	if err := s.DB.WithContext(ctx).Preload("Holdings").Order("created_at DESC").Find(&portfolios).Error; err != nil {
		return nil, err
	}
	out := make([]PortfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		out = append(out, PortfolioSummary{
			ID:            p.ID,
			Name:          p.Name,
			CreatedAt:     p.CreatedAt,
			HoldingsCount: len(p.Holdings),
		})
	}
	return out, nil
}

// Delete removes a portfolio with its holdings and recommendations.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var portfolio domain.Portfolio
		if err := tx.Where("id = ?", id).First(&portfolio).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrPortfolioNotFound
			}
			return err
		}
		if err := tx.Where("portfolio_id = ?", id).Delete(&domain.PeerRecommendation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("portfolio_id = ?", id).Delete(&domain.Holding{}).Error; err != nil {
			return err
		}
		return tx.Delete(&portfolio).Error
	})
}

// Analyse enriches every holding in the portfolio with sector, market cap and
// CO2 data from the provider. Enrichment never fails per holding: the gateway
// substitutes an "Unknown" record when the provider is unavailable.
func (s *Service) Analyse(ctx context.Context, id uuid.UUID) (int, error) {
	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).Where("portfolio_id = ?", id).Find(&holdings).Error; err != nil {
		return 0, err
	}
	if len(holdings) == 0 {
		return 0, domain.ErrPortfolioNotFound
	}

	enriched := 0
	for i := range holdings {
		result := s.Valyu.EnrichHolding(ctx, holdings[i].Ticker)

		sector := result.Sector
		marketCap := result.MarketCap
		co2 := result.CO2Emission
		holdings[i].Sector = &sector
		holdings[i].MarketCap = &marketCap
		holdings[i].CO2Emission = &co2

		provenance, err := json.Marshal(map[string]interface{}{
			"provider": "Valyu",
			"updated":  time.Now().UTC().Format(time.RFC3339),
			"sources":  result.Sources,
		})
		if err != nil {
			return enriched, err
		}
		holdings[i].DataSources = datatypes.JSON(provenance)

		if err := s.DB.WithContext(ctx).Save(&holdings[i]).Error; err != nil {
			return enriched, err
		}
		enriched++
	}
	return enriched, nil
}
