package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PeerRecommendation is one ranked lower-carbon substitute stored for a
// holding. Ranks are dense and unique per holding, 1..N with N <= 10; the
// whole set for a holding is replaced atomically on every find-peers run.
type PeerRecommendation struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PortfolioID     uuid.UUID      `gorm:"column:portfolio_id;type:uuid;not null;index" json:"portfolio_id"`
	HoldingID       uuid.UUID      `gorm:"column:holding_id;type:uuid;not null;index" json:"holding_id"`
	PeerTicker      string         `gorm:"column:peer_ticker;type:varchar(10);not null" json:"peer_ticker"`
	PeerSector      *string        `gorm:"column:peer_sector;type:text" json:"peer_sector"`
	PeerMarketCap   *float64       `gorm:"column:peer_market_cap;type:decimal" json:"peer_market_cap"`
	PeerCO2Emission *float64       `gorm:"column:peer_co2_emission;type:decimal" json:"peer_co2_emission"`
	Rank            int            `gorm:"column:rank;not null" json:"rank"`
	Sources         datatypes.JSON `gorm:"column:sources" json:"sources"`
}

func (PeerRecommendation) TableName() string {
	return "peer_recommendations"
}

func (r *PeerRecommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SourceCitation is one provenance entry attached to enrichment data or a
// peer recommendation.
type SourceCitation struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	DatasetName string `json:"dataset_name"`
}
