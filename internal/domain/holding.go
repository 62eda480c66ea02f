package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Holding is one ticker position within a portfolio. Sector, market cap and
// CO2 emission stay null until enrichment runs.
type Holding struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PortfolioID uuid.UUID      `gorm:"column:portfolio_id;type:uuid;not null;index" json:"portfolio_id"`
	Ticker      string         `gorm:"column:ticker;type:varchar(10);not null" json:"ticker"`
	WeightPct   float64        `gorm:"column:weight_pct;type:decimal(5,2);not null" json:"weight_pct"`
	Sector      *string        `gorm:"column:sector;type:text" json:"sector"`
	MarketCap   *float64       `gorm:"column:market_cap;type:decimal" json:"market_cap"`
	CO2Emission *float64       `gorm:"column:co2_emission;type:decimal" json:"co2_emission"`
	DataSources datatypes.JSON `gorm:"column:data_sources" json:"data_sources"`
}

func (Holding) TableName() string {
	return "holdings"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Analyzed reports whether enrichment has populated the fields peer-finding
// requires.
func (h *Holding) Analyzed() bool {
	return h.Sector != nil && h.MarketCap != nil
}
