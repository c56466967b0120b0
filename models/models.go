package models

import (
	"time"

	"gorm.io/gorm"
)

// DBPricingRun represents one priced contract in the journal
type DBPricingRun struct {
	gorm.Model
	Symbol                 string    `gorm:"index"`
	Spot                   float64
	Strike                 float64
	Horizon                float64
	Rate                   float64
	Up                     float64
	Down                   float64
	Steps                  int
	TimeStep               float64
	RiskNeutralProbability float64
	CallPrice              float64
	RoundedPrice           string
	PricedAt               time.Time `gorm:"index"`

	// Grids are stored as JSON matrices
	UnderlyingPrice string `gorm:"type:text"`
	OptionValue     string `gorm:"type:text"`
}
