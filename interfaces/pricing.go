package interfaces

import (
	"context"
	"time"

	"lattice-pricer/pricing"
)

// PricingService defines the interface for pricing a single option contract
type PricingService interface {
	PriceCall(ctx context.Context, req *PricingRequest) (*PricingResult, error)
	GetRun(id uint) (*PricingResult, error)
	ListRuns(limit int) ([]*PricingResult, error)
}

// MarketDataService resolves the current price of an underlying
type MarketDataService interface {
	GetLatestPrice(ctx context.Context, symbol string) (float64, error)
}

// StorageService defines the interface for the pricing journal
type StorageService interface {
	SavePricingRun(run *PricingResult) error
	GetPricingRun(id uint) (*PricingResult, error)
	ListPricingRuns(limit int) ([]*PricingResult, error)
	CleanupOldData(before time.Time) error
	Close() error
}

// PricingRequest carries the contract to price.
// When Symbol is set and Spot is zero, the spot is looked up from market data.
type PricingRequest struct {
	Symbol  string  `json:"symbol,omitempty"`
	Spot    float64 `json:"spot"`
	Strike  float64 `json:"strike" binding:"required"`
	Horizon float64 `json:"horizon" binding:"required"`
	Rate    float64 `json:"rate"`
	Up      float64 `json:"up" binding:"required"`
	Down    float64 `json:"down" binding:"required"`
	Steps   int     `json:"steps" binding:"required"`
}

// PricingResult is the outcome of one lattice pricing
type PricingResult struct {
	RunID                  uint                      `json:"run_id,omitempty"`
	Symbol                 string                    `json:"symbol,omitempty"`
	Parameters             pricing.PricingParameters `json:"parameters"`
	TimeStep               float64                   `json:"time_step"`
	RiskNeutralProbability float64                   `json:"risk_neutral_probability"`
	CallPrice              float64                   `json:"call_price"`
	RoundedPrice           string                    `json:"rounded_price"`
	UnderlyingPrice        [][]float64               `json:"underlying_price,omitempty"`
	OptionValue            [][]float64               `json:"option_value,omitempty"`
	PricedAt               time.Time                 `json:"priced_at"`
}
