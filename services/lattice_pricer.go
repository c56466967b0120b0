package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"lattice-pricer/interfaces"
	"lattice-pricer/pricing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrMarketDataUnavailable = errors.New("no market data source configured")
	ErrMarketData            = errors.New("market data lookup failed")
	ErrNonFinitePrice        = errors.New("lattice produced a non-finite price")
	ErrJournalDisabled       = errors.New("pricing journal is disabled")
)

// LatticePricingService validates requests and runs the binomial lattice pricer
type LatticePricingService struct {
	marketData         interfaces.MarketDataService
	storage            interfaces.StorageService
	enforceNoArbitrage bool
	logger             *logrus.Logger
	now                func() time.Time
}

// NewLatticePricingService creates a new pricing service.
// marketData and storage may be nil: symbol lookups and the journal are then unavailable.
func NewLatticePricingService(
	marketData interfaces.MarketDataService,
	storage interfaces.StorageService,
	enforceNoArbitrage bool,
	logger *logrus.Logger,
) *LatticePricingService {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return &LatticePricingService{
		marketData:         marketData,
		storage:            storage,
		enforceNoArbitrage: enforceNoArbitrage,
		logger:             logger,
		now:                time.Now,
	}
}

// PriceCall prices one European call
func (s *LatticePricingService) PriceCall(ctx context.Context, req *interfaces.PricingRequest) (*interfaces.PricingResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))

	spot := req.Spot
	if spot == 0 && symbol != "" {
		resolved, err := s.resolveSpot(ctx, symbol)
		if err != nil {
			return nil, err
		}
		spot = resolved
	}

	params := pricing.PricingParameters{
		Spot:    spot,
		Strike:  req.Strike,
		Horizon: req.Horizon,
		Rate:    req.Rate,
		Up:      req.Up,
		Down:    req.Down,
		Steps:   req.Steps,
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pricing parameters: %w", err)
	}
	if s.enforceNoArbitrage {
		if err := params.CheckNoArbitrage(); err != nil {
			return nil, err
		}
	}

	dt := pricing.TimeStep(params)
	prob := pricing.RiskNeutralProbability(params.Rate, params.Up, params.Down, dt)

	logger := s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"spot":   params.Spot,
		"strike": params.Strike,
		"steps":  params.Steps,
		"p":      prob,
	})
	logger.Debug("Pricing European call on binomial lattice")

	price, optionValue, underlying := pricing.PriceEuropeanCall(params)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		logger.WithField("price", price).Warn("Lattice price is not finite")
		return nil, fmt.Errorf("%w: %v", ErrNonFinitePrice, price)
	}

	result := &interfaces.PricingResult{
		Symbol:                 symbol,
		Parameters:             params,
		TimeStep:               dt,
		RiskNeutralProbability: prob,
		CallPrice:              price,
		RoundedPrice:           decimal.NewFromFloat(price).StringFixed(2),
		UnderlyingPrice:        underlying,
		OptionValue:            optionValue,
		PricedAt:               s.now().UTC(),
	}

	if s.storage != nil {
		if err := s.storage.SavePricingRun(result); err != nil {
			logger.WithError(err).Warn("Failed to journal pricing run")
		}
	}

	logger.WithFields(logrus.Fields{
		"price":  result.RoundedPrice,
		"run_id": result.RunID,
	}).Info("Call option priced")

	return result, nil
}

// GetRun returns a journaled pricing run
func (s *LatticePricingService) GetRun(id uint) (*interfaces.PricingResult, error) {
	if s.storage == nil {
		return nil, ErrJournalDisabled
	}
	return s.storage.GetPricingRun(id)
}

// ListRuns returns the most recent journaled runs
func (s *LatticePricingService) ListRuns(limit int) ([]*interfaces.PricingResult, error) {
	if s.storage == nil {
		return nil, ErrJournalDisabled
	}
	return s.storage.ListPricingRuns(limit)
}

func (s *LatticePricingService) resolveSpot(ctx context.Context, symbol string) (float64, error) {
	if s.marketData == nil {
		return 0, fmt.Errorf("%w: cannot resolve spot for %s", ErrMarketDataUnavailable, symbol)
	}

	spot, err := s.marketData.GetLatestPrice(ctx, symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Error("Failed to resolve spot price")
		return 0, fmt.Errorf("%w: %w", ErrMarketData, err)
	}

	s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"spot":   spot,
	}).Info("Resolved spot from market data")
	return spot, nil
}
