package services

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"
)

// latestTradeClient is the subset of the Alpaca market data client used for spot lookups
type latestTradeClient interface {
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

// AlpacaMarketDataService resolves underlying spot prices from Alpaca's latest trades
type AlpacaMarketDataService struct {
	client latestTradeClient
	logger *logrus.Logger
}

// NewAlpacaMarketDataService creates a new Alpaca market data service.
// An empty baseURL selects the SDK default endpoint.
func NewAlpacaMarketDataService(apiKey, secretKey, baseURL string) *AlpacaMarketDataService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
		BaseURL:   baseURL,
	})

	return &AlpacaMarketDataService{
		client: client,
		logger: logger,
	}
}

// GetLatestPrice returns the price of the latest trade for a symbol
func (s *AlpacaMarketDataService) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.logger.WithField("symbol", symbol).Debug("Fetching latest trade")

	trade, err := s.client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest trade for %s: %w", symbol, err)
	}
	if trade == nil {
		return 0, fmt.Errorf("no trade data for %s", symbol)
	}
	if trade.Price <= 0 {
		return 0, fmt.Errorf("invalid trade price %v for %s", trade.Price, symbol)
	}

	s.logger.WithFields(logrus.Fields{
		"symbol":    symbol,
		"price":     trade.Price,
		"timestamp": trade.Timestamp,
	}).Debug("Fetched latest trade")
	return trade.Price, nil
}
