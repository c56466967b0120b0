package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTradeClient struct {
	trade   *marketdata.Trade
	err     error
	symbols []string
}

func (f *fakeTradeClient) GetLatestTrade(symbol string, _ marketdata.GetLatestTradeRequest) (*marketdata.Trade, error) {
	f.symbols = append(f.symbols, symbol)
	return f.trade, f.err
}

func newTestMarketData(client latestTradeClient) *AlpacaMarketDataService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &AlpacaMarketDataService{client: client, logger: logger}
}

func TestAlpacaMarketData_GetLatestPrice(t *testing.T) {
	client := &fakeTradeClient{trade: &marketdata.Trade{Price: 431.25, Timestamp: time.Now()}}
	svc := newTestMarketData(client)

	price, err := svc.GetLatestPrice(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, 431.25, price)
	assert.Equal(t, []string{"SPY"}, client.symbols)
}

func TestAlpacaMarketData_Errors(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		svc := newTestMarketData(&fakeTradeClient{err: errors.New("403 forbidden")})
		_, err := svc.GetLatestPrice(context.Background(), "SPY")
		assert.ErrorContains(t, err, "403 forbidden")
	})

	t.Run("no trade", func(t *testing.T) {
		svc := newTestMarketData(&fakeTradeClient{})
		_, err := svc.GetLatestPrice(context.Background(), "SPY")
		assert.ErrorContains(t, err, "no trade data")
	})

	t.Run("zero price", func(t *testing.T) {
		svc := newTestMarketData(&fakeTradeClient{trade: &marketdata.Trade{}})
		_, err := svc.GetLatestPrice(context.Background(), "SPY")
		assert.ErrorContains(t, err, "invalid trade price")
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := &fakeTradeClient{trade: &marketdata.Trade{Price: 1}}
		svc := newTestMarketData(client)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.GetLatestPrice(ctx, "SPY")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, client.symbols)
	})
}

func TestNewAlpacaMarketDataService(t *testing.T) {
	svc := NewAlpacaMarketDataService("key", "secret", "")
	require.NotNil(t, svc.client)
	require.NotNil(t, svc.logger)
}
