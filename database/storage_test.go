package database

import (
	"path/filepath"
	"testing"
	"time"

	"lattice-pricer/interfaces"
	"lattice-pricer/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(filepath.Join(t.TempDir(), "data", "pricing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func sampleRun(pricedAt time.Time) *interfaces.PricingResult {
	params := pricing.PricingParameters{Spot: 100, Strike: 90, Horizon: 3, Rate: 0, Up: 1.2, Down: 0.8, Steps: 3}
	price, optionValue, underlying := pricing.PriceEuropeanCall(params)
	return &interfaces.PricingResult{
		Symbol:                 "SPY",
		Parameters:             params,
		TimeStep:               1,
		RiskNeutralProbability: 0.5,
		CallPrice:              price,
		RoundedPrice:           "19.80",
		UnderlyingPrice:        underlying,
		OptionValue:            optionValue,
		PricedAt:               pricedAt,
	}
}

func TestLocalStorage_SaveAndGet(t *testing.T) {
	storage := newTestStorage(t)
	run := sampleRun(time.Now().UTC())

	require.NoError(t, storage.SavePricingRun(run))
	require.NotZero(t, run.RunID)

	got, err := storage.GetPricingRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, "SPY", got.Symbol)
	assert.Equal(t, run.Parameters, got.Parameters)
	assert.Equal(t, "19.80", got.RoundedPrice)
	assert.InDelta(t, run.CallPrice, got.CallPrice, 1e-12)
	assert.Equal(t, run.UnderlyingPrice, got.UnderlyingPrice)
	assert.Equal(t, run.OptionValue, got.OptionValue)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.GetPricingRun(42)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestLocalStorage_ListAndCleanup(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Now().UTC()

	old := sampleRun(now.Add(-48 * time.Hour))
	recent := sampleRun(now.Add(-time.Hour))
	latest := sampleRun(now)
	for _, run := range []*interfaces.PricingResult{old, recent, latest} {
		require.NoError(t, storage.SavePricingRun(run))
	}

	runs, err := storage.ListPricingRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, latest.RunID, runs[0].RunID)
	assert.Equal(t, recent.RunID, runs[1].RunID)
	assert.Equal(t, latest.Parameters, runs[0].Parameters)
	assert.Equal(t, "19.80", runs[0].RoundedPrice)

	require.NoError(t, storage.CleanupOldData(now.Add(-24*time.Hour)))

	runs, err = storage.ListPricingRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	_, err = storage.GetPricingRun(old.RunID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
