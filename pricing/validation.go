package pricing

import (
	"errors"
	"fmt"
	"math"
)

// MaxSteps bounds the lattice size; each grid holds (MaxSteps+1)^2 cells.
const MaxSteps = 10_000

var (
	ErrInvalidSpot      = errors.New("spot price must be a finite positive number")
	ErrInvalidStrike    = errors.New("strike price must be a finite positive number")
	ErrInvalidHorizon   = errors.New("time horizon must be a finite positive number")
	ErrInvalidRate      = errors.New("risk-free rate must be finite")
	ErrInvalidFactors   = errors.New("movement factors must be finite, positive, with down < up")
	ErrInvalidSteps     = errors.New("number of steps must be between 1 and 10000")
	ErrArbitrageLattice = errors.New("risk-neutral probability outside (0,1), lattice admits arbitrage")
)

// Validate checks the parameters a caller must guarantee before pricing.
// PriceEuropeanCall itself never calls it.
func (p PricingParameters) Validate() error {
	switch {
	case !positiveFinite(p.Spot):
		return fmt.Errorf("%w: got %v", ErrInvalidSpot, p.Spot)
	case !positiveFinite(p.Strike):
		return fmt.Errorf("%w: got %v", ErrInvalidStrike, p.Strike)
	case !positiveFinite(p.Horizon):
		return fmt.Errorf("%w: got %v", ErrInvalidHorizon, p.Horizon)
	case math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0):
		return fmt.Errorf("%w: got %v", ErrInvalidRate, p.Rate)
	case !positiveFinite(p.Up) || !positiveFinite(p.Down) || p.Down >= p.Up:
		return fmt.Errorf("%w: got up=%v down=%v", ErrInvalidFactors, p.Up, p.Down)
	case p.Steps < 1 || p.Steps > MaxSteps:
		return fmt.Errorf("%w: got %d", ErrInvalidSteps, p.Steps)
	}
	return nil
}

// CheckNoArbitrage reports ErrArbitrageLattice when the risk-neutral probability is not in (0,1).
// It assumes Validate has passed.
func (p PricingParameters) CheckNoArbitrage() error {
	prob := RiskNeutralProbability(p.Rate, p.Up, p.Down, TimeStep(p))
	if !(prob > 0 && prob < 1) {
		return fmt.Errorf("%w: p=%v", ErrArbitrageLattice, prob)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
