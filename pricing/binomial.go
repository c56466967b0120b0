// Package pricing implements the Cox-Ross-Rubinstein binomial lattice for European calls.
package pricing

import "math"

// PricingParameters holds the inputs of a single lattice pricing
type PricingParameters struct {
	Spot    float64 `json:"spot"`    // Initial underlying price
	Strike  float64 `json:"strike"`  // Strike price
	Horizon float64 `json:"horizon"` // Time to expiry, same unit as Rate
	Rate    float64 `json:"rate"`    // Risk-free rate per unit of Horizon
	Up      float64 `json:"up"`      // Up-move factor
	Down    float64 `json:"down"`    // Down-move factor
	Steps   int     `json:"steps"`   // Number of lattice steps
}

// TimeStep returns the length of one lattice step
func TimeStep(params PricingParameters) float64 {
	return params.Horizon / float64(params.Steps)
}

// RiskNeutralProbability returns the up-move probability under the risk-neutral measure.
// The result is not guaranteed to lie in (0,1).
func RiskNeutralProbability(rate, up, down, dt float64) float64 {
	return (math.Exp(rate*dt) - down) / (up - down)
}

// PriceEuropeanCall prices a European call on a recombining binomial lattice.
//
// It returns the time-0 price together with the option value and underlying price grids,
// both dense (N+1)x(N+1) matrices indexed [step][up-moves]. Cells above the diagonal are zero.
// Inputs are not validated: degenerate parameters propagate as NaN or Inf.
func PriceEuropeanCall(params PricingParameters) (float64, [][]float64, [][]float64) {
	n := params.Steps
	if n < 0 {
		return math.NaN(), [][]float64{}, [][]float64{}
	}

	dt := TimeStep(params)
	p := RiskNeutralProbability(params.Rate, params.Up, params.Down, dt)
	discount := math.Exp(-params.Rate * dt)

	optionValue := newGrid(n + 1)
	underlying := newGrid(n + 1)

	for i := 0; i <= n; i++ {
		underlying[n][i] = nodePrice(params, n, i)
		optionValue[n][i] = math.Max(underlying[n][i]-params.Strike, 0)
	}

	for j := n - 1; j >= 0; j-- {
		for i := 0; i <= j; i++ {
			optionValue[j][i] = discount * (p*optionValue[j+1][i+1] + (1-p)*optionValue[j+1][i])
			underlying[j][i] = nodePrice(params, j, i)
		}
	}

	return optionValue[0][0], optionValue, underlying
}

// nodePrice is the underlying price after i up-moves out of j steps
func nodePrice(params PricingParameters, j, i int) float64 {
	return params.Spot * math.Pow(params.Up, float64(i)) * math.Pow(params.Down, float64(j-i))
}

func newGrid(size int) [][]float64 {
	cells := make([]float64, size*size)
	grid := make([][]float64, size)
	for j := range grid {
		grid[j] = cells[j*size : (j+1)*size : (j+1)*size]
	}
	return grid
}
