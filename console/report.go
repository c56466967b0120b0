package console

import (
	"fmt"
	"io"
	"strings"

	"lattice-pricer/interfaces"
)

// Defaults offered at the interactive prompts
var DefaultRequest = interfaces.PricingRequest{
	Spot:    100,
	Strike:  90,
	Horizon: 3,
	Rate:    0,
	Up:      1.2,
	Down:    0.8,
	Steps:   3,
}

// ReadPricingRequest asks for the seven pricing inputs in order
func ReadPricingRequest(p *Prompter) (*interfaces.PricingRequest, error) {
	req := DefaultRequest
	var err error

	floats := []struct {
		prompt string
		dst    *float64
	}{
		{"Enter stock price", &req.Spot},
		{"Enter strike price", &req.Strike},
		{"Enter the time horizon", &req.Horizon},
		{"Enter the risk free rate", &req.Rate},
		{"Enter the upward movement value", &req.Up},
		{"Enter the downward movement value", &req.Down},
	}
	for _, f := range floats {
		if *f.dst, err = p.Float(f.prompt, *f.dst); err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
	}

	if req.Steps, err = p.Int("Enter the number of steps", req.Steps); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return &req, nil
}

// PrintResult writes both lattices and the rounded price
func PrintResult(w io.Writer, result *interfaces.PricingResult) {
	fmt.Fprintln(w, "Underlying Price Evolution:")
	fmt.Fprint(w, FormatGrid(result.UnderlyingPrice))
	fmt.Fprintln(w, "Call Option Payoff:")
	fmt.Fprint(w, FormatGrid(result.OptionValue))
	fmt.Fprintf(w, "Call Option Price at t=0: %s\n", result.RoundedPrice)
}

// FormatGrid renders a lattice one step per line with right-aligned cells
func FormatGrid(grid [][]float64) string {
	cells := make([][]string, len(grid))
	width := 0
	for j, row := range grid {
		cells[j] = make([]string, len(row))
		for i, v := range row {
			cells[j][i] = fmt.Sprintf("%.2f", v)
			width = max(width, len(cells[j][i]))
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.WriteString("[")
		for i, cell := range row {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%*s", width, cell)
		}
		b.WriteString("]\n")
	}
	return b.String()
}
