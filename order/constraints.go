package order

import (
	"fmt"
	"math"
)

// Constraints bounds what the exchange accepts for one ticker.
type Constraints struct {
	TickSize float64 // price increment; 0 disables the check
	MinQty   int
	MaxQty   int
}

// Round snaps a price onto the tick grid.
func (c Constraints) Round(price float64) float64 {
	if c.TickSize <= 0 || price <= 0 {
		return price
	}
	return math.Round(price/c.TickSize) * c.TickSize
}

// Validate checks a limit order's price alignment and size bounds.
// Market orders skip the price check by passing price 0.
func (c Constraints) Validate(price float64, qty int) error {
	if c.TickSize > 0 && price > 0 {
		ratio := price / c.TickSize
		if math.Abs(ratio-math.Round(ratio)) > 1e-6 {
			return fmt.Errorf("price %.4f not aligned to tick size %.4f", price, c.TickSize)
		}
	}
	if c.MinQty > 0 && qty < c.MinQty {
		return fmt.Errorf("qty %d < min %d", qty, c.MinQty)
	}
	if c.MaxQty > 0 && qty > c.MaxQty {
		return fmt.Errorf("qty %d > max %d", qty, c.MaxQty)
	}
	return nil
}
