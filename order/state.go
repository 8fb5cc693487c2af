package order

// Status is the exchange-side lifecycle of a working order.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusFilled    Status = "FILLED"
	StatusCancelled Status = "CANCELLED"
)

// Working is a read-through view of one order resting on the exchange.
// The exchange owns the authoritative state; this view is refreshed
// from the open-orders poll every tick and never cached across ticks.
type Working struct {
	ID       string
	Ticker   string
	Side     string
	Price    float64
	Quantity int
	Status   Status
}

// CountOpen returns how many of the orders are still resting.
func CountOpen(orders []Working) int {
	n := 0
	for _, o := range orders {
		if o.Status == StatusOpen {
			n++
		}
	}
	return n
}
