package strategy

// Order sides and types as the exchange API spells them.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TypeLimit  = "LIMIT"
	TypeMarket = "MARKET"
)

// TargetQuote is one order the engine wants resting on the exchange
// this tick. Produced fresh each tick and never mutated. A MARKET
// quote carries Price 0.
type TargetQuote struct {
	Ticker   string
	Side     string
	Type     string
	Price    float64
	Quantity int
}

// Reduces reports whether filling the quote would shrink |position|.
func (q TargetQuote) Reduces(position int) bool {
	if position > 0 {
		return q.Side == SideSell
	}
	if position < 0 {
		return q.Side == SideBuy
	}
	return false
}

// Delta is the signed position change a full fill would cause.
func (q TargetQuote) Delta() int {
	if q.Side == SideSell {
		return -q.Quantity
	}
	return q.Quantity
}
