package market

import "sort"

// Level is a single resting order in the book: price, remaining quantity
// and the ID of the trader who posted it.
type Level struct {
	Price    float64
	Quantity int
	TraderID string
}

// Snapshot is one ticker's order book captured at a single tick.
// Bids are sorted by descending price, asks by ascending price. Either
// side may be empty; callers must not assume a best level exists.
type Snapshot struct {
	Ticker string
	Bids   []Level
	Asks   []Level
}

// NewSnapshot normalizes raw levels into a Snapshot: sorts each side,
// drops non-positive quantities and truncates to depth levels per side.
// depth <= 0 keeps the full book.
func NewSnapshot(ticker string, bids, asks []Level, depth int) Snapshot {
	s := Snapshot{
		Ticker: ticker,
		Bids:   normalizeSide(bids, depth, false),
		Asks:   normalizeSide(asks, depth, true),
	}
	return s
}

func normalizeSide(levels []Level, depth int, ascending bool) []Level {
	out := make([]Level, 0, len(levels))
	for _, l := range levels {
		if l.Quantity <= 0 {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Price < out[j].Price
		}
		return out[i].Price > out[j].Price
	})
	if depth > 0 && len(out) > depth {
		out = out[:depth]
	}
	return out
}

// BestBid returns the highest bid, if any.
func (s Snapshot) BestBid() (Level, bool) {
	if len(s.Bids) == 0 {
		return Level{}, false
	}
	return s.Bids[0], true
}

// BestAsk returns the lowest ask, if any.
func (s Snapshot) BestAsk() (Level, bool) {
	if len(s.Asks) == 0 {
		return Level{}, false
	}
	return s.Asks[0], true
}

// Mid returns the midpoint of the best bid and ask; 0 if either side is empty.
func (s Snapshot) Mid() float64 {
	bid, okB := s.BestBid()
	ask, okA := s.BestAsk()
	if !okB || !okA {
		return 0
	}
	return (bid.Price + ask.Price) / 2
}
