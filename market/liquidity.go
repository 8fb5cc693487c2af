package market

// DefaultReductionFactor scales the raw bid/ask order-count ratio down
// to a usable fractional price adjustment.
const DefaultReductionFactor = 20

// Stats aggregates counterparty depth on each side of a snapshot.
// Counts and volumes cover only orders that did not originate from the
// strategy's own trader ID.
type Stats struct {
	BidCount  int
	BidVolume int
	AskCount  int
	AskVolume int
}

// ComputeStats walks each side of the snapshot once, counting and
// summing every level not owned by selfTrader. An empty selfTrader
// includes all levels.
func ComputeStats(s Snapshot, selfTrader string) Stats {
	var st Stats
	for _, l := range s.Bids {
		if selfTrader != "" && l.TraderID == selfTrader {
			continue
		}
		st.BidCount++
		st.BidVolume += l.Quantity
	}
	for _, l := range s.Asks {
		if selfTrader != "" && l.TraderID == selfTrader {
			continue
		}
		st.AskCount++
		st.AskVolume += l.Quantity
	}
	return st
}

// Imbalance is the signed aggregate volume difference, ask side minus
// bid side. Positive means the ask side is heavier.
func (st Stats) Imbalance() int {
	return st.AskVolume - st.BidVolume
}

// Cushion derives a dimensionless fractional price adjustment from the
// order-count ratio: (bidCount - askCount) / askCount / reduction.
// An empty ask side yields 0 rather than a division error.
func (st Stats) Cushion(reduction float64) float64 {
	if st.AskCount == 0 {
		return 0
	}
	if reduction <= 0 {
		reduction = DefaultReductionFactor
	}
	return (float64(st.BidCount) - float64(st.AskCount)) / float64(st.AskCount) / reduction
}

// ApplyCushion adjusts a base price multiplicatively: price * (1 + cushion).
func ApplyCushion(price, cushion float64) float64 {
	return price * (1 + cushion)
}
