package strategy

// SpreadTracker widens the quoted spread while order-book imbalance
// persists and snaps back to the base value when the position or the
// open-order count crosses its reset threshold. The reset rule is
// deliberately explicit: imbalance gone, position heavy, or book full
// of our orders all mean the widening premium is no longer earned.
type SpreadTracker struct {
	Base float64 // starting and reset value
	Step float64 // widening increment per imbalanced tick
	Max  float64 // cap; 0 means uncapped

	PositionReset   int // |position| at or above which the spread resets
	OrderCountReset int // open-order count at or above which the spread resets

	cur float64
}

// Current returns the spread for this tick without advancing it.
func (t *SpreadTracker) Current() float64 {
	if t.cur == 0 {
		return t.Base
	}
	return t.cur
}

// Observe advances the accumulator with this tick's readings and
// returns the spread to quote with.
func (t *SpreadTracker) Observe(imbalanced bool, position, openOrders int) float64 {
	if t.cur == 0 {
		t.cur = t.Base
	}
	mag := position
	if mag < 0 {
		mag = -mag
	}
	switch {
	case !imbalanced,
		t.PositionReset > 0 && mag >= t.PositionReset,
		t.OrderCountReset > 0 && openOrders >= t.OrderCountReset:
		t.cur = t.Base
	default:
		t.cur += t.Step
		if t.Max > 0 && t.cur > t.Max {
			t.cur = t.Max
		}
	}
	return t.cur
}
