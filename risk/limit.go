package risk

import (
	"errors"
	"fmt"
)

var (
	ErrLongExceed   = errors.New("long limit exceed")
	ErrShortExceed  = errors.New("short limit exceed")
	ErrSingleExceed = errors.New("single order exceed")
)

// LimitChecker rejects orders whose fill would push the position past
// the hard long/short caps, or whose size exceeds the single-order cap.
type LimitChecker struct {
	limits    Limits
	singleMax int
}

func NewLimitChecker(limits Limits, singleMax int) *LimitChecker {
	return &LimitChecker{limits: limits, singleMax: singleMax}
}

// PreOrder assumes the order fills in full; a working limit order may
// never fill, so this is the conservative bound.
func (lc *LimitChecker) PreOrder(ticker string, position, deltaQty int) error {
	if lc.singleMax > 0 && abs(deltaQty) > lc.singleMax {
		return fmt.Errorf("%w: %s qty %d > %d", ErrSingleExceed, ticker, abs(deltaQty), lc.singleMax)
	}
	net := position + deltaQty
	if lc.limits.MaxLong > 0 && net > lc.limits.MaxLong {
		return fmt.Errorf("%w: %s net %d > %d", ErrLongExceed, ticker, net, lc.limits.MaxLong)
	}
	if lc.limits.MaxShort > 0 && -net > lc.limits.MaxShort {
		return fmt.Errorf("%w: %s net %d < -%d", ErrShortExceed, ticker, net, lc.limits.MaxShort)
	}
	return nil
}
