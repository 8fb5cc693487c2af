package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"rit-maker-go/gateway"
	"rit-maker-go/risk"
	"rit-maker-go/strategy"
)

// Execution is the write side of the exchange used by the lifecycle
// pass. gateway.Client satisfies it.
type Execution interface {
	Submit(ctx context.Context, ticker, side, otype string, price float64, qty int) (string, error)
	Cancel(ctx context.Context, orderID string) error
	CancelAll(ctx context.Context, ticker string) error
}

// Result summarizes one lifecycle pass for logging and metrics.
type Result struct {
	Placed       int
	Rejected     int
	GuardBlocked int
	Throttled    bool
	CancelledAll bool
}

// Lifecycle reconciles the tick's target quotes with the orders already
// working on the exchange. Submissions are fire-and-forget: a rejection
// is logged and the pass moves on to the next quote.
type Lifecycle struct {
	Exec          Execution
	Guard         risk.Guard // optional pre-order checks
	Constraints   Constraints
	MaxOpenOrders int
	Log           *zap.Logger
}

// Apply runs one pass. In FLATTEN state every resting order for the
// ticker is cancelled before the unwind quotes go out, regardless of
// the throttle. In NORMAL/SKEW the pass only adds quotes while the
// open-order count stays under MaxOpenOrders; it never replaces stale
// ones. Only an authentication failure aborts the pass.
func (l *Lifecycle) Apply(ctx context.Context, ticker string, state risk.State, position int, working []Working, quotes []strategy.TargetQuote) (Result, error) {
	var res Result
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	open := CountOpen(working)
	unwinding := state == risk.StateFlatten || state == risk.StateReverseBlock

	if state == risk.StateFlatten {
		if err := l.Exec.CancelAll(ctx, ticker); err != nil {
			if errors.Is(err, gateway.ErrUnauthorized) {
				return res, err
			}
			log.Warn("cancel all failed", zap.String("ticker", ticker), zap.Error(err))
		} else {
			res.CancelledAll = true
			open = 0
		}
	}

	if !unwinding && l.MaxOpenOrders > 0 && open >= l.MaxOpenOrders {
		res.Throttled = true
		return res, nil
	}

	for _, q := range quotes {
		if !unwinding && l.MaxOpenOrders > 0 && open+res.Placed >= l.MaxOpenOrders {
			res.Throttled = true
			break
		}
		q.Price = l.Constraints.Round(q.Price)
		if err := l.Constraints.Validate(q.Price, q.Quantity); err != nil {
			res.Rejected++
			log.Warn("quote fails constraints", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		if l.Guard != nil {
			if err := l.Guard.PreOrder(ticker, position, q.Delta()); err != nil {
				res.GuardBlocked++
				log.Warn("quote blocked by guard",
					zap.String("ticker", ticker),
					zap.String("side", q.Side),
					zap.Int("qty", q.Quantity),
					zap.Error(err))
				continue
			}
		}
		id, err := l.Exec.Submit(ctx, q.Ticker, q.Side, q.Type, q.Price, q.Quantity)
		if err != nil {
			if errors.Is(err, gateway.ErrUnauthorized) {
				return res, err
			}
			res.Rejected++
			log.Warn("order rejected",
				zap.String("ticker", ticker),
				zap.String("side", q.Side),
				zap.Float64("price", q.Price),
				zap.Int("qty", q.Quantity),
				zap.Error(err))
			continue
		}
		res.Placed++
		log.Info("order placed",
			zap.String("ticker", ticker),
			zap.String("id", id),
			zap.String("side", q.Side),
			zap.String("type", q.Type),
			zap.Float64("price", q.Price),
			zap.Int("qty", q.Quantity))
	}
	return res, nil
}
