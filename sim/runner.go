package sim

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"rit-maker-go/config"
	"rit-maker-go/gateway"
	"rit-maker-go/infrastructure/alert"
	"rit-maker-go/infrastructure/monitor"
	"rit-maker-go/market"
	"rit-maker-go/metrics"
	"rit-maker-go/order"
	"rit-maker-go/risk"
	"rit-maker-go/strategy"
)

// Phase of the per-ticker loop relative to the case clock.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseActive
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseActive:
		return "ACTIVE"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// MarketData is the read side of the exchange. gateway.Client
// satisfies it.
type MarketData interface {
	Tick(ctx context.Context) (int, error)
	Book(ctx context.Context, ticker string, depth int) (market.Snapshot, error)
	Position(ctx context.Context, ticker string) (int, error)
	LastPrice(ctx context.Context, ticker string) (float64, error)
	OpenOrders(ctx context.Context, ticker string) ([]gateway.OpenOrder, error)
}

// Runner drives one ticker: read the clock and the book, evaluate the
// risk gate, generate target quotes, and reconcile them through the
// order lifecycle. One Runner per ticker; each holds its own state.
type Runner struct {
	Ticker    string
	Cfg       config.TickerConfig
	Data      MarketData
	Lifecycle *order.Lifecycle
	Gate      *risk.Gate
	Gen       *strategy.Generator
	Spread    *strategy.SpreadTracker
	Log       *zap.Logger

	// Optional observability hooks.
	Metrics *metrics.Metrics
	Events  *monitor.Hub
	Alerts  *alert.Manager

	phase   Phase
	state   risk.State
	prevPos int
}

// Phase returns the current loop phase.
func (r *Runner) Phase() Phase { return r.phase }

// State returns the risk state carried from the last pass.
func (r *Runner) State() risk.State { return r.state }

// Run loops until the context is cancelled or the active window is
// behind us. Transient exchange failures skip the tick; only an
// authentication failure halts with an error.
func (r *Runner) Run(ctx context.Context) error {
	log := r.log()
	r.phase = PhaseInit

	pacing := time.Duration(r.Cfg.PacingMs) * time.Millisecond
	if pacing <= 0 {
		pacing = 250 * time.Millisecond
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.Step(ctx); err != nil {
			return err
		}
		if r.phase == PhaseDone {
			log.Info("runner done", zap.String("ticker", r.Ticker))
			return nil
		}

		timer := time.NewTimer(pacing)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Step runs a single decision pass. Exposed for tests and for the
// dry-run driver.
func (r *Runner) Step(ctx context.Context) error {
	log := r.log()

	tick, err := r.Data.Tick(ctx)
	if err != nil {
		return r.readFailure("tick", err)
	}

	if tick > r.Cfg.ActiveTo {
		r.phase = PhaseDone
		return nil
	}
	if tick < r.Cfg.ActiveFrom {
		return nil
	}
	r.phase = PhaseActive

	book, err := r.Data.Book(ctx, r.Ticker, r.Cfg.DepthLimit)
	if err != nil {
		return r.readFailure("book", err)
	}
	pos, err := r.Data.Position(ctx, r.Ticker)
	if err != nil {
		return r.readFailure("position", err)
	}
	last, err := r.Data.LastPrice(ctx, r.Ticker)
	if err != nil {
		return r.readFailure("last", err)
	}
	openOrders, err := r.Data.OpenOrders(ctx, r.Ticker)
	if err != nil {
		return r.readFailure("orders", err)
	}
	working := toWorking(openOrders)

	stats := market.ComputeStats(book, r.Cfg.SelfTrader)
	cushion := stats.Cushion(r.Cfg.ReductionFactor)
	imbalance := stats.Imbalance()
	imbalanced := abs(imbalance) >= r.Cfg.ImbalanceTrigger

	state := r.Gate.Evaluate(r.state, r.prevPos, pos)
	if state != r.state {
		log.Warn("risk state change",
			zap.String("ticker", r.Ticker),
			zap.Stringer("from", r.state),
			zap.Stringer("to", state),
			zap.Int("position", pos),
		)
		if r.Alerts != nil {
			_ = r.Alerts.RiskTransition(r.Ticker, r.state, state, pos)
		}
		r.publish("risk", tick, map[string]any{
			"from":     r.state.String(),
			"to":       state.String(),
			"position": pos,
		})
	}

	spread := r.Spread.Observe(imbalanced, pos, order.CountOpen(working))
	quotes := r.Gen.Generate(r.Ticker, last, spread, cushion, state, pos)

	res, err := r.Lifecycle.Apply(ctx, r.Ticker, state, pos, working, quotes)
	if err != nil {
		return err
	}

	r.record(tick, state, pos, cushion, spread, imbalance, res)
	r.state = state
	r.prevPos = pos
	return nil
}

// readFailure maps a market-read error: unavailability skips the tick,
// an authentication failure halts the runner.
func (r *Runner) readFailure(what string, err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		return err
	}
	r.log().Warn("exchange read failed, skipping tick",
		zap.String("ticker", r.Ticker),
		zap.String("read", what),
		zap.Error(err),
	)
	if r.Metrics != nil {
		r.Metrics.TicksSkipped.WithLabelValues(r.Ticker).Inc()
	}
	if r.Alerts != nil {
		_ = r.Alerts.Unavailable(r.Ticker, err)
	}
	return nil
}

func (r *Runner) record(tick int, state risk.State, pos int, cushion, spread float64, imbalance int, res order.Result) {
	if r.Metrics != nil {
		m := r.Metrics
		m.TicksProcessed.WithLabelValues(r.Ticker).Inc()
		m.OrdersPlaced.WithLabelValues(r.Ticker).Add(float64(res.Placed))
		m.OrdersRejected.WithLabelValues(r.Ticker).Add(float64(res.Rejected))
		m.GuardBlocked.WithLabelValues(r.Ticker).Add(float64(res.GuardBlocked))
		if res.CancelledAll {
			m.CancelAlls.WithLabelValues(r.Ticker).Inc()
		}
		if res.Throttled {
			m.ThrottledPasses.WithLabelValues(r.Ticker).Inc()
		}
		m.Position.WithLabelValues(r.Ticker).Set(float64(pos))
		m.RiskState.WithLabelValues(r.Ticker).Set(float64(state))
		m.Cushion.WithLabelValues(r.Ticker).Set(cushion)
		m.Spread.WithLabelValues(r.Ticker).Set(spread)
		m.Imbalance.WithLabelValues(r.Ticker).Set(float64(imbalance))
	}

	r.publish("pass", tick, map[string]any{
		"state":     state.String(),
		"position":  pos,
		"cushion":   cushion,
		"spread":    spread,
		"imbalance": imbalance,
		"placed":    res.Placed,
		"rejected":  res.Rejected,
	})
}

func (r *Runner) publish(typ string, tick int, fields map[string]any) {
	if r.Events == nil {
		return
	}
	r.Events.Publish(monitor.Event{
		Type:   typ,
		Ticker: r.Ticker,
		Tick:   tick,
		Fields: fields,
	})
}

func (r *Runner) log() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}

func toWorking(orders []gateway.OpenOrder) []order.Working {
	out := make([]order.Working, 0, len(orders))
	for _, o := range orders {
		out = append(out, order.Working{
			ID:       o.ID,
			Ticker:   o.Ticker,
			Side:     o.Side,
			Price:    o.Price,
			Quantity: o.Quantity,
			Status:   order.Status(o.Status),
		})
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
