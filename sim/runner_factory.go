package sim

import (
	"go.uber.org/zap"

	"rit-maker-go/config"
	"rit-maker-go/infrastructure/alert"
	"rit-maker-go/infrastructure/monitor"
	"rit-maker-go/metrics"
	"rit-maker-go/order"
	"rit-maker-go/risk"
	"rit-maker-go/strategy"
)

// Deps are the shared services a Runner is assembled around. Data and
// Exec usually point at the same gateway.Client; tests and the dry-run
// driver swap in fakes. Nil observability fields disable the hook.
type Deps struct {
	Data MarketData
	Exec order.Execution
	Log  *zap.Logger

	Metrics *metrics.Metrics
	Events  *monitor.Hub
	Alerts  *alert.Manager
}

// BuildRunner assembles a Runner for one ticker from validated config.
func BuildRunner(ticker string, cfg config.TickerConfig, deps Deps) (*Runner, error) {
	gate, err := risk.NewGate(risk.Limits{
		MaxLong:          cfg.Risk.MaxLong,
		MaxShort:         cfg.Risk.MaxShort,
		SoftSkew:         cfg.Risk.SoftSkew,
		Flatten:          cfg.Risk.Flatten,
		ReverseTolerance: cfg.Risk.ReverseTolerance,
	})
	if err != nil {
		return nil, err
	}

	gen, err := strategy.NewGenerator(strategy.GeneratorConfig{
		Ladder:       cfg.Ladder,
		FlattenSlice: cfg.FlattenSlice,
		SkewFactor:   cfg.SkewFactor,
	})
	if err != nil {
		return nil, err
	}

	spread := &strategy.SpreadTracker{
		Base:            cfg.Spread.Base,
		Step:            cfg.Spread.Step,
		Max:             cfg.Spread.Max,
		PositionReset:   cfg.Spread.PositionReset,
		OrderCountReset: cfg.Spread.OrderCountReset,
	}

	lifecycle := &order.Lifecycle{
		Exec:          deps.Exec,
		Guard:         risk.NewLimitChecker(gate.Limits(), cfg.Risk.SingleMax),
		Constraints:   order.Constraints{TickSize: cfg.TickSize},
		MaxOpenOrders: cfg.Risk.MaxOpenOrders,
		Log:           deps.Log,
	}

	return &Runner{
		Ticker:    ticker,
		Cfg:       cfg,
		Data:      deps.Data,
		Lifecycle: lifecycle,
		Gate:      gate,
		Gen:       gen,
		Spread:    spread,
		Log:       deps.Log,
		Metrics:   deps.Metrics,
		Events:    deps.Events,
		Alerts:    deps.Alerts,
	}, nil
}
