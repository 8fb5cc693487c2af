package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"rit-maker-go/config"
	"rit-maker-go/gateway"
	"rit-maker-go/market"
	"rit-maker-go/sim"
	"rit-maker-go/strategy"
)

// A local simulation: a random-walk exchange drives the full decision
// loop without touching a real endpoint. Useful for eyeballing ladder
// shapes and risk transitions before a live session.
func main() {
	ticker := flag.String("ticker", "ALGO", "ticker to simulate")
	ticks := flag.Int("ticks", 50, "number of ticks to simulate")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	ex := &fakeExchange{ticker: *ticker, last: 10.00, rng: rng}

	runner, err := sim.BuildRunner(*ticker, simTickerConfig(), sim.Deps{
		Data: ex,
		Exec: ex,
	})
	if err != nil {
		log.Fatalf("build runner: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < *ticks; i++ {
		ex.advance()
		if err := runner.Step(ctx); err != nil {
			log.Fatalf("tick %d: %v", ex.tick, err)
		}
		fmt.Printf("tick %3d last=%.2f pos=%6d open=%d state=%s\n",
			ex.tick, ex.last, ex.position, len(ex.open), runner.State())
		if runner.Phase() == sim.PhaseDone {
			break
		}
	}
	fmt.Printf("final position: %d, orders submitted: %d\n", ex.position, ex.submitted)
}

func simTickerConfig() config.TickerConfig {
	return config.TickerConfig{
		ActiveFrom:       1,
		ActiveTo:         1 << 20,
		DepthLimit:       20,
		ReductionFactor:  20,
		ImbalanceTrigger: 500,
		TickSize:         0.01,
		Ladder: []strategy.Level{
			{Offset: 0.00, Size: 1000},
			{Offset: 0.05, Size: 1000},
			{Offset: 0.10, Size: 1000},
		},
		FlattenSlice: 2000,
		SkewFactor:   0.5,
		Spread: config.SpreadConfig{
			Base:            0.05,
			Step:            0.01,
			Max:             0.25,
			PositionReset:   10000,
			OrderCountReset: 8,
		},
		Risk: config.RiskConfig{
			MaxLong:          25000,
			MaxShort:         25000,
			SoftSkew:         10000,
			Flatten:          24000,
			ReverseTolerance: 500,
			MaxOpenOrders:    8,
			SingleMax:        5000,
		},
	}
}

// fakeExchange is both the market-data and execution side of the loop.
// Limit orders rest until the random walk crosses their price; market
// orders fill at the current last.
type fakeExchange struct {
	ticker    string
	tick      int
	last      float64
	position  int
	open      []gateway.OpenOrder
	rng       *rand.Rand
	submitted int
}

func (f *fakeExchange) advance() {
	f.tick++
	f.last += f.rng.NormFloat64() * 0.05
	if f.last < 1 {
		f.last = 1
	}

	kept := f.open[:0]
	for _, o := range f.open {
		filled := (o.Side == strategy.SideBuy && f.last <= o.Price) ||
			(o.Side == strategy.SideSell && f.last >= o.Price)
		if filled {
			f.fill(o.Side, o.Quantity)
			continue
		}
		kept = append(kept, o)
	}
	f.open = kept
}

func (f *fakeExchange) fill(side string, qty int) {
	if side == strategy.SideBuy {
		f.position += qty
	} else {
		f.position -= qty
	}
}

func (f *fakeExchange) Tick(ctx context.Context) (int, error) { return f.tick, nil }

func (f *fakeExchange) Book(ctx context.Context, ticker string, depth int) (market.Snapshot, error) {
	// Random per-side depth so imbalance and cushion actually move.
	nBids := 5 + f.rng.Intn(30)
	nAsks := 5 + f.rng.Intn(30)
	bids := make([]market.Level, 0, nBids)
	for i := 0; i < nBids; i++ {
		bids = append(bids, market.Level{Price: f.last - 0.01*float64(i+1), Quantity: 100, TraderID: "sim"})
	}
	asks := make([]market.Level, 0, nAsks)
	for i := 0; i < nAsks; i++ {
		asks = append(asks, market.Level{Price: f.last + 0.01*float64(i+1), Quantity: 100, TraderID: "sim"})
	}
	return market.NewSnapshot(ticker, bids, asks, depth), nil
}

func (f *fakeExchange) Position(ctx context.Context, ticker string) (int, error) {
	return f.position, nil
}

func (f *fakeExchange) LastPrice(ctx context.Context, ticker string) (float64, error) {
	return f.last, nil
}

func (f *fakeExchange) OpenOrders(ctx context.Context, ticker string) ([]gateway.OpenOrder, error) {
	out := make([]gateway.OpenOrder, len(f.open))
	copy(out, f.open)
	return out, nil
}

func (f *fakeExchange) Submit(ctx context.Context, ticker, side, otype string, price float64, qty int) (string, error) {
	f.submitted++
	id := strconv.Itoa(f.submitted)
	if otype == strategy.TypeMarket {
		f.fill(side, qty)
		return id, nil
	}
	f.open = append(f.open, gateway.OpenOrder{
		ID: id, Ticker: ticker, Side: side, Price: price, Quantity: qty, Status: "OPEN",
	})
	return id, nil
}

func (f *fakeExchange) Cancel(ctx context.Context, orderID string) error {
	kept := f.open[:0]
	for _, o := range f.open {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	f.open = kept
	return nil
}

func (f *fakeExchange) CancelAll(ctx context.Context, ticker string) error {
	f.open = f.open[:0]
	return nil
}
