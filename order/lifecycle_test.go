package order

import (
	"context"
	"fmt"
	"math"
	"testing"

	"rit-maker-go/gateway"
	"rit-maker-go/risk"
	"rit-maker-go/strategy"
)

type call struct {
	op     string // "submit", "cancel", "cancelAll"
	side   string
	price  float64
	qty    int
	ticker string
}

type fakeExec struct {
	calls     []call
	rejectAll bool
	submitErr error
	nextID    int
}

func (f *fakeExec) Submit(ctx context.Context, ticker, side, otype string, price float64, qty int) (string, error) {
	f.calls = append(f.calls, call{op: "submit", side: side, price: price, qty: qty, ticker: ticker})
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if f.rejectAll {
		return "", fmt.Errorf("%w: status 400", gateway.ErrRejected)
	}
	f.nextID++
	return fmt.Sprintf("%d", f.nextID), nil
}

func (f *fakeExec) Cancel(ctx context.Context, orderID string) error {
	f.calls = append(f.calls, call{op: "cancel"})
	return nil
}

func (f *fakeExec) CancelAll(ctx context.Context, ticker string) error {
	f.calls = append(f.calls, call{op: "cancelAll", ticker: ticker})
	return nil
}

func quotes(n int) []strategy.TargetQuote {
	out := make([]strategy.TargetQuote, n)
	for i := range out {
		out[i] = strategy.TargetQuote{
			Ticker: "ALGO", Side: strategy.SideBuy, Type: strategy.TypeLimit,
			Price: 10.00 - float64(i)*0.01, Quantity: 1000,
		}
	}
	return out
}

func working(n int) []Working {
	out := make([]Working, n)
	for i := range out {
		out[i] = Working{ID: fmt.Sprintf("w%d", i), Ticker: "ALGO", Status: StatusOpen}
	}
	return out
}

func TestApplyThrottleAtCap(t *testing.T) {
	exec := &fakeExec{}
	lc := &Lifecycle{Exec: exec, MaxOpenOrders: 20}

	res, err := lc.Apply(context.Background(), "ALGO", risk.StateNormal, 0, working(20), quotes(4))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.Throttled || res.Placed != 0 {
		t.Fatalf("expected full throttle, got %+v", res)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("no calls expected when throttled, got %v", exec.calls)
	}
}

func TestApplyStopsAtCapMidBatch(t *testing.T) {
	exec := &fakeExec{}
	lc := &Lifecycle{Exec: exec, MaxOpenOrders: 20}

	res, err := lc.Apply(context.Background(), "ALGO", risk.StateNormal, 0, working(18), quotes(5))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Placed != 2 || !res.Throttled {
		t.Fatalf("expected 2 placed then throttle, got %+v", res)
	}
}

func TestApplyFlattenCancelsAllFirst(t *testing.T) {
	exec := &fakeExec{}
	lc := &Lifecycle{Exec: exec, MaxOpenOrders: 20}

	unwind := []strategy.TargetQuote{
		{Ticker: "ALGO", Side: strategy.SideBuy, Type: strategy.TypeLimit, Price: 10.01, Quantity: 2000},
		{Ticker: "ALGO", Side: strategy.SideBuy, Type: strategy.TypeLimit, Price: 10.02, Quantity: 2000},
	}
	// Throttle is overridden: book already full of our orders.
	res, err := lc.Apply(context.Background(), "ALGO", risk.StateFlatten, -25000, working(20), unwind)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.CancelledAll || res.Placed != 2 {
		t.Fatalf("expected cancel-all then 2 unwind orders, got %+v", res)
	}
	if exec.calls[0].op != "cancelAll" || exec.calls[0].ticker != "ALGO" {
		t.Fatalf("cancel-all must precede unwind orders, calls %v", exec.calls)
	}
	for _, c := range exec.calls[1:] {
		if c.op != "submit" || c.side != strategy.SideBuy {
			t.Fatalf("unwind must be buy-only submissions, calls %v", exec.calls)
		}
	}
}

func TestApplyRejectionDoesNotAbortTick(t *testing.T) {
	exec := &fakeExec{rejectAll: true}
	lc := &Lifecycle{Exec: exec, MaxOpenOrders: 20}

	res, err := lc.Apply(context.Background(), "ALGO", risk.StateNormal, 0, nil, quotes(3))
	if err != nil {
		t.Fatalf("rejections must not error the pass: %v", err)
	}
	if res.Rejected != 3 || res.Placed != 0 {
		t.Fatalf("expected 3 rejections, got %+v", res)
	}
	if len(exec.calls) != 3 {
		t.Fatalf("every quote should still be attempted, got %d calls", len(exec.calls))
	}
}

func TestApplyAuthFailureAborts(t *testing.T) {
	exec := &fakeExec{submitErr: gateway.ErrUnauthorized}
	lc := &Lifecycle{Exec: exec, MaxOpenOrders: 20}

	_, err := lc.Apply(context.Background(), "ALGO", risk.StateNormal, 0, nil, quotes(3))
	if err == nil {
		t.Fatal("expected auth failure to surface")
	}
	if len(exec.calls) != 1 {
		t.Fatalf("pass should stop at the auth failure, got %d calls", len(exec.calls))
	}
}

func TestApplyGuardBlocks(t *testing.T) {
	exec := &fakeExec{}
	guard := risk.NewLimitChecker(risk.Limits{MaxLong: 1000, MaxShort: 1000, SoftSkew: 500, Flatten: 800}, 0)
	lc := &Lifecycle{Exec: exec, Guard: guard, MaxOpenOrders: 20}

	res, err := lc.Apply(context.Background(), "ALGO", risk.StateNormal, 900, nil, quotes(2))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.GuardBlocked != 2 || res.Placed != 0 {
		t.Fatalf("expected guard to block both buys, got %+v", res)
	}
}

func TestApplyRoundsToTick(t *testing.T) {
	exec := &fakeExec{}
	lc := &Lifecycle{Exec: exec, MaxOpenOrders: 20, Constraints: Constraints{TickSize: 0.01}}

	q := []strategy.TargetQuote{{
		Ticker: "ALGO", Side: strategy.SideSell, Type: strategy.TypeLimit,
		Price: 10.014999, Quantity: 1000,
	}}
	if _, err := lc.Apply(context.Background(), "ALGO", risk.StateNormal, 0, nil, q); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := exec.calls[0].price; math.Abs(got-10.01) > 1e-9 {
		t.Fatalf("price not snapped to tick: %f", got)
	}
}
