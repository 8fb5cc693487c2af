package risk

import (
	"errors"
	"testing"
)

func TestLimitChecker(t *testing.T) {
	lc := NewLimitChecker(Limits{MaxLong: 25000, MaxShort: 25000, SoftSkew: 10000, Flatten: 20000}, 5000)

	if err := lc.PreOrder("ALGO", 0, 2000); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := lc.PreOrder("ALGO", 0, 6000); !errors.Is(err, ErrSingleExceed) {
		t.Fatalf("expected single exceed, got %v", err)
	}
	if err := lc.PreOrder("ALGO", 24000, 2000); !errors.Is(err, ErrLongExceed) {
		t.Fatalf("expected long exceed, got %v", err)
	}
	if err := lc.PreOrder("ALGO", -24000, -2000); !errors.Is(err, ErrShortExceed) {
		t.Fatalf("expected short exceed, got %v", err)
	}
	// Reducing an oversized position is always allowed.
	if err := lc.PreOrder("ALGO", 26000, -2000); err != nil {
		t.Fatalf("unwind should pass: %v", err)
	}
}

func TestMultiGuard(t *testing.T) {
	lc := NewLimitChecker(Limits{MaxLong: 100, MaxShort: 100, SoftSkew: 50, Flatten: 80}, 0)
	mg := MultiGuard{Guards: []Guard{nil, lc}}
	if err := mg.PreOrder("ALGO", 90, 20); !errors.Is(err, ErrLongExceed) {
		t.Fatalf("expected long exceed through chain, got %v", err)
	}
	if err := mg.PreOrder("ALGO", 0, 20); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}
