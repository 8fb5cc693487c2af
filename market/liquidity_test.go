package market

import "testing"

func levels(trader string, n, qty int) []Level {
	out := make([]Level, n)
	for i := range out {
		out[i] = Level{Price: 10 + float64(i)*0.01, Quantity: qty, TraderID: trader}
	}
	return out
}

func TestComputeStatsFiltersSelf(t *testing.T) {
	s := Snapshot{
		Ticker: "ALGO",
		Bids:   append(levels("ANON", 3, 100), levels("ME", 2, 500)...),
		Asks:   levels("ANON", 4, 200),
	}
	st := ComputeStats(s, "ME")
	if st.BidCount != 3 || st.BidVolume != 300 {
		t.Fatalf("bid stats %+v, want count 3 vol 300", st)
	}
	if st.AskCount != 4 || st.AskVolume != 800 {
		t.Fatalf("ask stats %+v, want count 4 vol 800", st)
	}
	if st.Imbalance() != 500 {
		t.Fatalf("imbalance = %d, want 500", st.Imbalance())
	}
}

func TestCushion(t *testing.T) {
	tests := []struct {
		name     string
		stats    Stats
		expected float64
	}{
		{"bid heavy", Stats{BidCount: 40, AskCount: 10}, 0.15},
		{"ask heavy", Stats{BidCount: 10, AskCount: 20}, -0.025},
		{"balanced", Stats{BidCount: 10, AskCount: 10}, 0},
		{"empty ask side", Stats{BidCount: 40, AskCount: 0}, 0},
		{"empty book", Stats{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Cushion(DefaultReductionFactor); got != tt.expected {
				t.Fatalf("cushion = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestApplyCushion(t *testing.T) {
	if got := ApplyCushion(10.00, 0.15); got != 11.50 {
		t.Fatalf("ApplyCushion(10, 0.15) = %f, want 11.50", got)
	}
	if got := ApplyCushion(10.00, 0); got != 10.00 {
		t.Fatalf("ApplyCushion(10, 0) = %f, want 10.00", got)
	}
}
