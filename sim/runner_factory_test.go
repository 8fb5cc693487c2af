package sim

import (
	"testing"

	"rit-maker-go/config"
)

func TestBuildRunnerWiresComponents(t *testing.T) {
	data := &fakeData{}
	exec := &fakeExec{}

	r, err := BuildRunner("ALGO", testTickerConfig(), Deps{Data: data, Exec: exec})
	if err != nil {
		t.Fatalf("BuildRunner failed: %v", err)
	}
	if r.Ticker != "ALGO" {
		t.Errorf("ticker = %s", r.Ticker)
	}
	if r.Gate == nil || r.Gen == nil || r.Spread == nil || r.Lifecycle == nil {
		t.Fatal("components not wired")
	}
	if r.Lifecycle.MaxOpenOrders != 8 {
		t.Errorf("maxOpenOrders = %d, want 8", r.Lifecycle.MaxOpenOrders)
	}
	if r.Lifecycle.Guard == nil {
		t.Error("pre-order guard not wired")
	}
}

func TestBuildRunnerRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.TickerConfig)
	}{
		{"softSkew above flatten", func(c *config.TickerConfig) { c.Risk.SoftSkew = c.Risk.Flatten + 1 }},
		{"zero flatten", func(c *config.TickerConfig) { c.Risk.Flatten = 0 }},
		{"empty ladder", func(c *config.TickerConfig) { c.Ladder = nil }},
		{"zero flatten slice", func(c *config.TickerConfig) { c.FlattenSlice = 0 }},
		{"skew factor above one", func(c *config.TickerConfig) { c.SkewFactor = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTickerConfig()
			tt.mutate(&cfg)
			if _, err := BuildRunner("ALGO", cfg, Deps{Data: &fakeData{}, Exec: &fakeExec{}}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
