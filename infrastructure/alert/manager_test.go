package alert

import (
	"testing"
	"time"

	"rit-maker-go/risk"
)

func TestSendDelivers(t *testing.T) {
	mem := NewMemoryChannel("mem")
	mgr := NewManager([]Channel{mem}, 5*time.Minute)

	err := mgr.Send(Alert{
		Severity: "INFO",
		Ticker:   "ALGO",
		Message:  "hello",
		Fields:   map[string]interface{}{"position": 1200},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if mem.Count() != 1 {
		t.Fatalf("got %d alerts, want 1", mem.Count())
	}
	got := mem.Alerts()[0]
	if got.Ticker != "ALGO" || got.Message != "hello" {
		t.Errorf("alert = %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}
}

func TestThrottleSuppressesRepeats(t *testing.T) {
	mem := NewMemoryChannel("mem")
	mgr := NewManager([]Channel{mem}, time.Hour)

	a := Alert{Severity: "WARNING", Ticker: "ALGO", Message: "exchange unavailable"}
	for i := 0; i < 3; i++ {
		if err := mgr.Send(a); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	if mem.Count() != 1 {
		t.Errorf("got %d alerts, want 1 after throttling", mem.Count())
	}

	// A different key is not throttled.
	if err := mgr.Send(Alert{Severity: "WARNING", Ticker: "THOR", Message: "exchange unavailable"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if mem.Count() != 2 {
		t.Errorf("got %d alerts, want 2", mem.Count())
	}

	mgr.ResetThrottle()
	if err := mgr.Send(a); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if mem.Count() != 3 {
		t.Errorf("got %d alerts after reset, want 3", mem.Count())
	}
}

func TestRiskTransitionSeverity(t *testing.T) {
	tests := []struct {
		name         string
		from, to     risk.State
		wantSeverity string
		wantSent     bool
	}{
		{"escalate to skew", risk.StateNormal, risk.StateSkew, "WARNING", true},
		{"escalate to flatten", risk.StateSkew, risk.StateFlatten, "CRITICAL", true},
		{"overshoot into reverse block", risk.StateFlatten, risk.StateReverseBlock, "CRITICAL", true},
		{"recover to normal", risk.StateFlatten, risk.StateNormal, "INFO", true},
		{"no change", risk.StateSkew, risk.StateSkew, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemoryChannel("mem")
			mgr := NewManager([]Channel{mem}, time.Minute)

			if err := mgr.RiskTransition("ALGO", tt.from, tt.to, -25000); err != nil {
				t.Fatalf("RiskTransition failed: %v", err)
			}

			if !tt.wantSent {
				if mem.Count() != 0 {
					t.Fatalf("got %d alerts, want none", mem.Count())
				}
				return
			}
			if mem.Count() != 1 {
				t.Fatalf("got %d alerts, want 1", mem.Count())
			}
			got := mem.Alerts()[0]
			if got.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", got.Severity, tt.wantSeverity)
			}
			if got.Fields["position"] != -25000 {
				t.Errorf("position field = %v, want -25000", got.Fields["position"])
			}
		})
	}
}

func TestSendAllChannelsFail(t *testing.T) {
	bad := NewMemoryChannel("bad")
	bad.SetError(true)
	mgr := NewManager([]Channel{bad}, time.Minute)

	if err := mgr.Send(Alert{Severity: "INFO", Ticker: "ALGO", Message: "x"}); err == nil {
		t.Fatal("expected error when every channel fails")
	}
}

func TestSendPartialFailure(t *testing.T) {
	bad := NewMemoryChannel("bad")
	bad.SetError(true)
	good := NewMemoryChannel("good")
	mgr := NewManager([]Channel{bad, good}, time.Minute)

	if err := mgr.Send(Alert{Severity: "INFO", Ticker: "ALGO", Message: "x"}); err != nil {
		t.Fatalf("partial delivery should not error: %v", err)
	}
	if good.Count() != 1 {
		t.Errorf("good channel got %d alerts, want 1", good.Count())
	}
}

func TestChannelManagement(t *testing.T) {
	mgr := NewManager([]Channel{NewMemoryChannel("a")}, time.Minute)
	mgr.AddChannel(NewMemoryChannel("b"))

	names := mgr.ChannelNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("names = %v", names)
	}

	mgr.RemoveChannel("a")
	names = mgr.ChannelNames()
	if len(names) != 1 || names[0] != "b" {
		t.Fatalf("names after remove = %v", names)
	}
}
