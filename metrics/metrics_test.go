package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsExposed(t *testing.T) {
	m := New("rit")
	m.OrdersPlaced.WithLabelValues("ALGO").Add(3)
	m.RiskState.WithLabelValues("ALGO").Set(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)

	out := string(body)
	if !strings.Contains(out, `rit_maker_orders_placed_total{ticker="ALGO"} 3`) {
		t.Fatalf("orders counter missing:\n%s", out)
	}
	if !strings.Contains(out, `rit_maker_risk_state{ticker="ALGO"} 2`) {
		t.Fatalf("risk state gauge missing:\n%s", out)
	}
}

func TestNewDefaultNamespace(t *testing.T) {
	m := New("")
	m.TicksProcessed.WithLabelValues("X").Inc()
	fams, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(fams) == 0 {
		t.Fatal("expected at least one metric family")
	}
}
