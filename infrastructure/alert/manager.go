package alert

import (
	"fmt"
	"sync"
	"time"

	"rit-maker-go/risk"
)

// Alert is a single operator-facing notification.
type Alert struct {
	Severity  string // "INFO", "WARNING", "CRITICAL"
	Ticker    string
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// Channel delivers alerts to one destination.
type Channel interface {
	Send(alert Alert) error
	Name() string
}

// Throttler suppresses repeats of the same alert key within an interval.
type Throttler struct {
	lastSent map[string]time.Time
	interval time.Duration
	mu       sync.Mutex
}

func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{
		lastSent: make(map[string]time.Time),
		interval: interval,
	}
}

// Allow reports whether an alert with this key may be sent now, and if
// so records the send time.
func (t *Throttler) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	last, seen := t.lastSent[key]
	if !seen || now.Sub(last) >= t.interval {
		t.lastSent[key] = now
		return true
	}
	return false
}

func (t *Throttler) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lastSent, key)
}

func (t *Throttler) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSent = make(map[string]time.Time)
}

// Manager fans alerts out to channels with per-key throttling.
type Manager struct {
	channels []Channel
	throttle *Throttler
	mu       sync.RWMutex
}

func NewManager(channels []Channel, throttleInterval time.Duration) *Manager {
	return &Manager{
		channels: channels,
		throttle: NewThrottler(throttleInterval),
	}
}

// Send delivers the alert to every channel. Repeats of the same
// severity/ticker/message within the throttle window are dropped
// silently. The last channel error is returned only when every
// channel failed.
func (m *Manager) Send(alert Alert) error {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	key := fmt.Sprintf("%s:%s:%s", alert.Severity, alert.Ticker, alert.Message)
	if !m.throttle.Allow(key) {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var lastErr error
	delivered := 0
	for _, ch := range m.channels {
		if err := ch.Send(alert); err != nil {
			lastErr = fmt.Errorf("channel %s: %w", ch.Name(), err)
		} else {
			delivered++
		}
	}
	if delivered == 0 && lastErr != nil {
		return lastErr
	}
	return nil
}

// RiskTransition raises an alert when the risk gate changes state for a
// ticker. De-escalations back toward NORMAL are informational.
func (m *Manager) RiskTransition(ticker string, from, to risk.State, position int) error {
	if from == to {
		return nil
	}

	severity := "INFO"
	switch to {
	case risk.StateSkew:
		severity = "WARNING"
	case risk.StateFlatten, risk.StateReverseBlock:
		severity = "CRITICAL"
	}

	return m.Send(Alert{
		Severity: severity,
		Ticker:   ticker,
		Message:  fmt.Sprintf("risk state %s -> %s", from, to),
		Fields: map[string]interface{}{
			"position": position,
		},
	})
}

// Unavailable reports a gateway outage for a ticker.
func (m *Manager) Unavailable(ticker string, err error) error {
	return m.Send(Alert{
		Severity: "WARNING",
		Ticker:   ticker,
		Message:  "exchange unavailable",
		Fields: map[string]interface{}{
			"error": err.Error(),
		},
	})
}

func (m *Manager) AddChannel(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, ch)
}

func (m *Manager) RemoveChannel(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		if ch.Name() != name {
			kept = append(kept, ch)
		}
	}
	m.channels = kept
}

func (m *Manager) ChannelNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.channels))
	for _, ch := range m.channels {
		names = append(names, ch.Name())
	}
	return names
}

func (m *Manager) ResetThrottle() {
	m.throttle.Clear()
}
