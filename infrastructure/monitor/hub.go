// Package monitor broadcasts engine events to live observers.
package monitor

import (
	"sync"
	"time"
)

// Event is one observable engine occurrence: a risk transition, a
// quote ladder, an order outcome.
type Event struct {
	Type   string         `json:"type"`
	Ticker string         `json:"ticker"`
	Tick   int            `json:"tick,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
	Ts     time.Time      `json:"ts"`
}

// Hub fans events out to subscribers. Slow subscribers drop events
// rather than stall the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a buffered event channel.
func (h *Hub) Subscribe(buffer int) chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish stamps and delivers an event to every subscriber that has
// buffer room.
func (h *Hub) Publish(ev Event) {
	if ev.Ts.IsZero() {
		ev.Ts = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
