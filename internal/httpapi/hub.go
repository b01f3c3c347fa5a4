package httpapi

import (
	"sync"

	"github.com/amaanshakeel0998/Agent/internal/protocol"
)

// Hub fans events out to connected websocket subscribers. Slow
// subscribers are dropped-from, never blocked-on: a stalled observer
// must not stall command dispatch.
type Hub struct {
	mu   sync.Mutex
	subs map[chan protocol.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan protocol.Event]struct{})}
}

// Publish delivers the event to every subscriber with room in its
// buffer.
func (h *Hub) Publish(ev protocol.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a buffered event channel.
func (h *Hub) Subscribe() chan protocol.Event {
	ch := make(chan protocol.Event, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes the channel.
func (h *Hub) Unsubscribe(ch chan protocol.Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// SubscriberCount reports the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
