package memory

import (
	"context"
	"sync"

	"quizzler/internal/domain"
)

// Hub is an in-process scoreboard fanout. Slow subscribers never block a
// publish: a stale snapshot waiting in the channel is dropped in favor of
// the newest one.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan domain.Scoreboard]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan domain.Scoreboard]struct{})}
}

func (h *Hub) Publish(_ context.Context, scoreboard domain.Scoreboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- scoreboard:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- scoreboard
		}
	}
}

func (h *Hub) Subscribe(_ context.Context) (<-chan domain.Scoreboard, func()) {
	ch := make(chan domain.Scoreboard, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}
