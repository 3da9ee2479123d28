package usecase

import (
	"sync"

	"PriceCast/internal/domain/models"
)

// ProgressHub fans training-progress events out to subscribers. Publishing
// never blocks: a subscriber that falls behind loses its oldest buffered
// event, so training speed is independent of observer speed.
type ProgressHub struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]chan models.TrainingProgress
	bufSize int
}

// NewProgressHub creates a hub with the given per-subscriber buffer.
func NewProgressHub(bufSize int) *ProgressHub {
	if bufSize <= 0 {
		bufSize = 64
	}
	return &ProgressHub{
		subs:    make(map[int]chan models.TrainingProgress),
		bufSize: bufSize,
	}
}

// Subscribe registers a new event channel and returns it with its id.
func (h *ProgressHub) Subscribe() (int, <-chan models.TrainingProgress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan models.TrainingProgress, h.bufSize)
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes and closes the channel for id.
func (h *ProgressHub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers one event to every subscriber, evicting the oldest
// buffered event when a buffer is full.
func (h *ProgressHub) Publish(p models.TrainingProgress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- p:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- p:
			default:
			}
		}
	}
}
