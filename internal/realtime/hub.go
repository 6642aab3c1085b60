package realtime

import (
	"sync"

	"github.com/google/uuid"

	"studydesk/backend/internal/logger"
)

const subscriberBuffer = 32

type Subscriber struct {
	ID       string
	Outbound chan Message
}

// Hub delivers broadcast messages to every subscriber. A subscriber whose
// buffer is full misses the message rather than blocking the broadcast.
type Hub struct {
	log *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		log:         log.With("component", "sync_hub"),
		subscribers: map[string]*Subscriber{},
	}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID:       uuid.NewString(),
		Outbound: make(chan Message, subscriberBuffer),
	}
	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its outbound channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub.ID]; !ok {
		return
	}
	delete(h.subscribers, sub.ID)
	close(sub.Outbound)
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		select {
		case sub.Outbound <- msg:
		default:
			h.log.Warn("sync subscriber lagging, dropping message", "subscriber_id", sub.ID, "action", msg.Action)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
