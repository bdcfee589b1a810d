package feed

import (
	"sync"
	"time"
)

// Event tells a subscriber that the user's notification list changed.
// It carries no payload beyond "something changed": consumers refetch.
type Event struct {
	UserID string
	At     time.Time
}

// Subscription is a single listener on one user's feed. Close releases it;
// calling Close more than once is safe.
type Subscription struct {
	C      <-chan Event
	c      chan Event
	userID string
	hub    *Hub
	once   sync.Once
}

// Close unregisters the subscription and closes its channel exactly once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.c)
	})
}

// Hub fans change events out to per-user subscribers. Publishing never
// blocks: each subscription channel holds one pending event and further
// publishes coalesce into it, which is enough to trigger a refetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{} // userID -> subscriptions
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a listener for the user's feed.
func (h *Hub) Subscribe(userID string) *Subscription {
	c := make(chan Event, 1)
	sub := &Subscription{C: c, c: c, userID: userID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	return sub
}

// Publish notifies every subscriber of the user. Slow consumers keep the
// single buffered event; extra publishes are dropped, not queued.
func (h *Hub) Publish(userID string) {
	event := Event{UserID: userID, At: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[userID] {
		select {
		case sub.c <- event:
		default:
		}
	}
}

// Count returns the number of active subscriptions for a user.
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
}
