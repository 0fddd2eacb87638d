package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/log"
)

// Subscriber receives every published notification.
type Subscriber interface {
	Notify(n domain.Notification)
}

// Hub fans backend pushes out to the open workspaces.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

func NewHub() *Hub { return &Hub{subs: map[string]Subscriber{}} }

// Subscribe registers s under key, replacing any earlier subscriber with that key.
func (h *Hub) Subscribe(key string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[key] = s
}

func (h *Hub) Unsubscribe(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, key)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish completes missing fields of n and delivers it to every subscriber.
// It returns the notification as delivered.
func (h *Hub) Publish(n domain.Notification) domain.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = domain.Timestamp{Time: time.Now().UTC()}
	}

	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.Notify(n)
	}
	log.Info(nil, "notify.publish", map[string]any{"id": n.ID, "subscribers": len(subs)})
	return n
}
