// Package notify keeps each workspace's notification list and fans backend pushes out to them.
package notify

import (
	"sync"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/listview"
)

// Capacity is the most notifications a Buffer holds.
const Capacity = 200

// Read filter values.
const (
	FilterRead   = "read"
	FilterUnread = "unread"
)

// Spec filters notifications on read state and searches their message.
var Spec = listview.Spec[domain.Notification]{
	Filter: func(n domain.Notification) string {
		if n.Read {
			return FilterRead
		}
		return FilterUnread
	},
	Search: func(n domain.Notification) []string { return []string{n.Message} },
}

// Buffer is a bounded newest-first list of notifications.
// Push inserts at the front and drops the oldest entry once Capacity is exceeded.
type Buffer struct {
	mu    sync.RWMutex
	items []domain.Notification
	cap   int
}

func NewBuffer() *Buffer { return &Buffer{cap: Capacity} }

// Push adds n as the newest entry. A notification whose id is already held replaces it
// and moves to the front.
func (b *Buffer) Push(n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(n.ID); i >= 0 {
		b.items = append(b.items[:i:i], b.items[i+1:]...)
	}
	b.items = append([]domain.Notification{n}, b.items...)
	if len(b.items) > b.cap {
		b.items = b.items[:b.cap:b.cap]
	}
}

// Reset replaces the contents with list, which must be newest first.
func (b *Buffer) Reset(list []domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(list) > b.cap {
		list = list[:b.cap]
	}
	b.items = append([]domain.Notification(nil), list...)
}

// Items returns a copy of the buffer, newest first.
func (b *Buffer) Items() []domain.Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Notification(nil), b.items...)
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Unread counts entries not yet read.
func (b *Buffer) Unread() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, it := range b.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// UnreadIDs lists the ids of unread entries, newest first.
func (b *Buffer) UnreadIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []string
	for _, it := range b.items {
		if !it.Read {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func (b *Buffer) Find(id string) (domain.Notification, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := b.indexLocked(id); i >= 0 {
		return b.items[i], true
	}
	return domain.Notification{}, false
}

// MarkRead flags the entry with id as read. It reports whether the entry exists.
func (b *Buffer) MarkRead(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.items[i].Read = true
	return true
}

func (b *Buffer) MarkAllRead() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		b.items[i].Read = true
	}
}

// Remove drops the entry with id. It reports whether one was removed.
func (b *Buffer) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.items = append(b.items[:i:i], b.items[i+1:]...)
	return true
}

func (b *Buffer) indexLocked(id string) int {
	for i, it := range b.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
