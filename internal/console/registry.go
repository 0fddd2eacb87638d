package console

import (
	"context"
	"sync"
	"time"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/log"
	"bloomadmin/internal/notify"
)

// Registry owns the open workspaces, keyed by session id.
type Registry struct {
	backend Backend
	hub     *notify.Hub
	opts    Options
	idle    time.Duration

	mu sync.Mutex
	ws map[string]*Workspace
}

// NewRegistry returns a registry whose workspaces close after idle without activity.
// A zero idle never expires them.
func NewRegistry(b Backend, hub *notify.Hub, opts Options, idle time.Duration) *Registry {
	return &Registry{backend: b, hub: hub, opts: opts, idle: idle, ws: map[string]*Workspace{}}
}

// Open returns the workspace for sid, creating it for admin if needed.
func (r *Registry) Open(sid string, admin domain.User) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.ws[sid]; ok && !w.Closed() {
		w.Touch(time.Now())
		return w
	}
	w := NewWorkspace(sid, admin, r.backend, r.opts)
	r.ws[sid] = w
	if r.hub != nil {
		r.hub.Subscribe(sid, w)
	}
	log.Info(nil, "console.workspace.open", map[string]any{"workspace": sid, "admin": admin.Email})
	return w
}

// Get returns the open workspace for sid and records the activity.
func (r *Registry) Get(sid string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.ws[sid]
	if !ok {
		return nil, false
	}
	w.Touch(time.Now())
	return w, true
}

// Close shuts the workspace for sid, if any.
func (r *Registry) Close(sid string) {
	r.mu.Lock()
	w, ok := r.ws[sid]
	delete(r.ws, sid)
	r.mu.Unlock()
	if !ok {
		return
	}
	if r.hub != nil {
		r.hub.Unsubscribe(sid)
	}
	w.Close()
	log.Info(nil, "console.workspace.close", map[string]any{"workspace": sid})
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ws)
}

// Sweep closes workspaces idle since before now-idle and returns how many it closed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}
	r.mu.Lock()
	var stale []string
	for sid, w := range r.ws {
		if now.Sub(w.LastSeen()) > r.idle {
			stale = append(stale, sid)
		}
	}
	r.mu.Unlock()
	for _, sid := range stale {
		r.Close(sid)
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done, then closes everything.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case now := <-t.C:
			if n := r.Sweep(now); n > 0 {
				log.Info(nil, "console.workspace.sweep", map[string]any{"closed": n})
			}
		}
	}
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	sids := make([]string, 0, len(r.ws))
	for sid := range r.ws {
		sids = append(sids, sid)
	}
	r.mu.Unlock()
	for _, sid := range sids {
		r.Close(sid)
	}
}
